package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/student"
)

const (
	pqUniqueViolation = "23505"

	studentColumns = "adm, name, gender, yob, dorm, created_at, updated_at"
)

// sortable columns
var studentOrderings = map[string]bool{
	"adm": true, "name": true, "gender": true, "yob": true, "dorm": true, "created_at": true, "updated_at": true,
}

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) student.Repository {
	return &studentRepository{exec: exec}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	q := `INSERT INTO student (` + studentColumns + `)
		VALUES (:adm, :name, :gender, :yob, :dorm, :created_at, :updated_at)`
	if _, err := repo.exec.NamedExecContext(ctx, q, std); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return student.Student{}, student.ErrAdmExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, adm string) (student.Student, error) {
	var std student.Student
	q := `SELECT ` + studentColumns + ` FROM student WHERE adm = $1`
	if err := repo.exec.GetContext(ctx, &std, q, adm); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "selecting student")
	}
	return std, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	q := `UPDATE student SET name = :name, gender = :gender, yob = :yob, dorm = :dorm, updated_at = :updated_at
		WHERE adm = :adm`
	res, err := repo.exec.NamedExecContext(ctx, q, std)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudent(ctx, std.Adm)
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, adm string) error {
	if _, err := repo.exec.ExecContext(ctx, `DELETE FROM student WHERE adm = $1`, adm); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context, ordering ...core.DBOrdering) ([]student.Student, error) {
	orderBy := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		ord.Field = strings.ToLower(ord.Field)
		if studentOrderings[ord.Field] {
			orderBy = append(orderBy, ord.String())
		}
	}
	if len(orderBy) == 0 {
		orderBy = append(orderBy, core.DBOrdering{Field: "adm", Ascending: true}.String())
	}

	students := make([]student.Student, 0)
	q := `SELECT ` + studentColumns + ` FROM student ORDER BY ` + strings.Join(orderBy, ", ")
	if err := repo.exec.SelectContext(ctx, &students, q); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return students, nil
}
