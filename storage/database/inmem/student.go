package inmemdb

import (
	"context"
	"reflect"
	"sort"
	"strings"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[std.Adm]; ok {
		return student.Student{}, student.ErrAdmExists
	}
	repo.db.table[std.Adm] = &std
	return std, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, adm string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[adm]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[std.Adm]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	std.CreatedAt = orig.CreatedAt
	repo.db.table[std.Adm] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, adm string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, adm)
	return nil
}

func (repo *studentRepository) QueryAllStudents(_ context.Context, ordering ...core.DBOrdering) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.table))
	for _, std := range repo.db.table {
		students = append(students, *std)
	}
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "adm", Ascending: true}}
	}
	sort.SliceStable(students, func(i, j int) bool {
		for _, ord := range ordering {
			vi, vj := field(students[i], ord.Field), field(students[j], ord.Field)
			if vi == vj {
				continue
			}
			if ord.Ascending {
				return less(vi, vj)
			}
			return less(vj, vi)
		}
		return false
	})
	return students, nil
}

// field returns the value of the struct field tagged `db:"name"`.
func field(std student.Student, name string) interface{} {
	v := reflect.ValueOf(std)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if strings.EqualFold(t.Field(i).Tag.Get("db"), name) {
			return v.Field(i).Interface()
		}
	}
	return nil
}

func less(a, b interface{}) bool {
	switch va := a.(type) {
	case string:
		vb, _ := b.(string)
		return va < vb
	case int:
		vb, _ := b.(int)
		return va < vb
	}
	return false
}
