package sqlxrepos

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/exam"
)

type examResult struct {
	Year      int      `db:"year"`
	Term      int      `db:"term"`
	Form      string   `db:"form"`
	Round     int      `db:"round"`
	Position  int      `db:"position"`
	StudentID string   `db:"student_id"`
	Scores    []byte   `db:"scores"` // jsonb
	Mean      null.Int `db:"mean"`
	Grade     string   `db:"grade"`
}

func toRow(term exam.Term, round exam.Round, pos int, e exam.Entry) (examResult, error) {
	scores, err := json.Marshal(e.Scores)
	if err != nil {
		return examResult{}, err
	}
	return examResult{
		Year:      term.Year,
		Term:      term.Number,
		Form:      term.Form,
		Round:     int(round),
		Position:  pos,
		StudentID: e.StudentID,
		Scores:    scores,
		Mean:      null.NewInt(e.Summary.Mean.Value, e.Summary.Mean.Valid),
		Grade:     e.Summary.Grade,
	}, nil
}

func (row examResult) entry() (exam.Entry, error) {
	e := exam.Entry{
		StudentID: row.StudentID,
		Summary:   exam.Summary{Grade: row.Grade},
	}
	if row.Mean.Valid {
		e.Summary.Mean = exam.NewMean(row.Mean.Int)
	}
	if err := json.Unmarshal(row.Scores, &e.Scores); err != nil {
		return exam.Entry{}, err
	}
	return e, nil
}

type examRepository struct {
	db core.DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db core.DB) exam.Repository {
	return &examRepository{db: db}
}

func (repo *examRepository) SaveRound(ctx context.Context, term exam.Term, round exam.Round, entries []exam.Entry) (err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	q := `DELETE FROM exam_result WHERE year = $1 AND term = $2 AND form = $3 AND round = $4`
	if _, err = tx.ExecContext(ctx, q, term.Year, term.Number, term.Form, int(round)); err != nil {
		return errors.Wrap(err, "clearing round")
	}

	q = `INSERT INTO exam_result (year, term, form, round, position, student_id, scores, mean, grade)
		VALUES (:year, :term, :form, :round, :position, :student_id, :scores, :mean, :grade)`
	for i, e := range entries {
		var row examResult
		if row, err = toRow(term, round, i, e); err != nil {
			return errors.Wrapf(err, "encoding scores of %s", e.StudentID)
		}
		if _, err = tx.NamedExecContext(ctx, q, row); err != nil {
			return errors.Wrapf(err, "inserting result of %s", e.StudentID)
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing round")
	}
	return nil
}

func (repo *examRepository) GetRound(ctx context.Context, term exam.Term, round exam.Round) ([]exam.Entry, error) {
	var rows []examResult
	q := `SELECT year, term, form, round, position, student_id, scores, mean, grade FROM exam_result
		WHERE year = $1 AND term = $2 AND form = $3 AND round = $4 ORDER BY position`
	if err := repo.db.SelectContext(ctx, &rows, q, term.Year, term.Number, term.Form, int(round)); err != nil {
		return nil, errors.Wrap(err, "selecting round")
	}
	if len(rows) == 0 {
		return nil, exam.ErrRoundNotFound
	}

	entries := make([]exam.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := row.entry()
		if err != nil {
			return nil, errors.Wrapf(err, "decoding scores of %s", row.StudentID)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
