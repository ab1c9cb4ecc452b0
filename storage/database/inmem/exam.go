package inmemdb

import (
	"context"

	"github.com/neptune-academy/reportcards/core/exam"
)

type examRepository struct {
	db *examTable
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *DB) exam.Repository {
	return &examRepository{db: db.exam}
}

func (repo *examRepository) SaveRound(_ context.Context, term exam.Term, round exam.Round, entries []exam.Entry) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	// an empty round has no rows: it reads as never saved
	if len(entries) == 0 {
		delete(repo.db.table, examKey{term, round})
		return nil
	}
	repo.db.table[examKey{term, round}] = copyEntries(entries)
	return nil
}

func (repo *examRepository) GetRound(_ context.Context, term exam.Term, round exam.Round) ([]exam.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries, ok := repo.db.table[examKey{term, round}]
	if !ok {
		return nil, exam.ErrRoundNotFound
	}
	return copyEntries(entries), nil
}

func copyEntries(entries []exam.Entry) []exam.Entry {
	cp := make([]exam.Entry, len(entries))
	for i, e := range entries {
		cp[i] = e
		cp[i].Scores = append([]exam.Score(nil), e.Scores...)
	}
	return cp
}
