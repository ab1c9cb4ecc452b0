package exam

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var ErrRoundNotFound = errors.New("exam round not found")

// Term identifies the class & school term the three rounds were sat in.
type Term struct {
	Year   int    `json:"year" db:"year" validate:"required,min=1900"`
	Number int    `json:"term" db:"term" validate:"required,min=1,max=3"`
	Form   string `json:"form" db:"form" validate:"required"`
}

func (t Term) String() string {
	return fmt.Sprintf("%s, term %d %d", t.Form, t.Number, t.Year)
}

type (
	Repository interface {
		// SaveRound replaces the whole round table of a term, keeping the entries order.
		SaveRound(ctx context.Context, term Term, round Round, entries []Entry) error
		// GetRound returns ErrRoundNotFound when the round was never saved.
		GetRound(ctx context.Context, term Term, round Round) ([]Entry, error)
	}

	// Service stores round tables and grades them. Grading itself never touches the repository.
	Service struct {
		repo   Repository
		grader Grader
	}
)

func NewService(repo Repository, grader Grader) *Service {
	return &Service{repo: repo, grader: grader}
}

func (svc *Service) Grader() Grader { return svc.grader }

// ImportRound stores a round table. Scores without a mark are rejected.
func (svc *Service) ImportRound(ctx context.Context, term Term, round Round, entries []Entry) error {
	for _, entry := range entries {
		for s, score := range entry.Scores {
			if score.Mark == MissingMark {
				return &InvalidScoreError{StudentID: entry.StudentID, Round: round, Subject: s, Mark: score.Mark, Msg: "missing mark"}
			}
		}
	}
	if err := svc.repo.SaveRound(ctx, term, round, entries); err != nil {
		return errors.Wrapf(err, "saving %s round of %s", round, term)
	}
	return nil
}

// LoadRounds returns the opener, midterm & endterm tables of a term.
func (svc *Service) LoadRounds(ctx context.Context, term Term) ([NumRounds][]Entry, error) {
	var rounds [NumRounds][]Entry
	for _, r := range Rounds {
		entries, err := svc.repo.GetRound(ctx, term, r)
		if err != nil {
			return rounds, errors.Wrapf(err, "loading %s round of %s", r, term)
		}
		rounds[r] = entries
	}
	return rounds, nil
}

func (svc *Service) Grade(subjects []Subject, rounds [NumRounds][]Entry) (*Results, error) {
	return svc.grader.Join(subjects, rounds[Opener], rounds[Midterm], rounds[Endterm])
}

// GradeTerm loads a term's rounds and grades them.
func (svc *Service) GradeTerm(ctx context.Context, term Term, subjects []Subject) (*Results, error) {
	rounds, err := svc.LoadRounds(ctx, term)
	if err != nil {
		return nil, err
	}
	return svc.Grade(subjects, rounds)
}
