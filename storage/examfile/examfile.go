// Package examfile loads the subject roster and exam round tables exported by the marks entry sheets.
package examfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/neptune-academy/reportcards/core/exam"
)

// Round is the content of a round file.
type Round struct {
	Round   exam.Round
	Entries []exam.Entry
}

type (
	roundFile struct {
		Round   string      `json:"round"`
		Entries []entryFile `json:"entries"`
	}

	entryFile struct {
		StudentID string       `json:"student_id"`
		Scores    []scoreFile  `json:"scores"`
		Summary   exam.Summary `json:"summary"`
	}

	// scoreFile is a [mark, grade, points] triple; grade & points may be left out.
	scoreFile exam.Score
)

func (s *scoreFile) UnmarshalJSON(data []byte) error {
	var triple []json.RawMessage
	if err := json.Unmarshal(data, &triple); err != nil {
		return errors.Wrap(err, "score must be a [mark, grade, points] list")
	}
	if len(triple) == 0 || len(triple) > 3 {
		return errors.Errorf("score must be a [mark, grade, points] list, got %s", data)
	}

	score := exam.Score{Mark: exam.MissingMark}
	if !isNull(triple[0]) {
		if err := json.Unmarshal(triple[0], &score.Mark); err != nil {
			return errors.Wrapf(err, "invalid mark %s", triple[0])
		}
	}
	if len(triple) > 1 && !isNull(triple[1]) {
		if err := json.Unmarshal(triple[1], &score.Grade); err != nil {
			return errors.Wrapf(err, "invalid grade %s", triple[1])
		}
	}
	if len(triple) > 2 && !isNull(triple[2]) {
		if err := json.Unmarshal(triple[2], &score.Points); err != nil {
			return errors.Wrapf(err, "invalid points %s", triple[2])
		}
	}
	*s = scoreFile(score)
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading file")
	}
	if err = json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}

// LoadSubjects reads the subject roster, a JSON list of subjects.
func LoadSubjects(path string, validate *validator.Validate) ([]exam.Subject, error) {
	var subjects []exam.Subject
	if err := readJSON(path, &subjects); err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, errors.Errorf("%s: no subjects", path)
	}
	if err := exam.ValidateSubjects(validate, subjects); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return subjects, nil
}

// LoadRound reads a round table. Present marks missing a grade are graded with the scale.
func LoadRound(path string, scale exam.Scale) (Round, error) {
	var f roundFile
	if err := readJSON(path, &f); err != nil {
		return Round{}, err
	}

	round, err := exam.ParseRound(f.Round)
	if err != nil {
		return Round{}, errors.Wrap(err, path)
	}

	entries := make([]exam.Entry, 0, len(f.Entries))
	for i, e := range f.Entries {
		if e.StudentID == "" {
			return Round{}, errors.Errorf("%s: entry %d has no student_id", path, i+1)
		}
		scores := make([]exam.Score, 0, len(e.Scores))
		for j, s := range e.Scores {
			if s.Mark == exam.MissingMark {
				return Round{}, errors.Wrap(&exam.InvalidScoreError{
					StudentID: e.StudentID,
					Round:     round,
					Subject:   j,
					Mark:      s.Mark,
					Msg:       "missing mark",
				}, path)
			}
			scores = append(scores, scale.Fill(exam.Score(s)))
		}
		entries = append(entries, exam.Entry{
			StudentID: e.StudentID,
			Scores:    scores,
			Summary:   e.Summary,
		})
	}
	return Round{Round: round, Entries: entries}, nil
}

// LoadRounds reads three round files and orders them opener, midterm, endterm whatever the argument order.
func LoadRounds(scale exam.Scale, paths ...string) ([exam.NumRounds][]exam.Entry, error) {
	var rounds [exam.NumRounds][]exam.Entry
	if len(paths) != exam.NumRounds {
		return rounds, fmt.Errorf("expected %d round files, got %d", exam.NumRounds, len(paths))
	}

	seen := make(map[exam.Round]string, exam.NumRounds)
	for _, path := range paths {
		r, err := LoadRound(path, scale)
		if err != nil {
			return rounds, err
		}
		if other, ok := seen[r.Round]; ok {
			return rounds, errors.Errorf("%s and %s both hold the %s round", other, path, r.Round)
		}
		seen[r.Round] = path
		rounds[r.Round] = r.Entries
	}
	return rounds, nil
}
