package exam

import "fmt"

// MismatchedRoundsError is returned when the round tables cannot be lined up:
// different lengths, a missing or duplicated student ID, or a student unknown to the opener table.
type MismatchedRoundsError struct {
	Round    Round
	Position int // row in the table; -1 when the whole table is concerned
	Msg      string
}

func (err *MismatchedRoundsError) Error() string {
	if err.Position < 0 {
		return fmt.Sprintf("%s table: %s", err.Round, err.Msg)
	}
	return fmt.Sprintf("%s table, row %d: %s", err.Round, err.Position+1, err.Msg)
}

// InvalidScoreError is returned when a student's scores cannot be graded.
type InvalidScoreError struct {
	StudentID string
	Round     Round
	Subject   int // index in the subject roster; -1 when the score list itself is malformed
	Mark      int
	Msg       string
}

func (err *InvalidScoreError) Error() string {
	if err.Subject < 0 {
		return fmt.Sprintf("student %s, %s: %s", err.StudentID, err.Round, err.Msg)
	}
	return fmt.Sprintf("student %s, %s, subject %d: %s", err.StudentID, err.Round, err.Subject+1, err.Msg)
}
