package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/neptune-academy/reportcards/core/exam"
	"github.com/neptune-academy/reportcards/core/student"
)

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	adm, name, gender string,
	yob int,
	createdAt ...time.Time,
) student.Student {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	std, err := repo.CreateStudent(context.Background(), student.Student{
		Adm:       adm,
		Name:      name,
		Gender:    gender,
		YOB:       yob,
		Dorm:      "Kilimanjaro",
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

// WriteFile writes content to name under a test temp dir and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writeFile() failed: %v", err)
	}
	return path
}

// Subjects is a two-subject roster matching the round fixtures.
var Subjects = []exam.Subject{
	{Code: 101, Name: "English", Teacher: "Mr. Otieno"},
	{Code: 121, Name: "Mathematics", Teacher: "Mrs. Wanjiku"},
}

const SubjectsJSON = `[
	{"code": 101, "name": "English", "teacher": "Mr. Otieno"},
	{"code": 121, "name": "Mathematics", "teacher": "Mrs. Wanjiku"}
]`

// Round fixtures for students 127 & 130.
const (
	OpenerJSON = `{"round": "opener", "entries": [
		{"student_id": "127", "scores": [[52, "B-", 8], [40]], "summary": {"mean": 46, "grade": "C+"}},
		{"student_id": "130", "scores": [[60, "B+", 10], [-1]], "summary": {"mean": "", "grade": ""}}
	]}`
	MidtermJSON = `{"round": "midterm", "entries": [
		{"student_id": "127", "scores": [[58, "B", 9], [44]], "summary": {"mean": 51, "grade": "B-"}},
		{"student_id": "130", "scores": [[62, "B+", 10], [30]], "summary": {"mean": 46, "grade": "C+"}}
	]}`
	EndtermJSON = `{"round": "endterm", "entries": [
		{"student_id": "127", "scores": [[61, "B+", 10], [50]], "summary": {"mean": 55, "grade": "B"}},
		{"student_id": "130", "scores": [[55, "B", 9], [35]], "summary": {"mean": 45, "grade": "C+"}}
	]}`
)

// Rounds returns the round fixtures as tables, opener first.
func Rounds() [exam.NumRounds][]exam.Entry {
	score := func(mark int) exam.Score { return exam.DefaultMarksScale.Fill(exam.Score{Mark: mark}) }
	return [exam.NumRounds][]exam.Entry{
		{
			{StudentID: "127", Scores: []exam.Score{score(52), score(40)}, Summary: exam.Summary{Mean: exam.NewMean(46), Grade: "C+"}},
			{StudentID: "130", Scores: []exam.Score{score(60), score(-1)}},
		},
		{
			{StudentID: "127", Scores: []exam.Score{score(58), score(44)}, Summary: exam.Summary{Mean: exam.NewMean(51), Grade: "B-"}},
			{StudentID: "130", Scores: []exam.Score{score(62), score(30)}, Summary: exam.Summary{Mean: exam.NewMean(46), Grade: "C+"}},
		},
		{
			{StudentID: "127", Scores: []exam.Score{score(61), score(50)}, Summary: exam.Summary{Mean: exam.NewMean(55), Grade: "B"}},
			{StudentID: "130", Scores: []exam.Score{score(55), score(35)}, Summary: exam.Summary{Mean: exam.NewMean(45), Grade: "C+"}},
		},
	}
}
