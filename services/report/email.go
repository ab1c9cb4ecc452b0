package reportsvc

import (
	"net/mail"
	"sort"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/exam"
)

const EmailTemplate = "reportcards"

type (
	EmailData struct {
		Term  string
		Count int
		Batch string
		Top   []TopStudent
	}

	TopStudent struct {
		Position int
		Adm      string
		Name     string
		Mean     exam.Mean
		Grade    string
	}
)

// NewEmailMessage announces a batch of report cards, listing the top students of the class.
// The caller attaches the report cards file.
func NewEmailMessage(to []mail.Address, term exam.Term, batch string, res *exam.Results, names map[string]string, top int) *core.EmailMessage {
	termName := "the class"
	if term != (exam.Term{}) {
		termName = term.String()
	}

	ranking := exam.Rank(res)
	students := make([]TopStudent, 0, res.Len())
	for _, rec := range res.All() {
		summary := rec.Summaries[exam.Endterm]
		if !summary.Mean.Valid {
			continue
		}
		students = append(students, TopStudent{
			Position: ranking.Position(rec.StudentID),
			Adm:      rec.StudentID,
			Name:     names[rec.StudentID],
			Mean:     summary.Mean,
			Grade:    summary.Grade,
		})
	}
	sort.SliceStable(students, func(i, j int) bool { return students[i].Position < students[j].Position })
	if len(students) > top {
		students = students[:top]
	}

	return &core.EmailMessage{
		To:           to,
		Subject:      "Report cards: " + termName,
		TemplateName: EmailTemplate,
		TemplateData: EmailData{
			Term:  termName,
			Count: res.Len(),
			Batch: batch,
			Top:   students,
		},
	}
}
