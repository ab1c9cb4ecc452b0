package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/exam"
)

var orderingParam = "ordering"

// Ordering binds `?ordering=name,-yob` query params.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field != "" {
			ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
		}
	}
}

// fillGrades grades present marks sent without a grade.
func fillGrades(entries []exam.Entry) []exam.Entry {
	for i := range entries {
		for j, score := range entries[i].Scores {
			entries[i].Scores[j] = exam.DefaultMarksScale.Fill(score)
		}
	}
	return entries
}
