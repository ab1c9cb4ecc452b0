package exam

// Band is one grade of a grading scale; Min and Max are inclusive.
type Band struct {
	Grade  string `json:"grade"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
	Points int    `json:"points"`
	Remark string `json:"remark,omitempty"`
}

type Scale []Band

var (
	// DefaultMarksScale grades a subject mark (forms 1 & 2; sciences, languages and humanities alike).
	DefaultMarksScale = Scale{
		{Grade: "E", Min: 0, Max: 14, Points: 1},
		{Grade: "D-", Min: 15, Max: 19, Points: 2},
		{Grade: "D", Min: 20, Max: 29, Points: 3},
		{Grade: "D+", Min: 30, Max: 34, Points: 4},
		{Grade: "C-", Min: 35, Max: 39, Points: 5},
		{Grade: "C", Min: 40, Max: 44, Points: 6},
		{Grade: "C+", Min: 45, Max: 49, Points: 7},
		{Grade: "B-", Min: 50, Max: 54, Points: 8},
		{Grade: "B", Min: 55, Max: 59, Points: 9},
		{Grade: "B+", Min: 60, Max: 64, Points: 10},
		{Grade: "A-", Min: 65, Max: 69, Points: 11},
		{Grade: "A", Min: 70, Max: 100, Points: 12},
	}

	// DefaultPointsScale grades the total points of the seven best subjects (forms 3 & 4).
	DefaultPointsScale = Scale{
		{Grade: "E", Min: 7, Max: 10, Points: 1, Remark: "POOR"},
		{Grade: "D-", Min: 11, Max: 17, Points: 2, Remark: "WEAK"},
		{Grade: "D", Min: 18, Max: 24, Points: 3, Remark: "WEAK"},
		{Grade: "D+", Min: 25, Max: 31, Points: 4, Remark: "WEAK"},
		{Grade: "C-", Min: 32, Max: 38, Points: 5, Remark: "AVERAGE"},
		{Grade: "C", Min: 39, Max: 45, Points: 6, Remark: "AVERAGE"},
		{Grade: "C+", Min: 46, Max: 52, Points: 7, Remark: "AVERAGE"},
		{Grade: "B-", Min: 53, Max: 59, Points: 8, Remark: "GOOD"},
		{Grade: "B", Min: 60, Max: 66, Points: 9, Remark: "GOOD"},
		{Grade: "B+", Min: 67, Max: 73, Points: 10, Remark: "GOOD"},
		{Grade: "A-", Min: 74, Max: 80, Points: 11, Remark: "VERY GOOD"},
		{Grade: "A", Min: 81, Max: 84, Points: 12, Remark: "VERY GOOD"},
	}
)

func (s Scale) Lookup(v int) (Band, bool) {
	for _, band := range s {
		if v >= band.Min && v <= band.Max {
			return band, true
		}
	}
	return Band{}, false
}

// Fill sets the grade and points of a present mark that has none.
func (s Scale) Fill(score Score) Score {
	if score.IsAbsent() || score.Grade != "" {
		return score
	}
	if band, ok := s.Lookup(score.Mark); ok {
		score.Grade = band.Grade
		score.Points = band.Points
	}
	return score
}
