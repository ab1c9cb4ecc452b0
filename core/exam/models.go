package exam

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumRounds is the number of exam rounds combined on a report card.
const NumRounds = 3

// Marks
const (
	AbsentMark = -1
	MaxMark    = 100

	// MissingMark is decoded from a score without a mark. Join rejects it.
	MissingMark = math.MinInt32
)

type Round int

const (
	Opener Round = iota
	Midterm
	Endterm
)

var (
	Rounds     = [NumRounds]Round{Opener, Midterm, Endterm}
	roundNames = [NumRounds]string{"Opener", "Midterm", "Endterm"}
)

func (r Round) String() string {
	if r < 0 || int(r) >= NumRounds {
		return "Round(" + strconv.Itoa(int(r)) + ")"
	}
	return roundNames[r]
}

// ParseRound accepts a round name in any case.
func ParseRound(s string) (Round, error) {
	for _, r := range Rounds {
		if strings.EqualFold(strings.TrimSpace(s), roundNames[r]) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown exam round %q", s)
}

// Subject only labels a column of scores; it plays no part in the computations.
type Subject struct {
	Code    int    `json:"code" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Teacher string `json:"teacher"`
	Remark  string `json:"remark"`
}

type Score struct {
	Mark   int    `json:"mark"` // AbsentMark when the student did not sit the paper
	Grade  string `json:"grade"`
	Points int    `json:"points"`
}

func (s Score) IsAbsent() bool { return s.Mark == AbsentMark }

// UnmarshalJSON sets MissingMark when the mark is left out or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	var aux struct {
		Mark   *int   `json:"mark"`
		Grade  string `json:"grade"`
		Points int    `json:"points"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*s = Score{Mark: MissingMark, Grade: aux.Grade, Points: aux.Points}
	if aux.Mark != nil {
		s.Mark = *aux.Mark
	}
	return nil
}

// String formats the score the way it is printed on a report card, eg. "52  B-".
func (s Score) String() string {
	if s.IsAbsent() {
		return ""
	}
	return fmt.Sprintf("%d  %s", s.Mark, s.Grade)
}

// Mean is a round's mean score. The zero value is absent.
type Mean struct {
	Value int
	Valid bool
}

func NewMean(v int) Mean { return Mean{Value: v, Valid: true} }

// ParseMean normalizes the loosely typed means found in score sheets.
// Only integers are means: empty strings, nil, text and floats (53.0 included) are absent.
func ParseMean(v interface{}) Mean {
	switch m := v.(type) {
	case int:
		return NewMean(m)
	case int64:
		return NewMean(int(m))
	case json.Number:
		if n, err := m.Int64(); err == nil {
			return NewMean(int(n))
		}
	}
	return Mean{}
}

func (m Mean) String() string {
	if !m.Valid {
		return ""
	}
	return strconv.Itoa(m.Value)
}

func (m Mean) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(m.Value)), nil
}

func (m *Mean) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*m = ParseMean(v)
	return nil
}

type Summary struct {
	Mean  Mean   `json:"mean"`
	Grade string `json:"grade"`
}

// Entry is one student's results for one exam round.
type Entry struct {
	StudentID string  `json:"student_id"`
	Scores    []Score `json:"scores"` // one per subject, in roster order
	Summary   Summary `json:"summary"`
}

type SubjectResult struct {
	Subject   Subject          `json:"subject"`
	Scores    [NumRounds]Score `json:"scores"`
	Deviation Deviation        `json:"deviation"`
	Color     Color            `json:"color"`
}

// StudentRecord bundles a student's three rounds together with the computed deviations.
type StudentRecord struct {
	StudentID     string             `json:"student_id"`
	Subjects      []SubjectResult    `json:"subjects"`
	Summaries     [NumRounds]Summary `json:"summaries"`
	MeanDeviation Deviation          `json:"mean_deviation"`
	MeanColor     Color              `json:"mean_color"`
}

type TrendPoint struct {
	Round Round  `json:"-"`
	Label string `json:"label"`
	Mean  Mean   `json:"mean"`
	Grade string `json:"grade"`
}

// Trend returns the mean score per round, used to draw the progress chart.
func (rec StudentRecord) Trend() [NumRounds]TrendPoint {
	var points [NumRounds]TrendPoint
	for _, r := range Rounds {
		points[r] = TrendPoint{
			Round: r,
			Label: r.String(),
			Mean:  rec.Summaries[r].Mean,
			Grade: rec.Summaries[r].Grade,
		}
	}
	return points
}

// Results maps student IDs to their records, in the order of the opener table.
type Results struct {
	records []StudentRecord
	index   map[string]int
}

func (res *Results) Len() int { return len(res.records) }

func (res *Results) Get(studentID string) (StudentRecord, bool) {
	i, ok := res.index[studentID]
	if !ok {
		return StudentRecord{}, false
	}
	return res.records[i], true
}

// All returns a copy of the records.
func (res *Results) All() []StudentRecord {
	all := make([]StudentRecord, len(res.records))
	copy(all, res.records)
	return all
}

func (res *Results) MarshalJSON() ([]byte, error) {
	if res.records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(res.records)
}
