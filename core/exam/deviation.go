package exam

import (
	"encoding/json"
	"strconv"
	"strings"
)

// NoComparisonMark is printed instead of a deviation when fewer than two rounds can be compared.
const NoComparisonMark = "-"

// Deviation is the signed change between the latest round and the best available baseline.
// The zero value means "no comparison".
type Deviation struct {
	value int
	valid bool
}

var NoComparison = Deviation{}

func NewDeviation(v int) Deviation { return Deviation{value: v, valid: true} }

func (d Deviation) Value() (int, bool) { return d.value, d.valid }

// String formats positive deviations with an explicit "+".
func (d Deviation) String() string {
	if !d.valid {
		return NoComparisonMark
	}
	if d.value > 0 {
		return "+" + strconv.Itoa(d.value)
	}
	return strconv.Itoa(d.value)
}

func (d Deviation) Color() Color {
	switch {
	case !d.valid || d.value == 0:
		return Neutral
	case d.value > 0:
		return Positive
	default:
		return Negative
	}
}

func (d Deviation) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Deviation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if n, err := strconv.Atoi(s); err == nil {
		*d = NewDeviation(n)
	} else {
		*d = NoComparison
	}
	return nil
}

type Color int

const (
	Neutral Color = iota
	Positive
	Negative
)

var colorNames = map[Color]string{
	Neutral:  "neutral",
	Positive: "positive",
	Negative: "negative",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "Color(" + strconv.Itoa(int(c)) + ")"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	for k, name := range colorNames {
		if name == string(text) {
			*c = k
			return nil
		}
	}
	*c = Neutral
	return nil
}

// DeviationColor classifies a printed deviation. Anything that is not an integer,
// the "-" mark included, is Neutral.
func DeviationColor(v string) Color {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return Neutral
	}
	return NewDeviation(n).Color()
}

type Option func(*Grader)

// TreatZeroAsAbsent controls whether a mark (or mean) of exactly 0 counts as "not examined".
// Defaults to true, which is how the paper score sheets were computed.
func TreatZeroAsAbsent(b bool) Option {
	return func(g *Grader) { g.zeroAbsent = b }
}

// Grader computes deviations and joins exam rounds. It holds no state besides its policy,
// so a single Grader may be shared between goroutines.
type Grader struct {
	zeroAbsent bool
}

func NewGrader(opts ...Option) Grader {
	g := Grader{zeroAbsent: true}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

func (g Grader) TreatsZeroAsAbsent() bool { return g.zeroAbsent }

func (g Grader) present(v int) bool {
	if g.zeroAbsent && v == 0 {
		return false
	}
	return v != AbsentMark
}

// SubjectDeviation compares the marks of one subject across the three rounds.
func (g Grader) SubjectDeviation(scores [NumRounds]Score) Deviation {
	var marks [NumRounds]int
	var ok [NumRounds]bool
	for i, s := range scores {
		marks[i] = s.Mark
		ok[i] = g.present(s.Mark)
	}
	return deviation(marks, ok)
}

// SummaryDeviation compares the round means.
func (g Grader) SummaryDeviation(means [NumRounds]Mean) Deviation {
	var vals [NumRounds]int
	var ok [NumRounds]bool
	for i, m := range means {
		vals[i] = m.Value
		ok[i] = m.Valid && g.present(m.Value)
	}
	return deviation(vals, ok)
}

// deviation applies the comparison rules in priority order:
//  1. all rounds: latest minus the truncated average of the two earlier ones
//  2. midterm & endterm: endterm - midterm
//  3. opener & endterm: endterm - opener
//  4. opener & midterm: midterm - opener
//  5. otherwise there is nothing to compare
func deviation(v [NumRounds]int, ok [NumRounds]bool) Deviation {
	o, m, e := Opener, Midterm, Endterm
	switch {
	case ok[o] && ok[m] && ok[e]:
		return NewDeviation(v[e] - (v[o]+v[m])/2)
	case ok[m] && ok[e]:
		return NewDeviation(v[e] - v[m])
	case ok[o] && ok[e]:
		return NewDeviation(v[e] - v[o])
	case ok[o] && ok[m]:
		return NewDeviation(v[m] - v[o])
	}
	return NoComparison
}

var defaultGrader = NewGrader()

// SubjectDeviation uses the default policy (zero marks are absent).
func SubjectDeviation(scores [NumRounds]Score) Deviation {
	return defaultGrader.SubjectDeviation(scores)
}

// SummaryDeviation uses the default policy (zero means are absent).
func SummaryDeviation(means [NumRounds]Mean) Deviation {
	return defaultGrader.SummaryDeviation(means)
}
