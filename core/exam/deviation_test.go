package exam

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marks(m1, m2, m3 int) [NumRounds]Score {
	return [NumRounds]Score{{Mark: m1}, {Mark: m2}, {Mark: m3}}
}

func TestSubjectDeviation(t *testing.T) {
	tests := []struct {
		name   string
		scores [NumRounds]Score
		want   string
	}{
		{name: "all rounds", scores: marks(70, 80, 90), want: "+15"},
		{name: "odd sum: larger gap", scores: marks(51, 60, 60), want: "+5"},
		{name: "all rounds, drop", scores: marks(52, 59, 53), want: "-2"},
		{name: "all rounds, odd sum truncated", scores: marks(55, 56, 56), want: "+1"},
		{name: "all rounds, no change", scores: marks(60, 60, 60), want: "0"},
		{name: "opener absent", scores: marks(-1, 80, 90), want: "+10"},
		{name: "midterm absent", scores: marks(70, -1, 90), want: "+20"},
		{name: "endterm absent", scores: marks(70, 80, -1), want: "+10"},
		{name: "endterm absent, drop", scores: marks(80, 70, -1), want: "-10"},
		{name: "endterm only", scores: marks(-1, -1, 90), want: "-"},
		{name: "opener only", scores: marks(90, -1, -1), want: "-"},
		{name: "nothing", scores: marks(-1, -1, -1), want: "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubjectDeviation(tt.scores).String(); got != tt.want {
				t.Errorf("SubjectDeviation() = %q, want %q", got, tt.want)
			}
		})
	}
}

// A real mark of 0 collapses to "absent" by default, like the paper score sheets did.
func TestSubjectDeviation_zeroMarks(t *testing.T) {
	tests := []struct {
		name       string
		zeroAbsent bool
		scores     [NumRounds]Score
		want       string
	}{
		{name: "zero endterm is absent", zeroAbsent: true, scores: marks(70, 80, 0), want: "+10"},
		{name: "zero opener is absent", zeroAbsent: true, scores: marks(0, 40, 50), want: "+10"},
		{name: "zero with one other round", zeroAbsent: true, scores: marks(0, -1, 50), want: "-"},
		{name: "zero endterm counts", zeroAbsent: false, scores: marks(70, 80, 0), want: "-75"},
		{name: "zero opener counts", zeroAbsent: false, scores: marks(0, 40, 50), want: "+30"},
		{name: "zero with one other round counts", zeroAbsent: false, scores: marks(0, -1, 50), want: "+50"},
		{name: "absent still absent", zeroAbsent: false, scores: marks(-1, -1, 50), want: "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrader(TreatZeroAsAbsent(tt.zeroAbsent))
			if got := g.SubjectDeviation(tt.scores).String(); got != tt.want {
				t.Errorf("SubjectDeviation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummaryDeviation(t *testing.T) {
	tests := []struct {
		name  string
		means [NumRounds]Mean
		want  string
	}{
		{name: "all rounds", means: [NumRounds]Mean{NewMean(52), NewMean(59), NewMean(53)}, want: "-2"},
		{name: "only endterm", means: [NumRounds]Mean{{}, {}, NewMean(53)}, want: "-"},
		{name: "opener & endterm", means: [NumRounds]Mean{NewMean(40), {}, NewMean(53)}, want: "+13"},
		{name: "zero mean is absent", means: [NumRounds]Mean{NewMean(0), NewMean(50), NewMean(53)}, want: "+3"},
		{name: "parsed empty means", means: [NumRounds]Mean{ParseMean(""), ParseMean(nil), ParseMean(53.0)}, want: "-"},
		{name: "fractional mean is absent", means: [NumRounds]Mean{ParseMean(52.5), ParseMean(50), ParseMean(53)}, want: "+3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SummaryDeviation(tt.means).String(); got != tt.want {
				t.Errorf("SummaryDeviation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeviationColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{in: "+3", want: Positive},
		{in: "-2", want: Negative},
		{in: "-", want: Neutral},
		{in: "0", want: Neutral},
		{in: "", want: Neutral},
		{in: "lol", want: Neutral},
		{in: " 12 ", want: Positive},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := DeviationColor(tt.in); got != tt.want {
				t.Errorf("DeviationColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	assert.Equal(t, Positive, NewDeviation(3).Color())
	assert.Equal(t, Negative, NewDeviation(-2).Color())
	assert.Equal(t, Neutral, NoComparison.Color())
}

func TestDeviation_noComparisonIsNotZero(t *testing.T) {
	zero := NewDeviation(0)
	assert.Equal(t, "0", zero.String())
	assert.Equal(t, NoComparisonMark, NoComparison.String())
	assert.NotEqual(t, zero, NoComparison)

	_, ok := NoComparison.Value()
	assert.False(t, ok)
	v, ok := zero.Value()
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestDeviation_JSON(t *testing.T) {
	data, err := json.Marshal([]Deviation{NewDeviation(15), NewDeviation(-2), NewDeviation(0), NoComparison})
	assert.NoError(t, err)
	assert.JSONEq(t, `["+15","-2","0","-"]`, string(data))

	var devs []Deviation
	assert.NoError(t, json.Unmarshal(data, &devs))
	assert.Equal(t, []Deviation{NewDeviation(15), NewDeviation(-2), NewDeviation(0), NoComparison}, devs)
}

func TestParseMean(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		json string
		want Mean
	}{
		{name: "integer", in: 53, json: `53`, want: NewMean(53)},
		{name: "zero", in: 0, json: `0`, want: NewMean(0)},
		{name: "integral float", in: 53.0, json: `53.0`, want: Mean{}},
		{name: "fraction", in: 52.5, json: `52.5`, want: Mean{}},
		{name: "empty", in: "", json: `""`, want: Mean{}},
		{name: "text", in: "53", json: `"53"`, want: Mean{}},
		{name: "null", in: nil, json: `null`, want: Mean{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMean(tt.in))

			var m Mean
			require.NoError(t, json.Unmarshal([]byte(tt.json), &m))
			assert.Equal(t, tt.want, m)
		})
	}
}
