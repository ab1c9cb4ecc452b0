package reportsvc

import (
	"bytes"
	"encoding/json"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/exam"
	testutil "github.com/neptune-academy/reportcards/tests"
)

func testResults(t *testing.T) *exam.Results {
	rounds := testutil.Rounds()
	res, err := exam.Join(testutil.Subjects, rounds[exam.Opener], rounds[exam.Midterm], rounds[exam.Endterm])
	require.NoError(t, err)
	return res
}

func TestTextRenderer_Render(t *testing.T) {
	r, err := NewTextRenderer(Options{
		School: core.SchoolConfig{Name: "NEPTUNE ACADEMY", Address: "P.O BOX 11722, NAIROBI", ClassComment: "Keep it up."},
		Term:   exam.Term{Year: 2024, Number: 2, Form: "FORM 1"},
		Names:  map[string]string{"127": "FATUMA ABDI"},
	})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, r.Render(buf, testResults(t)))
	out := buf.String()

	pages := strings.Split(out, strings.Repeat("=", pageWidth))
	require.Len(t, pages, 2)

	first, second := pages[0], pages[1]
	assert.Contains(t, first, "NEPTUNE ACADEMY")
	assert.Contains(t, first, "NAME: FATUMA ABDI   ADM NO: 127   FORM: FORM 1   TERM: 2   YEAR: 2024")
	assert.Contains(t, first, "MEAN GRADE: B   POSITION: 1   OUT OF: 2")
	assert.Contains(t, first, "101   English          52  B-    58  B     61  B+    +6    Mr. Otieno")
	assert.Contains(t, first, "121   Mathematics      40  C     44  C     50  B-    +8    Mrs. Wanjiku")
	assert.Contains(t, first, "MEAN                   46        51        55        +7")
	assert.Contains(t, first, "CLASS TEACHER'S REMARKS: Keep it up.")
	assert.Contains(t, first, "KEY: E 0-14  D- 15-19")
	assert.NotContains(t, first, "CLOSING DATE")

	// unknown names are left blank
	assert.Contains(t, second, "NAME:    ADM NO: 130")
	assert.Contains(t, second, "POSITION: 2   OUT OF: 2")
	assert.Contains(t, second, "121   Mathematics                30  D+    35  C-    +5")
	assert.Contains(t, second, "MEAN                             46        45        -1")
	assert.Contains(t, second, "Opener   "+strings.Repeat(".", barWidth)+" ")
}

func TestTextRenderer_Color(t *testing.T) {
	r, err := NewTextRenderer(Options{Color: true})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, r.Render(buf, testResults(t)))
	assert.Contains(t, buf.String(), "\x1b[32m+6   \x1b[0m")
	assert.Contains(t, buf.String(), "\x1b[31m-6   \x1b[0m")
}

func TestJSONRenderer_Render(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, (&JSONRenderer{}).Render(buf, testResults(t)))

	var recs []struct {
		StudentID string `json:"student_id"`
		Subjects  []struct {
			Deviation string `json:"deviation"`
			Color     string `json:"color"`
		} `json:"subjects"`
		MeanDeviation string `json:"mean_deviation"`
		MeanColor     string `json:"mean_color"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "127", recs[0].StudentID)
	assert.Equal(t, "+6", recs[0].Subjects[0].Deviation)
	assert.Equal(t, "positive", recs[0].Subjects[0].Color)
	assert.Equal(t, "-1", recs[1].MeanDeviation)
	assert.Equal(t, "negative", recs[1].MeanColor)
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	batch := NewBatchID()
	r := &JSONRenderer{Indent: true}

	path, err := WriteFile(dir, batch, r, testResults(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reportcards_"+batch+".json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"student_id": "127"`)
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat(".", barWidth), bar(exam.Mean{}))
	assert.Equal(t, strings.Repeat("#", barWidth), bar(exam.NewMean(100)))
	assert.Equal(t, strings.Repeat("#", 12)+strings.Repeat(".", 13), bar(exam.NewMean(50)))
}

func TestNewEmailMessage(t *testing.T) {
	to := []mail.Address{{Address: "head@neptune.ac.ke"}}
	term := exam.Term{Year: 2024, Number: 2, Form: "FORM 1"}
	msg := NewEmailMessage(to, term, "b1", testResults(t), map[string]string{"127": "FATUMA ABDI"}, 1)

	assert.Equal(t, to, msg.To)
	assert.Equal(t, "Report cards: FORM 1, term 2 2024", msg.Subject)
	assert.Equal(t, EmailTemplate, msg.TemplateName)

	data, ok := msg.TemplateData.(EmailData)
	require.True(t, ok)
	assert.Equal(t, 2, data.Count)
	assert.Equal(t, "b1", data.Batch)
	assert.Equal(t, []TopStudent{
		{Position: 1, Adm: "127", Name: "FATUMA ABDI", Mean: exam.NewMean(55), Grade: data.Top[0].Grade},
	}, data.Top)

	msg = NewEmailMessage(to, exam.Term{}, "b2", testResults(t), nil, 3)
	assert.Equal(t, "Report cards: the class", msg.Subject)
	assert.Len(t, msg.TemplateData.(EmailData).Top, 2)
}
