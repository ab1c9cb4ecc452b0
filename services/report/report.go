// Package reportsvc renders graded exam results as report cards.
package reportsvc

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"github.com/labstack/gommon/color"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/exam"
)

const (
	pageWidth = 80
	barWidth  = 25
	devWidth  = 5
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

type (
	// Renderer writes the report cards of a whole class.
	Renderer interface {
		Render(w io.Writer, res *exam.Results) error
		Ext() string
	}

	Options struct {
		School core.SchoolConfig
		Term   exam.Term // optional
		Names  map[string]string
		Key    exam.Scale
		Color  bool // color deviations; only meant for terminals
	}

	TextRenderer struct {
		opts Options
		tmpl *template.Template
	}

	JSONRenderer struct {
		Indent bool
	}

	page struct {
		School   core.SchoolConfig
		Term     exam.Term
		Name     string
		Record   exam.StudentRecord
		Grade    string
		Position int
		OutOf    int
		Trend    [exam.NumRounds]exam.TrendPoint
		Key      exam.Scale
	}
)

var (
	_ Renderer = (*TextRenderer)(nil)
	_ Renderer = (*JSONRenderer)(nil)
)

func NewTextRenderer(opts Options) (*TextRenderer, error) {
	if opts.Key == nil {
		opts.Key = exam.DefaultMarksScale
	}

	clr := color.New()
	if opts.Color {
		clr.Enable()
	} else {
		clr.Disable()
	}

	tmpl, err := template.New("reportcards").Funcs(template.FuncMap{
		"center": center,
		"bar":    bar,
		"dev": func(d exam.Deviation) string {
			cell := fmt.Sprintf("%-*s", devWidth, d)
			switch d.Color() {
			case exam.Positive:
				return clr.Green(cell)
			case exam.Negative:
				return clr.Red(cell)
			default:
				return cell
			}
		},
	}).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "parsing report card templates")
	}
	return &TextRenderer{opts: opts, tmpl: tmpl}, nil
}

func (r *TextRenderer) Ext() string { return "txt" }

// Render writes one page per student, in results order, separated by a ruler.
func (r *TextRenderer) Render(w io.Writer, res *exam.Results) error {
	ranking := exam.Rank(res)
	for i, rec := range res.All() {
		if i > 0 {
			if _, err := fmt.Fprintf(w, "\n%s\n\n", strings.Repeat("=", pageWidth)); err != nil {
				return err
			}
		}
		p := page{
			School:   r.opts.School,
			Term:     r.opts.Term,
			Name:     r.opts.Names[rec.StudentID],
			Record:   rec,
			Grade:    rec.Summaries[exam.Endterm].Grade,
			Position: ranking.Position(rec.StudentID),
			OutOf:    ranking.OutOf(),
			Trend:    rec.Trend(),
			Key:      r.opts.Key,
		}
		if err := r.tmpl.ExecuteTemplate(w, "page", p); err != nil {
			return errors.Wrapf(err, "rendering report card of %s", rec.StudentID)
		}
	}
	return nil
}

func (r *JSONRenderer) Ext() string { return "json" }

func (r *JSONRenderer) Render(w io.Writer, res *exam.Results) error {
	enc := json.NewEncoder(w)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	return errors.Wrap(enc.Encode(res), "encoding results")
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func NewBatchID() string {
	return uuid.New().String()
}

// FileName names the output of a batch, eg. "reportcards_<batch>.txt".
func FileName(batch string, r Renderer) string {
	return fmt.Sprintf("reportcards_%s.%s", batch, r.Ext())
}

// WriteFile renders the results into dir and returns the file path.
func WriteFile(dir, batch string, r Renderer, res *exam.Results) (path string, err error) {
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating output dir")
	}
	path = filepath.Join(dir, FileName(batch, r))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating report file")
	}
	defer func() {
		if cErr := f.Close(); err == nil && cErr != nil {
			err = errors.Wrap(cErr, "closing report file")
		}
	}()

	if err = r.Render(f, res); err != nil {
		return "", err
	}
	return path, nil
}

func center(s string) string {
	n := len([]rune(s))
	if n >= pageWidth {
		return s
	}
	return strings.Repeat(" ", (pageWidth-n)/2) + s
}

// bar draws a mean as a horizontal bar; absent means draw an empty one.
func bar(m exam.Mean) string {
	n := 0
	if m.Valid && m.Value > 0 {
		n = m.Value * barWidth / exam.MaxMark
		if n > barWidth {
			n = barWidth
		}
	}
	return strings.Repeat("#", n) + strings.Repeat(".", barWidth-n)
}
