// Package report writes validation results for humans or for other programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olegiv/scielo-log-validator-go/internal/content"
	"github.com/olegiv/scielo-log-validator-go/internal/validator"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Banner introduces the text report.
const Banner = `SciELO Log Validator

Validates usage log files collected from the SciELO Network web servers.
Each file is checked in two ways:
    1) its name and path
    2) its content`

// Totals counts the outcomes of a run.
type Totals struct {
	Files   int `json:"files"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Failed  int `json:"failed"`
}

// Add counts one result.
func (t *Totals) Add(r *validator.FileResult) {
	t.Files++
	switch {
	case r.Error != nil:
		t.Failed++
	case r.Verdict.All:
		t.Valid++
	default:
		t.Invalid++
	}
}

// Renderer writes results to an output stream.
type Renderer interface {
	// Start is called once before the first result.
	Start() error
	// Render writes one file's result.
	Render(r *validator.FileResult) error
	// Finish is called once after the last result.
	Finish(t Totals) error
}

// New returns the renderer for format writing to w.
func New(format string, w io.Writer) (Renderer, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return NewTextRenderer(w), nil
	case FormatJSON:
		return NewJSONRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", format, FormatText, FormatJSON)
	}
}

// ---------------------------------------------------------------------------
// Text Renderer
// ---------------------------------------------------------------------------

// TextRenderer prints an indented, colorized report.
type TextRenderer struct {
	w io.Writer

	title   lipgloss.Style
	label   lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	unknown lipgloss.Style
}

// NewTextRenderer returns a TextRenderer. Colors are used only when w is a terminal.
func NewTextRenderer(w io.Writer) *TextRenderer {
	lr := lipgloss.NewRenderer(w)
	return &TextRenderer{
		w:       w,
		title:   lr.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),  // cyan
		label:   lr.NewStyle().Foreground(lipgloss.Color("245")),            // gray
		pass:    lr.NewStyle().Foreground(lipgloss.Color("42")),             // green
		fail:    lr.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // red bold
		unknown: lr.NewStyle().Foreground(lipgloss.Color("220")),            // yellow
	}
}

// Start prints the banner.
func (r *TextRenderer) Start() error {
	_, err := fmt.Fprintf(r.w, "%s\n\n", r.title.Render(Banner))
	return err
}

// Render prints one result block.
func (r *TextRenderer) Render(res *validator.FileResult) error {
	var b strings.Builder

	b.WriteString(r.title.Render(res.Path))
	b.WriteByte('\n')

	if ps := res.PathSummary; ps != nil {
		r.field(&b, "path", fmt.Sprintf("date=%s collection=%s paperboy=%t mimetype=%s extension=%s",
			orNone(ps.Date), orNone(ps.Collection), ps.Paperboy, orEmpty(ps.MimeType), orEmpty(ps.Extension)))
	}

	if c := res.Content; c != nil {
		r.field(&b, "content", fmt.Sprintf("lines=%d sampled=%d invalid=%d local=%d remote=%d",
			c.TotalLines, c.SampledLines, c.InvalidLines, c.IPs.Local, c.IPs.Remote))
		if days := formatDays(c.Hours); days != "" {
			r.field(&b, "days", days)
		}
	}

	r.field(&b, "probable", res.ProbableDate.String())

	if res.Error != nil {
		r.field(&b, "error", r.fail.Render(res.Error.Error()))
	}

	r.field(&b, "valid", fmt.Sprintf("ips=%s dates=%s all=%s",
		r.tristate(res.Verdict.IPs), r.tristate(res.Verdict.Dates), r.tristate(validator.FromBool(res.Verdict.All))))

	b.WriteByte('\n')
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Finish prints the run totals.
func (r *TextRenderer) Finish(t Totals) error {
	_, err := fmt.Fprintf(r.w, "%s files=%d valid=%s invalid=%s failed=%d\n",
		r.label.Render("total"), t.Files,
		r.pass.Render(fmt.Sprint(t.Valid)), r.fail.Render(fmt.Sprint(t.Invalid)), t.Failed)
	return err
}

func (r *TextRenderer) field(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "  %s %s\n", r.label.Render(fmt.Sprintf("%-9s", name)), value)
}

func (r *TextRenderer) tristate(t validator.Tristate) string {
	switch t {
	case validator.True:
		return r.pass.Render(t.String())
	case validator.False:
		return r.fail.Render(t.String())
	default:
		return r.unknown.Render(t.String())
	}
}

// formatDays lists the daily record counts in date order.
func formatDays(hours map[content.HourKey]int) string {
	days := content.DayFrequencies(hours)
	keys := make([]content.DayKey, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, days[k]))
	}
	return strings.Join(parts, " ")
}

func orNone(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func orEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ---------------------------------------------------------------------------
// JSON Renderer
// ---------------------------------------------------------------------------

// JSONRenderer prints each result as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

// Start is a no-op; JSON output carries no banner.
func (r *JSONRenderer) Start() error { return nil }

// Render writes one JSON line.
func (r *JSONRenderer) Render(res *validator.FileResult) error {
	return r.enc.Encode(res)
}

// Finish writes the totals as a final JSON line.
func (r *JSONRenderer) Finish(t Totals) error {
	return r.enc.Encode(struct {
		Totals Totals `json:"totals"`
	}{t})
}
