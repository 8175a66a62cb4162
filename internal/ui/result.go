package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType selects the look of a Result
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

type resultLook struct {
	label  string
	marker string
	color  lipgloss.Color
	title  lipgloss.Style
}

func (t ResultType) look() resultLook {
	switch t {
	case ResultFailure:
		return resultLook{"FAILED", FailureMarker, ErrorColor, ErrorTitleStyle}
	case ResultWarning:
		return resultLook{"WARNING", WarningMarker, WarningColor, WarningTitleStyle}
	default:
		return resultLook{"SUCCESS", SuccessMarker, SuccessColor, SuccessTitleStyle}
	}
}

// Result is the boxed summary printed after a command finishes.
// Err and Hints are only shown for failures.
type Result struct {
	Type    ResultType
	Title   string  // e.g., "Record added"
	Details []Param // shown in order
	Err     error
	Hints   []string
	Width   int
}

func newResult(t ResultType, title string, details []Param) *Result {
	return &Result{Type: t, Title: title, Details: details, Width: GetTerminalWidth()}
}

// NewSuccessResult returns a green result box
func NewSuccessResult(title string, details ...Param) *Result {
	return newResult(ResultSuccess, title, details)
}

// NewWarningResult returns an amber result box
func NewWarningResult(title string, details ...Param) *Result {
	return newResult(ResultWarning, title, details)
}

// NewFailureResult returns a red result box carrying err and hints
func NewFailureResult(title string, err error, hints []string) *Result {
	r := newResult(ResultFailure, title, nil)
	r.Err = err
	r.Hints = hints
	return r
}

func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends one key-value line
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Param{Key: key, Value: value})
	return r
}

func (r *Result) Render() string {
	width := max(r.Width, MinTerminalWidth)
	look := r.Type.look()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(look.title.Render("   " + look.marker + "  " + look.label + "  ─  " + r.Title))
	b.WriteString("\n\n")

	for _, d := range r.Details {
		b.WriteString(ResultKeyStyle.Render("   "+d.Key+":") + " " + ResultValueStyle.Render(d.Value) + "\n")
	}
	if len(r.Details) > 0 {
		b.WriteString("\n")
	}

	if r.Type == ResultFailure {
		if r.Err != nil {
			b.WriteString(ErrorMessageStyle.Render("   Error: "+r.Err.Error()) + "\n\n")
		}
		if len(r.Hints) > 0 {
			b.WriteString(r.renderHints(width) + "\n\n")
		}
	}

	return ResultBoxStyle(width, look.color).Render(strings.TrimSuffix(b.String(), "\n"))
}

func (r *Result) renderHints(width int) string {
	lines := make([]string, 0, len(r.Hints)+2)
	lines = append(lines, HintTitleStyle.Render("Troubleshooting:"), "")
	for _, hint := range r.Hints {
		lines = append(lines, HintItemStyle.Render("  • "+hint))
	}
	return HintBoxStyle(width).Render(strings.Join(lines, "\n"))
}

func (r *Result) String() string {
	return r.Render()
}
