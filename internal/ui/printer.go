package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muurk/todolist/internal/collection"
)

// Printer provides methods for printing UI components to a writer.
// This is the primary way CLI commands produce styled output.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = clampWidth(width)
	return p
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintRecords prints a record table
func (p *Printer) PrintRecords(records []collection.Record, total int) {
	p.Println(RenderRecords(records, total, p.width))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Param) {
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintError prints an error result box with hints for err. The box leads
// with the error's kind and its short message.
func (p *Printer) PrintError(title string, err error) {
	r := NewFailureResult(title, err, Hints(err))
	if err != nil {
		r.AddDetail("Kind", ErrorKind(err))
		r.AddDetail("Problem", collection.GetShortErrorMessage(err))
	}
	p.Println(r.SetWidth(p.width).Render())
}

// ErrorKind names the broad category of a collection error
func ErrorKind(err error) string {
	switch {
	case collection.IsCanceled(err):
		return "canceled"
	case collection.IsNetworkError(err):
		return "endpoint unreachable"
	case collection.IsHTTPError(err):
		return "endpoint rejected the request"
	case collection.IsParseError(err):
		return "unexpected response"
	case collection.IsValidationError(err):
		return "invalid request"
	default:
		return "unexpected error"
	}
}

// PrintAlert prints a one-line alert, the CLI rendering of a controller alert
func (p *Printer) PrintAlert(message string) {
	p.Println(WarningTitleStyle.Render(WarningMarker + " " + message))
}

// Hints returns the bullet points of the collection hint for err
func Hints(err error) []string {
	if err == nil {
		return nil
	}
	var tips []string
	for _, line := range strings.Split(collection.GetTroubleshootingHint(err), "\n") {
		if tip, ok := strings.CutPrefix(strings.TrimSpace(line), "• "); ok {
			tips = append(tips, tip)
		}
	}
	return tips
}
