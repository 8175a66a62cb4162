package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/todolist/internal/collection"
)

// MaxVisibleRecords is the number of rows the list shows. There is no paging.
const MaxVisibleRecords = 20

// ListProps is everything the list view renders from
type ListProps struct {
	Data       []collection.Record // nil before the first successful fetch
	Loading    bool
	Err        error
	Cursor     int    // highlighted row, -1 for none
	SelectedID string // id of the selected record, if any
	Spinner    string // current spinner frame
	Width      int
}

// ListView renders the records and reports row selection
type ListView struct {
	OnSelectItem func(rec collection.Record)
}

// VisibleRecords returns the first MaxVisibleRecords entries of data
func VisibleRecords(data []collection.Record) []collection.Record {
	if len(data) > MaxVisibleRecords {
		return data[:MaxVisibleRecords]
	}
	return data
}

// Select invokes OnSelectItem with the i-th visible record.
// It returns false when i is out of range.
func (v ListView) Select(data []collection.Record, i int) bool {
	visible := VisibleRecords(data)
	if i < 0 || i >= len(visible) {
		return false
	}
	if v.OnSelectItem != nil {
		v.OnSelectItem(visible[i])
	}
	return true
}

// Render draws the list. Loading shows only the spinner, an error shows only
// its message, otherwise one "id: title" row per visible record.
func (v ListView) Render(p ListProps) string {
	width := p.Width
	if width <= 0 {
		width = MinTerminalWidth
	}

	if p.Loading {
		return lipgloss.Place(width, 3, lipgloss.Center, lipgloss.Center, SpinnerStyle.Render(p.Spinner))
	}

	if p.Err != nil {
		msg := "Error: " + collection.MessageOf(p.Err)
		return lipgloss.Place(width, 3, lipgloss.Center, lipgloss.Center, ErrorTextStyle.Render(msg))
	}

	visible := VisibleRecords(p.Data)
	rows := make([]string, 0, len(visible))
	for i, rec := range visible {
		rows = append(rows, renderRow(rec, i == p.Cursor, rec.ID == p.SelectedID && p.SelectedID != "", width))
	}
	return strings.Join(rows, "\n")
}

// renderRow shows rec.String() in full. Text wider than the row wraps onto
// continuation lines aligned under the title.
func renderRow(rec collection.Record, cursor bool, selected bool, width int) string {
	mark := "  "
	if selected {
		mark = SelectedMarkStyle.Render("● ")
	}

	textWidth := max(width-6, 10)
	if cursor {
		body := CursorListItemStyle.Width(textWidth).Render(rec.String())
		return lipgloss.JoinHorizontal(lipgloss.Top, CursorListItemStyle.Render("→ "), mark, body)
	}
	body := lipgloss.NewStyle().Width(textWidth).Render(rec.String())
	return ListItemStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, mark, body))
}
