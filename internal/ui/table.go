package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/todolist/internal/collection"
)

// RenderRecords renders one row per record with the ids right-aligned in a
// column, followed by a count line. Long titles wrap under themselves. total is the size of the whole
// collection when records is a slice of it.
func RenderRecords(records []collection.Record, total int, width int) string {
	if len(records) == 0 {
		return MutedStyle.Render("  No records.")
	}

	idWidth := 0
	for _, rec := range records {
		if len(rec.ID) > idWidth {
			idWidth = len(rec.ID)
		}
	}

	titleStyle := RecordTitleStyle.Width(max(width-idWidth-6, 10))

	var b strings.Builder
	for _, rec := range records {
		id := RecordIDStyle.Render(fmt.Sprintf("%*s", idWidth, rec.ID))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  ", id, "  ", titleStyle.Render(rec.Title)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if total > len(records) {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  showing %d of %d records", len(records), total)))
	} else {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  %d %s", len(records), plural(len(records), "record", "records"))))
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
