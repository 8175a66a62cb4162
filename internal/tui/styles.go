package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/todolist/internal/urls"
	"github.com/muurk/todolist/internal/version"
)

// AppName is shown in the header of every screen
const AppName = "TODOLIST"

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 120 // Maximum content width before capping
	ModalWidth       = 50  // Preferred alert modal width
)

// Color palette
var (
	// Primary colors
	PrimaryColor   = lipgloss.Color("#1FA3A3") // Teal
	SecondaryColor = lipgloss.Color("#5FBF5F") // Green
	WarningColor   = lipgloss.Color("#E5A03A") // Amber
	ErrorColor     = lipgloss.Color("#E8575A") // Red

	// Neutral colors
	TextColor      = lipgloss.Color("#EDEDED")
	SubtleColor    = lipgloss.Color("#707070") // Gray
	BorderColor    = PrimaryColor
	HighlightColor = SecondaryColor
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Buttons in the action row
	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 2)

	FocusedButtonStyle = ButtonStyle.
				Foreground(HighlightColor).
				BorderForeground(HighlightColor).
				Bold(true)

	DisabledButtonStyle = ButtonStyle.
				Foreground(SubtleColor)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	CursorListItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	// Marks the selected record (the one Update and Delete act on)
	SelectedMarkStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	BlurredInputStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	// Alert modal
	AlertBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(WarningColor).
			Padding(1, 2)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	LiveStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderSubtitle renders a subtitle with consistent styling
func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

// RenderButton renders one action button
func RenderButton(label string, focused bool, disabled bool) string {
	switch {
	case disabled:
		return DisabledButtonStyle.Render(label)
	case focused:
		return FocusedButtonStyle.Render(label)
	default:
		return ButtonStyle.Render(label)
	}
}

// BuildHeaderContent creates header content with app name, version and endpoint
func BuildHeaderContent(endpoint string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := endpoint
	if right == "" {
		right = urls.Project
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", StatusStyle.Render(right))
}

// RenderApplicationContainer wraps a screen in the shared frame: header,
// content, and a footer pinned to the bottom of the terminal.
//
//	func (m Model) View() string {
//	    content := m.buildContent()
//	    return RenderApplicationContainer(content, m.Help.View(m.Keys), m.Endpoint, m.Width, m.Height)
//	}
//
// A zero width or height (no WindowSizeMsg yet) renders without the frame.
func RenderApplicationContainer(content string, footerText string, endpoint string, terminalWidth int, terminalHeight int) string {
	header := BuildHeaderContent(endpoint)

	if terminalWidth <= 0 || terminalHeight <= 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, content, footerText)
	}

	inner := terminalWidth - 4 // Leave room for outer border

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(inner).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(inner).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().Width(inner)

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		contentStyle.Render(content),
		footerStyle.Render(footerText),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(body)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

// SafeModalWidth returns the smaller of requestedWidth and the usable terminal width
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 30 {
		maxWidth = 30
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}

// RenderModal centres modalContent over a dimmed screen.
// Without terminal dimensions the content is returned as-is.
func RenderModal(modalContent string, terminalWidth int, terminalHeight int) string {
	if terminalWidth <= 0 || terminalHeight <= 0 {
		return modalContent
	}
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}
