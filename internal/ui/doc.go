// Package ui provides styled, non-interactive output for the todolist CLI
// subcommands.
//
// Unlike the full-screen TUI, these components render once and return:
//
//   - Header: command banner showing the command and its endpoint
//   - RenderRecords: the record table printed by 'todolist ls'
//   - Result: success/failure/warning boxes, failures with troubleshooting tips
//   - Confirm: a y/N prompt used before destructive commands
//
// Output width follows the terminal (golang.org/x/term) between
// MinTerminalWidth and MaxContentWidth. lipgloss drops colors when stdout is
// not a terminal, so the output stays readable when piped.
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Todo List", "todolist ls", ui.Param{Key: "Endpoint", Value: url})
//	p.PrintRecords(records, len(records))
//
// # Logging Integration
//
// zap logging is silent unless TODOLIST_LOG_LEVEL or --log-level is set, so
// this curated output is all the user sees by default.
package ui
