package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	colorAccent   = lipgloss.Color("#92C7CF")
	colorSelectFg = lipgloss.Color("229")
	colorSelectBg = lipgloss.Color("57")
	colorMuted    = lipgloss.Color("245")
	colorError    = lipgloss.Color("196")
)

//nolint:gochecknoglobals // Lip Gloss styles are immutable values shared by all views.
var (
	// HeaderStyle renders the screen title.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center)

	// IDStyle renders the post id column.
	IDStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	// RowSelectedStyle highlights the row under the cursor.
	RowSelectedStyle = lipgloss.NewStyle().Foreground(colorSelectFg).Background(colorSelectBg)

	// InfoStyle renders status lines.
	InfoStyle = lipgloss.NewStyle().Foreground(colorMuted)

	// ErrorStyle renders failure notices.
	ErrorStyle = lipgloss.NewStyle().Foreground(colorError)

	// TableHeaderStyle renders plain-output table headers.
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	// TableCellStyle renders plain-output table cells.
	TableCellStyle = lipgloss.NewStyle().Padding(0, 1)
)
