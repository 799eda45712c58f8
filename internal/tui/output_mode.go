package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects how results are presented.
type OutputMode int

const (
	// OutputModePlain prints uncolored text.
	OutputModePlain OutputMode = iota
	// OutputModeStyled prints colored, non-interactive output.
	OutputModeStyled
	// OutputModeInteractive runs the full-screen TUI.
	OutputModeInteractive
)

// defaultTerminalWidth is used when the width cannot be detected.
const defaultTerminalWidth = 80

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModeInteractive:
		return "interactive"
	case OutputModeStyled:
		return "styled"
	default:
		return "plain"
	}
}

// DetectOutputMode picks the output mode for stdout. plain forces plain
// output; noColor (or NO_COLOR, or TERM=dumb) disables styling; forceColor
// selects styled output even when stdout is not a terminal.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	return detectOutputMode(forceColor, noColor, plain, term.IsTerminal(int(os.Stdout.Fd())), os.LookupEnv)
}

func detectOutputMode(
	forceColor, noColor, plain, isTTY bool,
	lookupEnv func(string) (string, bool),
) OutputMode {
	if plain {
		return OutputModePlain
	}
	if _, ok := lookupEnv("NO_COLOR"); ok {
		noColor = true
	}
	if v, _ := lookupEnv("TERM"); v == "dumb" {
		noColor = true
	}
	if noColor {
		return OutputModePlain
	}
	if forceColor {
		return OutputModeStyled
	}
	if !isTTY {
		return OutputModePlain
	}
	if v, _ := lookupEnv("CI"); v != "" {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// TerminalWidth returns the width of stdout, or a default.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTerminalWidth
	}
	return w
}
