// Package output renders CLI results for terminals and for machines.
package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode selects how results are written.
type Mode string

// OutputMode is the name used by callers outside this package.
type OutputMode = Mode

// Output modes.
const (
	ModeAuto     Mode = "auto"     // text on a TTY, markdown otherwise
	ModeText     Mode = "text"     // go-pretty tables and lipgloss styles
	ModeMarkdown Mode = "markdown" // GitHub flavoured tables, no ANSI
	ModeJSON     Mode = "json"
	ModeCSV      Mode = "csv"
)

// isTerminal reports whether w is a terminal file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
