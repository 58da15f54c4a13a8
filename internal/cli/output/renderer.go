package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Renderer writes command output in the configured mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{out: out, errOut: errOut, mode: mode, isTTY: isTTY}
	r.styles = newStyles(newLipglossRenderer(out, r.styled()))
	return r
}

// Mode returns the configured mode, which may be ModeAuto.
func (r *Renderer) Mode() Mode { return r.mode }

// EffectiveMode resolves ModeAuto against the TTY state.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the error output writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the text-mode styles.
func (r *Renderer) Styles() *Styles { return r.styles }

func (r *Renderer) styled() bool {
	return r.EffectiveMode() == ModeText
}

// paint applies style only in text mode.
func (r *Renderer) paint(style lipgloss.Style, text string) string {
	if !r.styled() {
		return text
	}
	return style.Render(text)
}

// Println writes to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a level 1 or 2 heading. Machine modes print nothing.
func (r *Renderer) Header(level int, text string) {
	switch r.EffectiveMode() {
	case ModeText:
		style := r.styles.Header1
		if level > 1 {
			style = r.styles.Header2
		}
		r.Println(style.Render(text))
	case ModeMarkdown:
		r.Println(FormatHeader(level, text))
		r.Println()
	}
}

// Message writes a plain status line such as an engine result.
func (r *Renderer) Message(msg string) {
	switch r.EffectiveMode() {
	case ModeJSON:
		_ = r.writeJSON(map[string]string{"message": msg})
	default:
		r.Println(msg)
	}
}

// Success writes a success line.
func (r *Renderer) Success(msg string) {
	r.Println(r.paint(r.styles.Success, msg))
}

// Muted writes a de-emphasised line.
func (r *Renderer) Muted(msg string) {
	r.Println(r.paint(r.styles.Muted, msg))
}

// Warning writes a warning to error output.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.paint(r.styles.Warning, "Warning: "+msg))
}

// Error writes an error to error output.
func (r *Renderer) Error(err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintln(r.errOut, r.paint(r.styles.Error, "Error: "+err.Error()))
}

// StatusLine writes "name" with a status marker, e.g. for created files.
func (r *Renderer) StatusLine(name, status, detail string) {
	var marker string
	switch status {
	case "success":
		marker = r.paint(r.styles.Success, "+")
	case "skipped":
		marker = r.paint(r.styles.Muted, "-")
	default:
		marker = r.paint(r.styles.Error, "x")
	}
	line := marker + " " + name
	if detail != "" {
		line += " " + r.paint(r.styles.Muted, "("+detail+")")
	}
	r.Println(line)
}

// FormatHeader formats a markdown heading.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue formats a bold markdown key/value line.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("**%s:** %s", key, value)
}
