package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6")),
		Header2: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("#64748B")),
		Success: r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
	}
}

// newLipglossRenderer binds styles to w. Unstyled output gets the Ascii
// profile so no escape codes are produced.
func newLipglossRenderer(w io.Writer, styled bool) *lipgloss.Renderer {
	lr := lipgloss.NewRenderer(w)
	if !styled {
		lr.SetColorProfile(termenv.Ascii)
	}
	return lr
}
