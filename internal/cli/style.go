package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles renders command output. Colors are dropped automatically when
// the writer is not a terminal.
type styles struct {
	name    lipgloss.Style
	active  lipgloss.Style
	dim     lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		name:    r.NewStyle().Bold(true),
		active:  r.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
		dim:     r.NewStyle().Foreground(lipgloss.Color("243")),
		success: r.NewStyle().Foreground(lipgloss.Color("34")),
		failure: r.NewStyle().Foreground(lipgloss.Color("160")),
	}
}
