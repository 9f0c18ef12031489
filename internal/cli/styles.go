package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	Header  lipgloss.Style
	Section lipgloss.Style
	Good    lipgloss.Style
	Bad     lipgloss.Style
	Muted   lipgloss.Style
}

// newStyles binds the palette to w so that plain writers get plain text.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Section: r.NewStyle().Bold(true),
		Good:    r.NewStyle().Foreground(lipgloss.Color("42")),
		Bad:     r.NewStyle().Foreground(lipgloss.Color("196")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("244")),
	}
}
