package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
}

// NewStyles creates styles bound to w. Off a terminal every style is a no-op.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	lg := lipgloss.NewRenderer(w)
	if !isTTY {
		return &Styles{
			Label:   lg.NewStyle(),
			Muted:   lg.NewStyle(),
			Warning: lg.NewStyle(),
		}
	}
	return &Styles{
		Label:   lg.NewStyle().Bold(true),
		Muted:   lg.NewStyle().Foreground(lipgloss.Color("8")),
		Warning: lg.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	}
}
