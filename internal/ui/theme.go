// Package ui holds the lipgloss styles and small renderers shared by the
// CLI output and the TUI.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
)

// Theme bundles palette + symbols + border.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help                          lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	SymOK, SymFail           string
}

type palette struct {
	title, muted, accent, success, failure, pending, border lipgloss.Color
}

var (
	lightPalette = palette{
		title:   "0",
		muted:   "244",
		accent:  "25",
		success: "28",
		failure: "160",
		pending: "130",
		border:  "250",
	}
	darkPalette = palette{
		title:   "15",
		muted:   "8",
		accent:  "12",
		success: "42",
		failure: "9",
		pending: "214",
		border:  "8",
	}
)

// For returns the styles for theme. Plain drops colour and uses ASCII
// symbols, for pipes and dumb terminals.
func For(theme model.Theme, plain bool) Theme {
	if plain {
		s := lipgloss.NewStyle()
		return Theme{
			Title: s, Muted: s, Accent: s, Success: s, Error: s, Pending: s,
			Selected: s, Done: s, Help: s,
			Border:       lipgloss.ASCIIBorder(),
			BorderColor:  lipgloss.NoColor{},
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-",
			SymOK: "ok:", SymFail: "error:",
		}
	}

	p := lightPalette
	if theme == model.ThemeDark {
		p = darkPalette
	}
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.title),
		Muted:    lipgloss.NewStyle().Foreground(p.muted),
		Accent:   lipgloss.NewStyle().Foreground(p.accent),
		Success:  lipgloss.NewStyle().Foreground(p.success),
		Error:    lipgloss.NewStyle().Foreground(p.failure).Bold(true),
		Pending:  lipgloss.NewStyle().Foreground(p.pending),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:     lipgloss.NewStyle().Faint(true),

		Border:      lipgloss.RoundedBorder(),
		BorderColor: p.border,

		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•",
		SymOK: "✔", SymFail: "✖",
	}
}

// Box returns the styled checkbox for a todo.
func (t Theme) Box(completed bool) string {
	if completed {
		return t.Success.Render(t.BoxChecked)
	}
	return t.Muted.Render(t.BoxUnchecked)
}
