package handlers

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

// styles are plain when stdout is not a terminal.
type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	dim     lipgloss.Style
}

// isInteractiveTTY is replaced in tests.
var isInteractiveTTY = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func newStyles() styles {
	if !isInteractiveTTY() {
		plain := lipgloss.NewStyle()
		return styles{title: plain, section: plain, ok: plain, fail: plain, dim: plain}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(colorWhite),
		section: lipgloss.NewStyle().Bold(true).Foreground(colorBlue),
		ok:      lipgloss.NewStyle().Foreground(colorGreen),
		fail:    lipgloss.NewStyle().Foreground(colorRed),
		dim:     lipgloss.NewStyle().Foreground(colorDim),
	}
}
