package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"
)

var (
	keywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"})

	// termWidth is the detected terminal width, used to wrap help text.
	termWidth uint = 80
)

func keyword(s string) string {
	return keywordStyle.Render(s)
}

// paragraph word-wraps and indents a block of help text to the
// detected terminal width.
func paragraph(s string) string {
	w := int(termWidth) - 4
	if w < 20 {
		w = 20
	}
	s = wordwrap.String(s, w)
	return strings.TrimRight(indent.String(s, 2), "\n")
}

func detectTermWidth() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		termWidth = uint(w)
		if termWidth > 120 {
			termWidth = 120
		}
	}
}
