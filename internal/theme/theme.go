package theme

import "github.com/charmbracelet/lipgloss"

type Theme interface {
	// Judgement styles a bar or value by its index into game.Judgements,
	// -1 for anything outside every window.
	Judgement(index int) lipgloss.Style
	Heading() lipgloss.Style
	Label() lipgloss.Style
}
