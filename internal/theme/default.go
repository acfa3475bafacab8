package theme

import "github.com/charmbracelet/lipgloss"

type DefaultTheme struct {
}

func (t *DefaultTheme) Judgement(index int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(getJudgementColor(index))
}

func (t *DefaultTheme) Heading() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Underline(true)
}

func (t *DefaultTheme) Label() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a"))
}

var judgementColors = map[int]lipgloss.Color{
	0:  "#99ccff", // marvelous light blue
	1:  "#f2cb30", // perfect yellow
	2:  "#14cc8f", // great green
	3:  "#1ab2ff", // good blue
	4:  "#ff1ab3", // bad pink
	-1: "#cc2929", // miss red
}

func getJudgementColor(i int) lipgloss.Color {
	col, ok := judgementColors[i]
	if !ok {
		return judgementColors[-1]
	}
	return col
}
