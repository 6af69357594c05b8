package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("12")  // bright blue
	colorAccent  = lipgloss.Color("13")  // bright magenta
	colorDim     = lipgloss.Color("240") // gray
	colorBorder  = lipgloss.Color("238") // dark gray

	styleHeader = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			MarginBottom(1)

	styleSectionTitle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(30)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorDim)

	styleValue = lipgloss.NewStyle().
			Bold(true)

	styleTheme = lipgloss.NewStyle().
			Foreground(colorAccent).
			Padding(0, 1)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)
)
