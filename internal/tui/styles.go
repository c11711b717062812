package tui

import "github.com/charmbracelet/lipgloss"

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)

	messageStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(0, 1)

	stageStyle      = lipgloss.NewStyle().Foreground(colorDim)
	spinnerStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	confidenceStyle = lipgloss.NewStyle().Foreground(colorDim)

	selectedItemStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	itemStyle         = lipgloss.NewStyle().Foreground(colorWhite)
	helpStyle         = lipgloss.NewStyle().Foreground(colorDim)

	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	warningStyle = lipgloss.NewStyle().Foreground(colorYellow)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
)
