package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	dateStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e0af68"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#3b4261")).Padding(0, 1)

	tierStyles = map[string]lipgloss.Style{
		"Low":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9ece6a")),
		"Medium": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e0af68")),
		"High":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f7768e")),
	}
)
