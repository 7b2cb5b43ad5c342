package main

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Width(24)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(12)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// row joins cells horizontally; the first cell is the scene name.
func row(name string, cells ...string) string {
	parts := []string{nameStyle.Render(name)}
	for _, c := range cells {
		parts = append(parts, cellStyle.Render(c))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
