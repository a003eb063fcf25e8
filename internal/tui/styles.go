package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple
	PanelColor   = lipgloss.Color("#43BF6D") // Green, the VFD glow
	SubtleColor  = lipgloss.Color("#626262") // Gray
)

// Styles
var (
	// TitleStyle heads the preview window.
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	// PanelStyle is the 20x2 glass: monospaced content inside a rounded
	// border, green-on-dark like the real VFD.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PanelColor).
			Foreground(PanelColor).
			Padding(0, 1)

	// StatusStyle shows the last simulated press.
	StatusStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginTop(1)
)
