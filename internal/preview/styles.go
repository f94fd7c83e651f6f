package preview

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPink   = lipgloss.Color("#FF68F7")
	ColorCyan   = lipgloss.Color("#87FFFF")
	ColorGray   = lipgloss.Color("#7A7A7A")
	ColorRed    = lipgloss.Color("#FF6968")
	ColorYellow = lipgloss.Color("#FED689")
)

// Terminal cells have no alpha, so transparent pixels are flattened onto
// this before printing.
var backdrop = color.NRGBA{R: 0x1c, G: 0x1c, B: 0x1c, A: 0xff}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPink)

	introStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorCyan).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	messageStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)
