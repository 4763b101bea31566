package tui

import (
	"wallet_connector/internal/domain/entity"

	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorBase     lipgloss.Color = "#1e1e2e"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorLavender).
			Padding(1, 2).
			Width(52)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	labelStyle = lipgloss.NewStyle().Foreground(colorOverlay1).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(colorText)
	wrongStyle = lipgloss.NewStyle().Foreground(colorRed)
	hintStyle  = lipgloss.NewStyle().Foreground(colorOverlay1).MarginTop(1)

	bannerStyle = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorRed).
			Padding(0, 1).
			MarginBottom(1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorBlue).
			Padding(0, 2).
			MarginTop(1)

	buttonDisabledStyle = buttonStyle.
				Foreground(colorOverlay1).
				Background(colorSurface1)

	badgeBase = lipgloss.NewStyle().Foreground(colorBase).Padding(0, 1).Bold(true)
)

// badgeStyle colours the status badge by its class.
func badgeStyle(class string) lipgloss.Style {
	switch class {
	case entity.BadgeClassConnected:
		return badgeBase.Background(colorGreen)
	case entity.BadgeClassConnecting:
		return badgeBase.Background(colorYellow)
	default:
		return badgeBase.Background(colorRed)
	}
}
