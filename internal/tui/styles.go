package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/theme"
)

var (
	// Adaptive colors follow the diary theme, see applyTheme
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#9333EA", Dark: "#C084FC"}
	colorAccent    = lipgloss.AdaptiveColor{Light: "#DB2777", Dark: "#F472B6"}
	colorSecondary = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}
	colorDim       = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorBorder    = lipgloss.AdaptiveColor{Light: "#E9D5FF", Dark: "#3B0764"}
	colorTabBg     = lipgloss.AdaptiveColor{Light: "#F3E8FF", Dark: "#2A1A3E"}
	colorStatusBg  = lipgloss.AdaptiveColor{Light: "#FAF5FF", Dark: "#1E1030"}
	colorPositive  = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}
	colorNeutral   = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}
	colorNegative  = lipgloss.AdaptiveColor{Light: "#EA580C", Dark: "#FB923C"}
	colorError     = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			PaddingLeft(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			PaddingLeft(1)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1).
			Bold(true)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorSecondary).
				Background(colorTabBg).
				Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	selectedStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	adviceStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Italic(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(colorStatusBg).
			Foreground(colorSecondary).
			PaddingLeft(1).
			PaddingRight(1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorPositive).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorAccent)
)

func emotionStyle(e domain.Emotion) lipgloss.Style {
	switch e {
	case domain.Positive:
		return lipgloss.NewStyle().Foreground(colorPositive).Bold(true)
	case domain.Negative:
		return lipgloss.NewStyle().Foreground(colorNegative).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colorNeutral).Bold(true)
	}
}

// applyTheme makes every adaptive color resolve to the chosen palette
func applyTheme(mode theme.Mode) {
	lipgloss.SetHasDarkBackground(mode == theme.Dark)
}
