package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	FinGreen  = lipgloss.Color("#34D399")
	SlateDark = lipgloss.Color("#1F2937")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Red       = lipgloss.Color("#EF4444")
	Blue      = lipgloss.Color("#3B82F6")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(FinGreen)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(FinGreen)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	TabStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(FinGreen).
			Bold(true).
			Padding(0, 1)

	PillStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(FinGreen).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Playback status characters
const (
	PlayingChar = "▶"
	PausedChar  = "⏸"
)
