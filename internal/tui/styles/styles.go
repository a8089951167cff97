package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	InkGreen   = lipgloss.Color("#22C55E")
	SlateDark  = lipgloss.Color("#1F2937")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Amber      = lipgloss.Color("#F59E0B")
	Red        = lipgloss.Color("#EF4444")
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
			Foreground(InkGreen)

	StreakStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(SlateDark).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateDark).
			Padding(0, 1)
)

// HeatChar is the cell glyph for the heatmap grid.
const HeatChar = "■"

// Heat level styles, dimmest to brightest. Index matches
// analytics.HeatLevel.
var HeatStyles = [5]lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#14532D")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#166534")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")),
}
