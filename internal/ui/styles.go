package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Layout constants - single source of truth for all viewport dimensions
const (
	MinViewportWidth  = 90
	MaxViewportWidth  = 140
	DefaultWidth      = 110 // Used when terminal size is unknown
	DefaultHeight     = 32
	TableHeight       = 20
	MinTableHeight    = 5
	BorderPadding     = 2 // left/right padding inside borders
	TwoBoxOverhead    = 6 // borders of both boxes + help line + padding
	filterViewChrome  = 9 // title, divider, spacing, query info, summary, badges
	defaultInputWidth = 40
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int // terminal height
	ContentWidth   int // ViewportWidth - border chars
	TableWidth     int // width available to table columns
	TableHeight    int // visible data rows
	InnerWidth     int // EXACT width for content inside borders
}

// NewLayout creates a Layout from the terminal size, clamping the width to min/max
func NewLayout(terminalWidth, terminalHeight int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	if terminalHeight <= 0 {
		terminalHeight = DefaultHeight
	}
	tableHeight := terminalHeight - TwoBoxOverhead - filterViewChrome
	if tableHeight < MinTableHeight {
		tableHeight = MinTableHeight
	}
	return Layout{
		ViewportWidth:  width,
		ViewportHeight: terminalHeight,
		ContentWidth:   width - 2,
		TableWidth:     width - 4,
		TableHeight:    tableHeight,
		InnerWidth:     width - 2,
	}
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

// clamp restricts a value to the given range
func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("196") // red
	ColorHighlight = lipgloss.Color("88")  // dark red background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("226") // bright yellow
	ColorSuccess   = lipgloss.Color("82")  // green
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorHidden    = lipgloss.Color("238") // darker gray for filtered-out rows
)

// Common styles - reusable style definitions
var (
	// Border style for main viewport. Always use .Width(ViewportWidth) with no padding
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// Help box uses a white border
	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorText)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Italic(true)

	// Accent style for highlighted text (yellow)
	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Summary line ("Showing 8 errors")
	SummaryStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	StatusMsgStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Bold(true)
)

// RenderTitle renders a bold title
func RenderTitle(s string) string {
	return TitleStyle.Render(s)
}

// RenderDim renders gray secondary text
func RenderDim(s string) string {
	return DimStyle.Render(s)
}

// RenderNormal renders plain white text
func RenderNormal(s string) string {
	return NormalStyle.Render(s)
}

// RenderError renders an error message in red
func RenderError(s string) string {
	return ErrorStyle.Render(s)
}

// StringWidth returns the display width of s, ignoring ANSI sequences
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

func stripEscapeCodes(s string) string {
	return ansi.Strip(s)
}

func truncateToWidth(s string, width int) string {
	return ansi.Truncate(s, width, "")
}

// BuildTwoBoxView renders content in the red main box and the help text in a
// one-row white box underneath
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	main := BorderStyle.Width(layout.ViewportWidth).Render(content)
	help := HelpBoxStyle.Width(layout.ViewportWidth).Render(CenterText(HintStyle.Render(helpText), layout.InnerWidth))
	return lipgloss.JoinVertical(lipgloss.Left, main, help)
}

// ApplyTableStyles applies the app's header and selection styles to a table.
// The visible selection highlight is drawn by RenderTableWithSelection.
func ApplyTableStyles(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorTextDim).
		BorderBottom(false).
		Bold(true).
		Foreground(ColorText)
	s.Selected = s.Selected.
		Foreground(ColorText).
		Bold(false)
	t.SetStyles(s)
}

// NewAppSpinner returns the white dot spinner used across the app
func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorText)
	return s
}

// NewAppTheme creates a huh theme matching the app's style guide:
// white text, red highlights and selection
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Description = t.Focused.Description

	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(ColorBorder).
		SetString("> ")

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorBorder)

	return t
}
