package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	// Colors
	Primary    = lipgloss.Color("#7C3AED")
	Secondary  = lipgloss.Color("#06B6D4")
	Success    = lipgloss.Color("#10B981")
	Warning    = lipgloss.Color("#F59E0B")
	Error      = lipgloss.Color("#EF4444")
	Muted      = lipgloss.Color("#6B7280")
	Background = lipgloss.Color("#1F2937")
	Foreground = lipgloss.Color("#F9FAFB")
	Border     = lipgloss.Color("#374151")

	// Title bar
	TitleBar = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Padding(0, 1).
			Bold(true)

	// Status bar at bottom
	StatusBar = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	FooterBar = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted)

	HelpKey = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	SecondaryText = lipgloss.NewStyle().
			Foreground(Secondary)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true).
			Padding(0, 1)

	// List styles
	ListItem = lipgloss.NewStyle().
			Foreground(Foreground).
			Padding(0, 2)

	ListItemSelected = lipgloss.NewStyle().
				Foreground(Foreground).
				Background(Primary).
				Padding(0, 2).
				Bold(true)

	ListItemDimmed = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 2)

	// Reading surface styles
	ReaderText = lipgloss.NewStyle().
			Foreground(Foreground)

	ReaderHeading = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	ReaderQuote = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	ReaderCode = lipgloss.NewStyle().
			Foreground(Secondary)

	ReaderHeader = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Padding(0, 1).
			Bold(true)

	ReaderProgress = lipgloss.NewStyle().
			Foreground(Secondary).
			Align(lipgloss.Right)

	PageDivider = lipgloss.NewStyle().
			Foreground(Border)

	// Dialog/Modal styles
	Dialog = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2)

	DialogTitle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1)

	// Settings overlay
	SettingLabel = lipgloss.NewStyle().
			Foreground(Foreground)

	SettingValue = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Book info styles
	BookTitle = lipgloss.NewStyle().
			Foreground(Foreground).
			Bold(true)

	BookMeta = lipgloss.NewStyle().
			Foreground(Secondary)
)

// TruncateText truncates a string to the given display width,
// appending an ellipsis when cut. Safe for wide runes.
func TruncateText(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "…")
}
