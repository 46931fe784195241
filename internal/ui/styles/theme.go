package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mpetrov/folio/internal/config"
)

// Theme is a named color scheme for the reading surface
type Theme struct {
	Name        string
	Description string

	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color

	Border        lipgloss.Color
	Selection     lipgloss.Color
	SelectionText lipgloss.Color
}

// Built-in themes
var (
	DarkTheme = Theme{
		Name:          "dark",
		Description:   "Dark theme (default)",
		Primary:       lipgloss.Color("#7C3AED"),
		Secondary:     lipgloss.Color("#06B6D4"),
		Background:    lipgloss.Color("#1F2937"),
		Foreground:    lipgloss.Color("#F9FAFB"),
		Success:       lipgloss.Color("#10B981"),
		Warning:       lipgloss.Color("#F59E0B"),
		Error:         lipgloss.Color("#EF4444"),
		Muted:         lipgloss.Color("#6B7280"),
		Border:        lipgloss.Color("#374151"),
		Selection:     lipgloss.Color("#7C3AED"),
		SelectionText: lipgloss.Color("#F9FAFB"),
	}

	LightTheme = Theme{
		Name:          "light",
		Description:   "Light theme",
		Primary:       lipgloss.Color("#7C3AED"),
		Secondary:     lipgloss.Color("#0891B2"),
		Background:    lipgloss.Color("#FFFFFF"),
		Foreground:    lipgloss.Color("#1F2937"),
		Success:       lipgloss.Color("#059669"),
		Warning:       lipgloss.Color("#D97706"),
		Error:         lipgloss.Color("#DC2626"),
		Muted:         lipgloss.Color("#9CA3AF"),
		Border:        lipgloss.Color("#E5E7EB"),
		Selection:     lipgloss.Color("#7C3AED"),
		SelectionText: lipgloss.Color("#FFFFFF"),
	}

	SepiaTheme = Theme{
		Name:          "sepia",
		Description:   "Warm paper-like theme",
		Primary:       lipgloss.Color("#8B5E34"),
		Secondary:     lipgloss.Color("#A0522D"),
		Background:    lipgloss.Color("#F4ECD8"),
		Foreground:    lipgloss.Color("#5B4636"),
		Success:       lipgloss.Color("#6B8E23"),
		Warning:       lipgloss.Color("#B8860B"),
		Error:         lipgloss.Color("#A52A2A"),
		Muted:         lipgloss.Color("#9C8B73"),
		Border:        lipgloss.Color("#E0D5BC"),
		Selection:     lipgloss.Color("#8B5E34"),
		SelectionText: lipgloss.Color("#F4ECD8"),
	}

	SolarizedTheme = Theme{
		Name:          "solarized",
		Description:   "Solarized dark theme",
		Primary:       lipgloss.Color("#268BD2"),
		Secondary:     lipgloss.Color("#2AA198"),
		Background:    lipgloss.Color("#002B36"),
		Foreground:    lipgloss.Color("#839496"),
		Success:       lipgloss.Color("#859900"),
		Warning:       lipgloss.Color("#B58900"),
		Error:         lipgloss.Color("#DC322F"),
		Muted:         lipgloss.Color("#586E75"),
		Border:        lipgloss.Color("#073642"),
		Selection:     lipgloss.Color("#268BD2"),
		SelectionText: lipgloss.Color("#FDF6E3"),
	}

	GruvboxTheme = Theme{
		Name:          "gruvbox",
		Description:   "Gruvbox dark theme",
		Primary:       lipgloss.Color("#D79921"),
		Secondary:     lipgloss.Color("#458588"),
		Background:    lipgloss.Color("#282828"),
		Foreground:    lipgloss.Color("#EBDBB2"),
		Success:       lipgloss.Color("#98971A"),
		Warning:       lipgloss.Color("#D79921"),
		Error:         lipgloss.Color("#CC241D"),
		Muted:         lipgloss.Color("#928374"),
		Border:        lipgloss.Color("#3C3836"),
		Selection:     lipgloss.Color("#D79921"),
		SelectionText: lipgloss.Color("#282828"),
	}

	// BuiltinThemes is a list of all available built-in themes
	BuiltinThemes = []Theme{
		DarkTheme,
		LightTheme,
		SepiaTheme,
		SolarizedTheme,
		GruvboxTheme,
	}

	currentTheme = DarkTheme
)

// GetTheme returns a theme by name, or the default theme if not found
func GetTheme(name string) Theme {
	for _, t := range BuiltinThemes {
		if t.Name == name {
			return t
		}
	}
	return DarkTheme
}

// GetThemeNames returns the names of all built-in themes
func GetThemeNames() []string {
	names := make([]string, len(BuiltinThemes))
	for i, t := range BuiltinThemes {
		names[i] = t.Name
	}
	return names
}

// FromCustomColors builds a theme from a user-supplied palette,
// falling back to the dark theme's colors for anything unset.
func FromCustomColors(c config.CustomColors) Theme {
	t := DarkTheme
	t.Name = "custom"
	t.Description = "Custom palette"
	if c.Background != "" {
		t.Background = lipgloss.Color(c.Background)
	}
	if c.Text != "" {
		t.Foreground = lipgloss.Color(c.Text)
	}
	if c.Accent != "" {
		t.Primary = lipgloss.Color(c.Accent)
		t.Selection = lipgloss.Color(c.Accent)
	}
	if c.Link != "" {
		t.Secondary = lipgloss.Color(c.Link)
	}
	return t
}

// CurrentTheme returns the active theme
func CurrentTheme() Theme {
	return currentTheme
}

// ApplyNamed activates a theme by settings name, resolving "custom"
// against the given palette.
func ApplyNamed(name string, custom *config.CustomColors) {
	if name == "custom" && custom != nil {
		ApplyTheme(FromCustomColors(*custom))
		return
	}
	ApplyTheme(GetTheme(name))
}

// NextTheme cycles to the next built-in theme and returns its name
func NextTheme() string {
	for i, t := range BuiltinThemes {
		if t.Name == currentTheme.Name {
			next := BuiltinThemes[(i+1)%len(BuiltinThemes)]
			ApplyTheme(next)
			return next.Name
		}
	}
	ApplyTheme(BuiltinThemes[0])
	return BuiltinThemes[0].Name
}

// ApplyTheme updates all global styles to use the given theme's colors
func ApplyTheme(theme Theme) {
	currentTheme = theme

	Primary = theme.Primary
	Secondary = theme.Secondary
	Success = theme.Success
	Warning = theme.Warning
	Error = theme.Error
	Muted = theme.Muted
	Background = theme.Background
	Foreground = theme.Foreground
	Border = theme.Border

	TitleBar = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Background(theme.Primary).
		Padding(0, 1).
		Bold(true)

	StatusBar = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Padding(0, 1)

	FooterBar = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Padding(0, 1)

	Help = lipgloss.NewStyle().
		Foreground(theme.Muted)

	HelpKey = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	MutedText = lipgloss.NewStyle().
		Foreground(theme.Muted)

	SecondaryText = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(theme.Success).
		Bold(true).
		Padding(0, 1)

	ListItem = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Padding(0, 2)

	ListItemSelected = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Selection).
		Padding(0, 2).
		Bold(true)

	ListItemDimmed = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Padding(0, 2)

	ReaderText = lipgloss.NewStyle().
		Foreground(theme.Foreground)

	ReaderHeading = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	ReaderQuote = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Italic(true)

	ReaderCode = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	ReaderHeader = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Background(theme.Primary).
		Padding(0, 1).
		Bold(true)

	ReaderProgress = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Align(lipgloss.Right)

	PageDivider = lipgloss.NewStyle().
		Foreground(theme.Border)

	Dialog = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 2)

	DialogTitle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		MarginBottom(1)

	SettingLabel = lipgloss.NewStyle().
		Foreground(theme.Foreground)

	SettingValue = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	BookTitle = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Bold(true)

	BookMeta = lipgloss.NewStyle().
		Foreground(theme.Secondary)
}

func init() {
	ApplyTheme(DarkTheme)
}
