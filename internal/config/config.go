package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mpetrov/folio/pkg/models"
)

const (
	DefaultServerURL = "http://localhost:8080"
	configFileName   = "config.json"
	configDirName    = "folio"
	MaxRecentlyRead  = 10 // Maximum number of recently read books to track
)

// Typography and layout bounds. Out-of-range persisted or incoming
// values are clamped, never rejected.
const (
	MinFontSize = 12.0
	MaxFontSize = 32.0

	MinLineHeight = 1.0
	MaxLineHeight = 3.0

	MinTextWidth = 400.0
	MaxTextWidth = 1400.0

	PanelWidthMargin = 50.0 // panel min + margin must not exceed panel max
)

// WidthPresets maps named text-width presets to fixed pixel values
var WidthPresets = map[string]float64{
	"narrow": 600,
	"medium": 800,
	"wide":   1000,
	"full":   1400,
}

// FontStacks is the fixed font-family table
var FontStacks = map[string]string{
	"serif": "Georgia, 'Times New Roman', serif",
	"sans":  "-apple-system, 'Segoe UI', sans-serif",
	"mono":  "'JetBrains Mono', Consolas, monospace",
}

// CustomColors holds the palette applied when theme is "custom"
type CustomColors struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
	Link       string `json:"link"`
}

// Settings is the complete reading-settings record. It round-trips
// losslessly through Export/Import.
type Settings struct {
	FontSize      float64       `json:"font_size"`
	LineHeight    float64       `json:"line_height"`
	ParaSpacing   float64       `json:"para_spacing"`
	TextWidth     float64       `json:"text_width"`
	FontFamily    string        `json:"font_family"`
	Theme         string        `json:"theme"`
	CustomColors  *CustomColors `json:"custom_colors,omitempty"`
	LayoutMode    string        `json:"layout_mode"`
	PageGap       float64       `json:"page_gap"`
	PageAnimation string        `json:"page_animation"`
	PanelMinWidth float64       `json:"panel_min_width"`
	PanelMaxWidth float64       `json:"panel_max_width"`

	// Progress behavior
	AutoSaveInterval int `json:"auto_save_interval"` // seconds
	WordsPerMinute   int `json:"words_per_minute"`   // for reading-time estimates
}

// DefaultSettings returns the defaults substituted for missing or
// invalid persisted fields.
func DefaultSettings() Settings {
	return Settings{
		FontSize:         18,
		LineHeight:       1.8,
		ParaSpacing:      1.0,
		TextWidth:        800,
		FontFamily:       "serif",
		Theme:            "dark",
		LayoutMode:       "scroll",
		PageGap:          40,
		PageAnimation:    "none",
		PanelMinWidth:    250,
		PanelMaxWidth:    600,
		AutoSaveInterval: 30,
		WordsPerMinute:   230,
	}
}

// RecentlyReadEntry represents a recently read book
type RecentlyReadEntry struct {
	BookID   string    `json:"book_id"`
	Title    string    `json:"title"`
	Path     string    `json:"path"`
	OpenedAt time.Time `json:"opened_at"`
}

// Config holds the application configuration
type Config struct {
	ServerURL    string              `json:"server_url"`
	Token        string              `json:"token,omitempty"`
	BooksDir     string              `json:"books_dir,omitempty"`
	Settings     Settings            `json:"settings"`
	RecentlyRead []RecentlyReadEntry `json:"recently_read,omitempty"`

	// Path to config file (not persisted)
	path string `json:"-"`
}

// Load loads configuration from the config file. A malformed file is
// logged and replaced with defaults; load never hard-fails the caller
// over settings fidelity.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return loadFrom(configPath)
}

func loadFrom(configPath string) (*Config, error) {
	cfg := &Config{
		ServerURL: DefaultServerURL,
		Settings:  DefaultSettings(),
		path:      configPath,
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		// Config doesn't exist, return defaults
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("config: malformed %s, using defaults: %v", configPath, err)
		return &Config{
			ServerURL: DefaultServerURL,
			Settings:  DefaultSettings(),
			path:      configPath,
		}, nil
	}

	cfg.path = configPath
	cfg.Settings.Normalize()
	return cfg, nil
}

// Save persists the configuration to disk
func (c *Config) Save() error {
	// Ensure directory exists
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0600)
}

// AddRecentlyRead adds a book to the recently read list
func (c *Config) AddRecentlyRead(bookID, title, path string) error {
	// Remove existing entry for this book if present
	newList := make([]RecentlyReadEntry, 0, MaxRecentlyRead)
	for _, entry := range c.RecentlyRead {
		if entry.BookID != bookID {
			newList = append(newList, entry)
		}
	}

	// Add new entry at the front
	entry := RecentlyReadEntry{
		BookID:   bookID,
		Title:    title,
		Path:     path,
		OpenedAt: time.Now(),
	}
	c.RecentlyRead = append([]RecentlyReadEntry{entry}, newList...)

	// Trim to max size
	if len(c.RecentlyRead) > MaxRecentlyRead {
		c.RecentlyRead = c.RecentlyRead[:MaxRecentlyRead]
	}

	return c.Save()
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}

	return filepath.Join(configDir, configDirName, configFileName), nil
}

// Normalize clamps every field to its valid range and substitutes
// defaults for unrecognized enum values.
func (s *Settings) Normalize() {
	def := DefaultSettings()

	s.FontSize = clampFloat(s.FontSize, MinFontSize, MaxFontSize)
	s.LineHeight = clampFloat(s.LineHeight, MinLineHeight, MaxLineHeight)
	if s.ParaSpacing < 0 {
		s.ParaSpacing = 0
	}
	s.TextWidth = clampFloat(s.TextWidth, MinTextWidth, MaxTextWidth)

	if _, ok := FontStacks[s.FontFamily]; !ok {
		s.FontFamily = def.FontFamily
	}
	if s.Theme == "" {
		s.Theme = def.Theme
	}
	switch s.LayoutMode {
	case "scroll", "paged", "dual":
	default:
		s.LayoutMode = def.LayoutMode
	}
	if s.PageGap < 0 {
		s.PageGap = 0
	}
	switch s.PageAnimation {
	case "none", "slide", "fade", "flip":
	default:
		s.PageAnimation = def.PageAnimation
	}

	if s.PanelMinWidth <= 0 {
		s.PanelMinWidth = def.PanelMinWidth
	}
	if s.PanelMaxWidth <= 0 {
		s.PanelMaxWidth = def.PanelMaxWidth
	}
	// min and max must stay mutually consistent
	if s.PanelMinWidth+PanelWidthMargin > s.PanelMaxWidth {
		s.PanelMinWidth = def.PanelMinWidth
		s.PanelMaxWidth = def.PanelMaxWidth
	}

	if s.AutoSaveInterval <= 0 {
		s.AutoSaveInterval = def.AutoSaveInterval
	}
	if s.WordsPerMinute <= 0 {
		s.WordsPerMinute = def.WordsPerMinute
	}
}

// Apply sets a single setting by its schema key, validating and
// clamping the value. Unknown keys are an error; out-of-range numeric
// values are clamped silently.
func (s *Settings) Apply(key, value string) error {
	switch key {
	case "fontSize":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("fontSize: %w", err)
		}
		s.FontSize = clampFloat(v, MinFontSize, MaxFontSize)
	case "lineHeight":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("lineHeight: %w", err)
		}
		s.LineHeight = clampFloat(v, MinLineHeight, MaxLineHeight)
	case "paraSpacing":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("paraSpacing: %w", err)
		}
		if v < 0 {
			v = 0
		}
		s.ParaSpacing = v
	case "textWidth":
		if preset, ok := WidthPresets[value]; ok {
			s.TextWidth = preset
			return nil
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("textWidth: %w", err)
		}
		s.TextWidth = clampFloat(v, MinTextWidth, MaxTextWidth)
	case "fontFamily":
		if _, ok := FontStacks[value]; !ok {
			return fmt.Errorf("fontFamily: unknown family %q", value)
		}
		s.FontFamily = value
	case "theme":
		if value == "" {
			return fmt.Errorf("theme: empty name")
		}
		s.Theme = value
	case "layoutMode":
		switch value {
		case "scroll", "paged", "dual":
			s.LayoutMode = value
		default:
			return fmt.Errorf("layoutMode: unknown mode %q", value)
		}
	case "pageGap":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("pageGap: %w", err)
		}
		if v < 0 {
			v = 0
		}
		s.PageGap = v
	case "pageAnimation":
		switch value {
		case "none", "slide", "fade", "flip":
			s.PageAnimation = value
		default:
			return fmt.Errorf("pageAnimation: unknown animation %q", value)
		}
	case "panelMinWidth":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("panelMinWidth: %w", err)
		}
		if v+PanelWidthMargin <= s.PanelMaxWidth {
			s.PanelMinWidth = v
		}
	case "panelMaxWidth":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("panelMaxWidth: %w", err)
		}
		if s.PanelMinWidth+PanelWidthMargin <= v {
			s.PanelMaxWidth = v
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// Typography returns the geometry-affecting subset of the settings
func (s Settings) Typography() models.Typography {
	return models.Typography{
		FontSize:    s.FontSize,
		LineHeight:  s.LineHeight,
		ParaSpacing: s.ParaSpacing,
		FontFamily:  s.FontFamily,
	}
}

// Export serializes the settings record as an indented JSON document
func (s *Settings) Export() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ImportSettings parses an exported settings document. The result is
// normalized, so export-import of a valid record is an identity.
func ImportSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("import settings: %w", err)
	}
	s.Normalize()
	return s, nil
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
