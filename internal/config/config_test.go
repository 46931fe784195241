package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeClamps(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		check  func(Settings) bool
	}{
		{
			"font size below minimum",
			func(s *Settings) { s.FontSize = 4 },
			func(s Settings) bool { return s.FontSize == MinFontSize },
		},
		{
			"font size above maximum",
			func(s *Settings) { s.FontSize = 90 },
			func(s Settings) bool { return s.FontSize == MaxFontSize },
		},
		{
			"line height clamped",
			func(s *Settings) { s.LineHeight = 0.2 },
			func(s Settings) bool { return s.LineHeight == MinLineHeight },
		},
		{
			"negative paragraph spacing",
			func(s *Settings) { s.ParaSpacing = -1 },
			func(s Settings) bool { return s.ParaSpacing == 0 },
		},
		{
			"text width clamped",
			func(s *Settings) { s.TextWidth = 3000 },
			func(s Settings) bool { return s.TextWidth == MaxTextWidth },
		},
		{
			"unknown font family replaced",
			func(s *Settings) { s.FontFamily = "comic-sans" },
			func(s Settings) bool { return s.FontFamily == "serif" },
		},
		{
			"unknown layout mode replaced",
			func(s *Settings) { s.LayoutMode = "spiral" },
			func(s Settings) bool { return s.LayoutMode == "scroll" },
		},
		{
			"inconsistent panel widths reset",
			func(s *Settings) { s.PanelMinWidth = 600; s.PanelMaxWidth = 300 },
			func(s Settings) bool { return s.PanelMinWidth+PanelWidthMargin <= s.PanelMaxWidth },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			s.Normalize()
			if !tt.check(s) {
				t.Errorf("normalized settings = %+v", s)
			}
		})
	}
}

func TestApplySettings(t *testing.T) {
	s := DefaultSettings()

	if err := s.Apply("fontSize", "24"); err != nil || s.FontSize != 24 {
		t.Errorf("fontSize: %v, got %v", err, s.FontSize)
	}
	if err := s.Apply("fontSize", "99"); err != nil || s.FontSize != MaxFontSize {
		t.Errorf("fontSize clamp: %v, got %v", err, s.FontSize)
	}
	if err := s.Apply("textWidth", "narrow"); err != nil || s.TextWidth != 600 {
		t.Errorf("textWidth preset: %v, got %v", err, s.TextWidth)
	}
	if err := s.Apply("textWidth", "950"); err != nil || s.TextWidth != 950 {
		t.Errorf("textWidth numeric: %v, got %v", err, s.TextWidth)
	}
	if err := s.Apply("layoutMode", "dual"); err != nil || s.LayoutMode != "dual" {
		t.Errorf("layoutMode: %v, got %v", err, s.LayoutMode)
	}
	if err := s.Apply("layoutMode", "bogus"); err == nil {
		t.Error("bogus layout mode should be rejected")
	}
	if err := s.Apply("nonsense", "1"); err == nil {
		t.Error("unknown key should be rejected")
	}
}

func TestApplyPanelWidthConsistency(t *testing.T) {
	s := DefaultSettings() // min 250, max 600

	// Raising min past max-50 must be ignored
	if err := s.Apply("panelMinWidth", "580"); err != nil {
		t.Fatal(err)
	}
	if s.PanelMinWidth != 250 {
		t.Errorf("inconsistent panel min accepted: %v", s.PanelMinWidth)
	}

	if err := s.Apply("panelMinWidth", "400"); err != nil || s.PanelMinWidth != 400 {
		t.Errorf("valid panel min rejected: %v", s.PanelMinWidth)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := DefaultSettings()
	exported, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}

	imported, err := ImportSettings(exported)
	if err != nil {
		t.Fatal(err)
	}

	again, err := imported.Export()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(exported, again) {
		t.Errorf("round trip not identity:\nfirst:\n%s\nsecond:\n%s", exported, again)
	}
}

func TestImportMalformedFallsBackToDefaults(t *testing.T) {
	s, err := ImportSettings([]byte("{not json"))
	if err == nil {
		t.Error("malformed import should report an error")
	}
	if s != DefaultSettings() {
		t.Errorf("malformed import should yield defaults, got %+v", s)
	}
}

func TestLoadMalformedConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	os.WriteFile(path, []byte("{{{{"), 0600)

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("malformed config must not hard-fail: %v", err)
	}
	if cfg.Settings != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", cfg.Settings)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Settings.FontSize = 22
	cfg.Settings.LayoutMode = "paged"
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	loaded, err := loadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Settings.FontSize != 22 || loaded.Settings.LayoutMode != "paged" {
		t.Errorf("loaded settings = %+v", loaded.Settings)
	}
}

func TestRecentlyReadOrdering(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Settings: DefaultSettings(), path: filepath.Join(dir, "config.json")}

	cfg.AddRecentlyRead("a", "Book A", "/books/a.md")
	cfg.AddRecentlyRead("b", "Book B", "/books/b.md")
	cfg.AddRecentlyRead("a", "Book A", "/books/a.md") // re-open moves to front

	if len(cfg.RecentlyRead) != 2 {
		t.Fatalf("entries = %d, want 2", len(cfg.RecentlyRead))
	}
	if cfg.RecentlyRead[0].BookID != "a" || cfg.RecentlyRead[1].BookID != "b" {
		t.Errorf("order = %s, %s; want a, b", cfg.RecentlyRead[0].BookID, cfg.RecentlyRead[1].BookID)
	}
}
