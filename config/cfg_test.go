package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.API.Timeout != 60*time.Second {
		t.Errorf("Default API timeout = %v, want 60s", cfg.API.Timeout)
	}
	if cfg.Chapters.Level != LevelB1 {
		t.Errorf("Default level = %v, want B1", cfg.Chapters.Level)
	}
	if cfg.Chapters.TranslationMode != TranslationModeTranslation {
		t.Errorf("Default mode = %v, want translation", cfg.Chapters.TranslationMode)
	}
}

func TestLoadConfiguration_EnvOverridesURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CHAPTERPREP_API_URL", "https://api.example.org")

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.API.URL != "https://api.example.org" {
		t.Errorf("API URL = %q, want env value", cfg.API.URL)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
api:
  url: http://127.0.0.1:9000
  timeout: 5s
session:
  path: ` + filepath.Join(tmpDir, "state", "session.db") + `
chapters:
  level: C1
  translation_mode: definition
  interactive: false
logging:
  console:
    level: debug
  file:
    level: none
reporting:
  destination: ` + filepath.Join(tmpDir, "report.zip") + `
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.API.URL != "http://127.0.0.1:9000" {
		t.Errorf("API URL = %q", cfg.API.URL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("API timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.Chapters.Level != LevelC1 {
		t.Errorf("Level = %v, want C1", cfg.Chapters.Level)
	}
	if cfg.Chapters.TranslationMode != TranslationModeDefinition {
		t.Errorf("TranslationMode = %v, want definition", cfg.Chapters.TranslationMode)
	}
	if cfg.Chapters.Interactive {
		t.Error("Expected Interactive to be false")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "state")); err != nil {
		t.Errorf("session directory was not created by sanitizer: %v", err)
	}
}

func TestLoadConfiguration_Failures(t *testing.T) {

	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "version: 1\napi:\n  url: x\n  invalid indent\n"},
		{name: "unknown field", content: "version: 1\nunknown_field: value\n"},
		{name: "bad version", content: "version: 2\n"},
		{name: "bad level", content: "version: 1\nchapters:\n  level: D4\n"},
		{name: "bad url", content: "version: 1\napi:\n  url: not a url\n"},
		{name: "zero timeout", content: "version: 1\napi:\n  timeout: 0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if _, err := unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{"version: 1", "level: B1", "translation_mode: translation", "timeout: 1m0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump() output missing %q:\n%s", want, out)
		}
	}

	// dumped configuration must load back
	if _, err := unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Dumped config does not load: %v", err)
	}
}

func TestEnums(t *testing.T) {
	if got := LevelNames(); strings.Join(got, ",") != "A1,A2,B1,B2,C1,C2" {
		t.Errorf("LevelNames() = %v", got)
	}
	if _, err := ParseTranslationMode("gloss"); err == nil {
		t.Error("ParseTranslationMode(gloss) expected error")
	}
	if TranslationModeDefinition.Label() != "Definition" || TranslationModeTranslation.Label() != "Translation" {
		t.Error("unexpected translation mode labels")
	}
	lang, err := ParseBookLanguage("de")
	if err != nil {
		t.Fatalf("ParseBookLanguage(de) error = %v", err)
	}
	if lang.Tag().String() != "de" {
		t.Errorf("Tag() = %v, want de", lang.Tag())
	}
	if BookLanguage("pt").IsValid() {
		t.Error("pt must not be a valid book language")
	}
}

func TestEnumNamesRoundTrip(t *testing.T) {
	for _, name := range LevelNames() {
		v, err := ParseLevel(name)
		if err != nil || v.String() != name {
			t.Errorf("ParseLevel(%q) = %v, %v", name, v, err)
		}
	}
	for _, name := range TranslationModeNames() {
		v, err := ParseTranslationMode(name)
		if err != nil || v.String() != name {
			t.Errorf("ParseTranslationMode(%q) = %v, %v", name, v, err)
		}
	}
	for _, name := range BookLanguageNames() {
		v, err := ParseBookLanguage(name)
		if err != nil || v.String() != name || v.Tag().String() != name {
			t.Errorf("ParseBookLanguage(%q) = %v, %v", name, v, err)
		}
	}
	if got := len(LevelNames()); got != 6 {
		t.Errorf("len(LevelNames()) = %d, want 6", got)
	}
	if got := len(BookLanguageNames()); got != 5 {
		t.Errorf("len(BookLanguageNames()) = %d, want 5", got)
	}
}
