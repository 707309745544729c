// Package config defines the cheatfind configuration.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

import (
	"os"
	"path/filepath"

	"github.com/yaklabco/cheatfind/pkg/corpus"
	"github.com/yaklabco/cheatfind/pkg/tldr"
)

// AppName names the config and data directories.
const AppName = "cheatfind"

// Default values.
const (
	DefaultHeight = 10
	DefaultLimit  = 10
)

// ColorMode controls when output is styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is known.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure.
type Config struct {
	// CorpusPath is the directory searched for corpus files.
	CorpusPath string `yaml:"corpus_path"`

	// Height is the number of result rows under the prompt.
	Height int `yaml:"height"`

	// Limit caps the number of results computed per query.
	Limit int `yaml:"limit"`

	// Extension marks corpus files, including the leading dot.
	Extension string `yaml:"extension"`

	// TLDRURL is the tldr-pages archive used by update.
	TLDRURL string `yaml:"tldr_url"`

	// Platform is the tldr page folder kept next to "common".
	Platform string `yaml:"platform"`

	// Color is auto, always or never.
	Color ColorMode `yaml:"color"`

	// CLI-level options (not persisted to config files).

	// Update refreshes the tldr corpus before searching.
	Update bool `yaml:"-"`

	// CommandOnly prints only the command part of the selection.
	CommandOnly bool `yaml:"-"`

	// LogFile receives logs while the session owns the terminal.
	LogFile string `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		CorpusPath: DefaultCorpusPath(),
		Height:     DefaultHeight,
		Limit:      DefaultLimit,
		Extension:  corpus.DefaultExtension,
		TLDRURL:    tldr.DefaultURL,
		Platform:   tldr.DefaultPlatform(),
		Color:      ColorAuto,
	}
}

// DefaultCorpusPath returns $XDG_DATA_HOME/cheatfind, falling back to
// ~/.local/share/cheatfind. It returns "" when neither can be resolved.
func DefaultCorpusPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}
