// Package config loads flashdeck settings from defaults, an optional YAML
// file, FLASHDECK_* environment variables and command-line flags, in that
// order of precedence.
package config

import (
	"time"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/gesture"
)

// Config holds all application configuration.
type Config struct {
	DB            DBConfig            `koanf:"db"`
	HTTP          HTTPConfig          `koanf:"http"`
	Log           LogConfig           `koanf:"log"`
	Study         StudyConfig         `koanf:"study"`
	Haptics       HapticsConfig       `koanf:"haptics"`
	Accessibility AccessibilityConfig `koanf:"accessibility"`
	Import        ImportConfig        `koanf:"import"`
}

type DBConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type HTTPConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"required,oneof=text json"`
}

type StudyConfig struct {
	SessionSeconds  int           `koanf:"session_seconds" validate:"gt=0"`
	TickInterval    time.Duration `koanf:"tick_interval" validate:"gt=0"`
	ReuseWrongCards bool          `koanf:"reuse_wrong_cards"`
}

// HapticsConfig reports whether the host can play haptics.
type HapticsConfig struct {
	Enabled bool `koanf:"enabled"`
}

type AccessibilityConfig struct {
	DifferentiateWithoutColor bool `koanf:"differentiate_without_color"`
	ScreenReader              bool `koanf:"screen_reader"`
}

type ImportConfig struct {
	ReposDir string `koanf:"repos_dir" validate:"required"`
}

// Settings returns the initial study settings.
func (c *Config) Settings() domain.Settings {
	return domain.Settings{ReuseWrongCards: c.Study.ReuseWrongCards}
}

// AccessibilityModes returns the accessibility flags for the render layer.
func (c *Config) AccessibilityModes() gesture.Accessibility {
	return gesture.Accessibility{
		DifferentiateWithoutColor: c.Accessibility.DifferentiateWithoutColor,
		ScreenReader:              c.Accessibility.ScreenReader,
	}
}
