package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment overrides. Nested keys are joined
// with a double underscore: FLASHDECK_STUDY__SESSION_SECONDS.
const EnvPrefix = "FLASHDECK_"

var defaults = map[string]interface{}{
	"db.path":                 "flashdeck.db",
	"http.addr":               "127.0.0.1:8080",
	"log.level":               "info",
	"log.format":              "text",
	"study.session_seconds":   100,
	"study.tick_interval":     "1s",
	"study.reuse_wrong_cards": false,
	"haptics.enabled":         true,
	"accessibility.differentiate_without_color": false,
	"accessibility.screen_reader":               false,
	"import.repos_dir":                          "repos",
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"db":                          "db.path",
	"addr":                        "http.addr",
	"log-level":                   "log.level",
	"log-format":                  "log.format",
	"session-seconds":             "study.session_seconds",
	"reuse-wrong-cards":           "study.reuse_wrong_cards",
	"haptics":                     "haptics.enabled",
	"differentiate-without-color": "accessibility.differentiate_without_color",
	"screen-reader":               "accessibility.screen_reader",
	"repos-dir":                   "import.repos_dir",
}

// RegisterFlags adds the config flags to fs. Flags that are not set on the
// command line do not override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a YAML config file")
	fs.String("db", "", "Path to the SQLite database file")
	fs.String("addr", "", "HTTP listen address")
	fs.String("log-level", "", "Log level: debug, info, warn or error")
	fs.String("log-format", "", "Log format: text or json")
	fs.Int("session-seconds", 0, "Length of a review session in seconds")
	fs.Bool("reuse-wrong-cards", false, "Requeue incorrectly answered cards")
	fs.Bool("haptics", true, "Play haptic feedback")
	fs.Bool("differentiate-without-color", false, "Do not use color as the only signal of state")
	fs.Bool("screen-reader", false, "Render for a screen reader")
	fs.String("repos-dir", "", "Directory git deck sources are cloned into")
}

// Load builds the configuration. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if fs != nil {
		if path, _ := fs.GetString("config"); path != "" {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// envKey turns FLASHDECK_STUDY__SESSION_SECONDS into study.session_seconds.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
