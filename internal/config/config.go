// Package config loads settings from, in increasing priority, a YAML file,
// LSATPREP_* environment variables and command-line flags. Flag defaults
// fill in anything no other layer set.
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

const envPrefix = "LSATPREP_"

// Config is the application configuration.
type Config struct {
	HTTP    HTTP     `koanf:"http"`
	DB      DB       `koanf:"db"`
	Deck    Deck     `koanf:"deck"`
	Repos   Repos    `koanf:"repos"`
	Log     Log      `koanf:"log"`
	Sources []string `koanf:"sources" validate:"dive,required"`
}

type HTTP struct {
	Addr string `koanf:"addr" validate:"required"`
}

type DB struct {
	Path string `koanf:"path" validate:"required"`
}

type Deck struct {
	Key  string `koanf:"key" validate:"required"`
	Seed bool   `koanf:"seed"`
}

type Repos struct {
	Dir string `koanf:"dir" validate:"required"`
}

type Log struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"http-addr":  "http.addr",
	"db":         "db.path",
	"deck-key":   "deck.key",
	"seed":       "deck.seed",
	"repos-dir":  "repos.dir",
	"source":     "sources",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// RegisterFlags adds the configuration flags, with their defaults, to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a YAML config file")
	fs.String("http-addr", ":8080", "HTTP listen address")
	fs.String("db", "lsatprep.db", "Path to the SQLite database file")
	fs.String("deck-key", "ls.flashcards.deck", "Key of the deck to study")
	fs.Bool("seed", true, "Load the sample deck when the stored deck is empty")
	fs.String("repos-dir", "repos", "Directory for cloned git card sources")
	fs.StringSlice("source", nil, "Card source: a local directory or git URL (repeatable)")
	fs.String("log-level", "info", "Log level: debug, info, warn, error")
	fs.String("log-format", "text", "Log format: text or json")
}

// Load builds the configuration from the file named by --config, the
// environment and fs, then validates it.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	flags := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	})
	if err := k.Load(flags, nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey turns LSATPREP_HTTP_ADDR into http.addr and splits the
// comma-separated source list.
func envKey(name, value string) (string, interface{}) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, envPrefix)), "_", ".")
	if key == "sources" {
		var sources []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sources = append(sources, s)
			}
		}
		return key, sources
	}
	return key, value
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
