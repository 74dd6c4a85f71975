// Package config loads deckshow settings from YAML and DECKSHOW_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/joeblew999/deckshow/pkg/theme"
)

// EnvPrefix prefixes environment overrides; "__" separates sections,
// e.g. DECKSHOW_SERVER__ADDR.
const EnvPrefix = "DECKSHOW_"

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8080",
			SessionTTL: 30 * time.Minute,
		},
		Deck: DeckConfig{
			DefaultVariant: "default",
			Brand:          "Deckshow",
			Theme:          "light",
			SettleDelay:    100 * time.Millisecond,
			NavigationHold: 300 * time.Millisecond,
			CanvasWidth:    1920,
			CanvasHeight:   1080,
		},
		Export: ExportConfig{
			OutputDir: "out",
			Storage:   StorageLocal,
			Bucket:    "DECKSHOW_EXPORTS",
		},
		Pipeline: PipelineConfig{
			BinDir: ".bin/deck",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the given YAML file, if it exists, then overlays
// environment variable overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validStorage = map[StorageKind]bool{
	StorageLocal:  true,
	StorageMemory: true,
	StorageR2:     true,
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive")
	}
	if c.Deck.DefaultVariant == "" {
		return fmt.Errorf("deck.default_variant is required")
	}
	if _, err := theme.Parse(c.Deck.Theme); err != nil {
		return fmt.Errorf("deck.theme: %w", err)
	}
	if c.Deck.SettleDelay <= 0 {
		return fmt.Errorf("deck.settle_delay must be positive")
	}
	if c.Deck.NavigationHold < 0 {
		return fmt.Errorf("deck.navigation_hold must be non-negative")
	}
	if c.Deck.CanvasWidth <= 0 || c.Deck.CanvasHeight <= 0 {
		return fmt.Errorf("deck canvas must be positive, got %gx%g", c.Deck.CanvasWidth, c.Deck.CanvasHeight)
	}
	if !validStorage[c.Export.Storage] {
		return fmt.Errorf("invalid export.storage %q: must be one of local, memory, r2", c.Export.Storage)
	}
	if c.Export.Storage == StorageLocal && c.Export.OutputDir == "" {
		return fmt.Errorf("export.output_dir is required for local storage")
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	return nil
}

// Theme returns the parsed starting theme
func (c *Config) Theme() theme.Theme {
	t, err := theme.Parse(c.Deck.Theme)
	if err != nil {
		return theme.Light
	}
	return t
}
