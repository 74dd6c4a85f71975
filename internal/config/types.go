package config

import "time"

// StorageKind selects the export destination
type StorageKind string

const (
	StorageLocal  StorageKind = "local"
	StorageMemory StorageKind = "memory"
	StorageR2     StorageKind = "r2"
)

// Config is the top-level deckshow configuration, corresponding to deckshow.yml.
type Config struct {
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Deck     DeckConfig     `yaml:"deck" koanf:"deck"`
	Export   ExportConfig   `yaml:"export" koanf:"export"`
	Pipeline PipelineConfig `yaml:"pipeline" koanf:"pipeline"`
	Log      LogConfig      `yaml:"log" koanf:"log"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr" koanf:"addr"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	SessionTTL      time.Duration `yaml:"session_ttl" koanf:"session_ttl"`
	// AssetDir serves the browser host (deckshow.wasm, wasm_exec.js); empty disables it
	AssetDir string `yaml:"asset_dir" koanf:"asset_dir"`
}

// DeckConfig holds the deck content and timing settings.
type DeckConfig struct {
	// Content is a YAML content file; empty uses the built-in variants
	Content        string        `yaml:"content" koanf:"content"`
	DefaultVariant string        `yaml:"default_variant" koanf:"default_variant"`
	Brand          string        `yaml:"brand" koanf:"brand"`
	Theme          string        `yaml:"theme" koanf:"theme"`
	SettleDelay    time.Duration `yaml:"settle_delay" koanf:"settle_delay"`
	NavigationHold time.Duration `yaml:"navigation_hold" koanf:"navigation_hold"`
	CanvasWidth    float64       `yaml:"canvas_width" koanf:"canvas_width"`
	CanvasHeight   float64       `yaml:"canvas_height" koanf:"canvas_height"`
}

// ExportConfig holds the export destination.
type ExportConfig struct {
	OutputDir string      `yaml:"output_dir" koanf:"output_dir"`
	Storage   StorageKind `yaml:"storage" koanf:"storage"`
	// Bucket is the R2 binding name
	Bucket string `yaml:"bucket" koanf:"bucket"`
}

// PipelineConfig locates the ajstarks renderer binaries.
type PipelineConfig struct {
	BinDir  string `yaml:"bin_dir" koanf:"bin_dir"`
	FontDir string `yaml:"font_dir" koanf:"font_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	JSON  bool   `yaml:"json" koanf:"json"`
	// File enables a rotating log file next to the console output
	File string `yaml:"file" koanf:"file"`
}
