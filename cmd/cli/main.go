//go:build !js && !wasi

// Native CLI: serves decks, renders slides and writes exports
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joeblew999/deckshow/handler"
	"github.com/joeblew999/deckshow/internal/config"
	"github.com/joeblew999/deckshow/internal/logger"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/runtime"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "deckshow",
	Short: "Render, present and export slide decks",
	Long: `deckshow renders deck variants as SVG slides, serves them as an interactive
scroll-snapped presentation with print and PDF export, and converts decks to
and from ajstarks deck markup.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("deckshow v%s (native)\n", handler.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "deckshow.yml", "config file path")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is what every command starts from
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	registry *slides.Registry
}

func setup() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	registry, err := loadRegistry(cfg.Deck.Content)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, registry: registry}, nil
}

func loadRegistry(content string) (*slides.Registry, error) {
	if content == "" {
		return slides.Builtin(), nil
	}
	return slides.LoadFile(content)
}

// variant resolves a name argument, falling back to the configured default
func (a *app) variant(args []string) (*slides.Variant, error) {
	name := a.cfg.Deck.DefaultVariant
	if len(args) > 0 {
		name = args[0]
	}
	return a.registry.Variant(name)
}

// storage opens the configured export destination
func (a *app) storage() (runtime.Storage, error) {
	switch a.cfg.Export.Storage {
	case config.StorageMemory:
		return runtime.NewMemoryStorage(0), nil
	case config.StorageLocal:
		return runtime.NewLocalFileStorage(a.cfg.Export.OutputDir)
	}
	return nil, fmt.Errorf("export storage %q is only available in the workers build", a.cfg.Export.Storage)
}
