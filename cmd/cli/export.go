//go:build !js && !wasi

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joeblew999/deckshow/internal/config"
	"github.com/joeblew999/deckshow/internal/export"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/pkg/theme"
)

var (
	exportAll   bool
	exportTheme string
)

var exportCmd = &cobra.Command{
	Use:   "export [variant...]",
	Short: "Write PDF exports to the configured storage",
	Long: `Builds each variant as a landscape PDF, one page per slide, and writes it to
<variant>/presentation.pdf in the export storage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()
		if a.cfg.Export.Storage == config.StorageMemory {
			return errors.New("export.storage is memory; exports would not outlive the command")
		}
		store, err := a.storage()
		if err != nil {
			return err
		}
		th := a.cfg.Theme()
		if exportTheme != "" {
			if th, err = theme.Parse(exportTheme); err != nil {
				return err
			}
		}

		names := args
		switch {
		case exportAll:
			names = a.registry.Names()
		case len(names) == 0:
			names = []string{a.cfg.Deck.DefaultVariant}
		}
		variants := make([]*slides.Variant, 0, len(names))
		for _, name := range names {
			v, err := a.registry.Variant(name)
			if err != nil {
				return err
			}
			variants = append(variants, v)
		}

		exp := export.NewExporter(store, a.log.Named("export"), export.Options{Theme: th, Brand: a.cfg.Deck.Brand})
		failed := 0
		for _, v := range variants {
			art := exp.Export(cmd.Context(), v)
			if art == nil {
				failed++
				continue
			}
			fmt.Printf("%s\t%d pages\t%d bytes\n", art.Key, art.Pages, art.Size)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d exports failed", failed, len(variants))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "export every variant")
	exportCmd.Flags().StringVar(&exportTheme, "theme", "", "theme: light or dark (default deck.theme)")
	rootCmd.AddCommand(exportCmd)
}
