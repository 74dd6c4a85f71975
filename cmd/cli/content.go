//go:build !js && !wasi

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joeblew999/deckshow/pkg/pipeline"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/runtime"
)

var (
	contentOut string
	importOut  string
	importName string
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Dump the deck variants as a YAML content file",
	Long: `Writes every variant in the registry (deck.content, or the built-in decks) as
YAML. The output is a starting point for a custom content file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()
		if contentOut == "" {
			return a.registry.Dump(os.Stdout)
		}
		return a.registry.Save(contentOut)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.dsh>",
	Short: "Convert a decksh program into a YAML content file",
	Long: `Expands the imports and includes of a decksh program relative to its directory,
compiles it with decksh and converts each deck slide into a deck slide record.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		source, err := os.ReadFile(abs)
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		if pipeline.HasImports(source) {
			store, err := runtime.NewLocalFileStorage(filepath.Dir(abs))
			if err != nil {
				return err
			}
			resolver := pipeline.NewImportResolver(pipeline.StorageLoader(store), "")
			if source, err = resolver.Expand(cmd.Context(), source, filepath.Base(abs)); err != nil {
				return err
			}
			a.log.Debug("imports expanded", zap.Strings("functions", resolver.Functions()))
		}

		name := importName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
		}
		v, err := slides.ImportDecksh(name, source)
		if err != nil {
			return err
		}
		reg, err := slides.NewRegistry(v)
		if err != nil {
			return err
		}
		a.log.Info("deck imported", zap.String("variant", v.Name()), zap.Int("slides", v.Len()))
		if importOut == "" {
			return reg.Dump(os.Stdout)
		}
		return reg.Save(importOut)
	},
}

func init() {
	contentCmd.Flags().StringVarP(&contentOut, "out", "o", "", "output file (default stdout)")
	importCmd.Flags().StringVarP(&importOut, "out", "o", "", "output file (default stdout)")
	importCmd.Flags().StringVar(&importName, "name", "", "variant name (default the file name)")
	rootCmd.AddCommand(contentCmd, importCmd)
}
