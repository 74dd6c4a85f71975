//go:build !js && !wasi

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joeblew999/deckshow/internal/export"
	"github.com/joeblew999/deckshow/internal/render"
	"github.com/joeblew999/deckshow/pkg/pipeline"
	"github.com/joeblew999/deckshow/pkg/theme"
)

var (
	renderOut   string
	renderMode  string
	renderTheme string
	markupOut   string
	thumbOut    string
	thumbFormat string
)

var renderCmd = &cobra.Command{
	Use:   "render [variant]",
	Short: "Render every slide of a variant as SVG",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()
		v, err := a.variant(args)
		if err != nil {
			return err
		}
		mode, err := render.ParseMode(renderMode)
		if err != nil {
			return err
		}
		th := a.cfg.Theme()
		if renderTheme != "" {
			if th, err = theme.Parse(renderTheme); err != nil {
				return err
			}
		}

		dir := renderOut
		if dir == "" {
			dir = filepath.Join(a.cfg.Export.OutputDir, v.Name(), "slides")
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}

		ctx := render.Context{Mode: mode, Theme: th, Index: v.IndexMap()}
		opts := render.Options{
			Width:   a.cfg.Deck.CanvasWidth,
			Height:  a.cfg.Deck.CanvasHeight,
			Brand:   a.cfg.Deck.Brand,
			Visible: true,
		}
		for i, s := range v.Slides() {
			var buf bytes.Buffer
			if err := render.Slide(&buf, ctx, s, opts); err != nil {
				return fmt.Errorf("slide %s: %w", s.ID, err)
			}
			name := filepath.Join(dir, fmt.Sprintf("%02d-%s.svg", i+1, s.ID))
			if err := os.WriteFile(name, buf.Bytes(), 0644); err != nil {
				return err
			}
		}
		a.log.Info("slides rendered",
			zap.String("variant", v.Name()),
			zap.Int("slides", v.Len()),
			zap.String("dir", dir),
			zap.Stringer("mode", mode),
			zap.Stringer("theme", th),
		)
		return nil
	},
}

var markupCmd = &cobra.Command{
	Use:   "markup [variant]",
	Short: "Write a variant as ajstarks deck XML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()
		v, err := a.variant(args)
		if err != nil {
			return err
		}
		doc, err := export.Build(v, export.Options{Theme: a.cfg.Theme(), Brand: a.cfg.Deck.Brand})
		if err != nil {
			return err
		}
		if markupOut == "" {
			return export.Markup(os.Stdout, doc)
		}
		f, err := os.Create(markupOut)
		if err != nil {
			return err
		}
		if err := export.Markup(f, doc); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails [variant]",
	Short: "Render a variant with the ajstarks deck renderers",
	Long: `Converts the variant to deck markup and renders it with svgdeck, pngdeck or
pdfdeck from pipeline.bin_dir. Without the binaries, SVG is drawn in process.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()
		v, err := a.variant(args)
		if err != nil {
			return err
		}
		format, ok := pipeline.ParseFormat(thumbFormat)
		if !ok {
			return fmt.Errorf("unknown format %q: must be svg, png or pdf", thumbFormat)
		}
		var p pipeline.Pipeline
		native, err := pipeline.NewNativePipeline(a.cfg.Pipeline.BinDir, a.cfg.Pipeline.FontDir)
		switch {
		case err == nil:
			p = native
		case format == pipeline.FormatSVG:
			a.log.Info("deck renderers not found, drawing in process", zap.Error(err))
			p = pipeline.NewInProcessPipeline(pipeline.DefaultFonts())
		default:
			return fmt.Errorf("initializing pipeline: %w", err)
		}

		doc, err := export.Build(v, export.Options{Theme: a.cfg.Theme(), Brand: a.cfg.Deck.Brand})
		if err != nil {
			return err
		}
		markup, err := export.MarkupBytes(doc)
		if err != nil {
			return err
		}
		res, err := p.Render(cmd.Context(), markup, format)
		if err != nil {
			return err
		}

		dir := thumbOut
		if dir == "" {
			dir = filepath.Join(a.cfg.Export.OutputDir, v.Name(), string(format))
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		for i, data := range res.Slides {
			name := fmt.Sprintf("slide-%02d.%s", i+1, format)
			if format == pipeline.FormatPDF {
				name = "deck.pdf"
			}
			if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
				return err
			}
		}
		a.log.Info("thumbnails rendered",
			zap.String("variant", v.Name()),
			zap.String("format", string(format)),
			zap.Int("files", len(res.Slides)),
			zap.String("dir", dir),
		)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output directory (default <output_dir>/<variant>/slides)")
	renderCmd.Flags().StringVar(&renderMode, "mode", "interactive", "view mode: interactive or print")
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "theme: light or dark (default deck.theme)")
	markupCmd.Flags().StringVarP(&markupOut, "out", "o", "", "output file (default stdout)")
	thumbnailsCmd.Flags().StringVarP(&thumbOut, "out", "o", "", "output directory (default <output_dir>/<variant>/<format>)")
	thumbnailsCmd.Flags().StringVarP(&thumbFormat, "format", "f", "png", "output format: svg, png or pdf")
	rootCmd.AddCommand(renderCmd, markupCmd, thumbnailsCmd)
}
