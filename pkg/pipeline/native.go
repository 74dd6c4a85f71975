//go:build !js && !tinygo

package pipeline

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ajstarks/deck"
)

// NativePipeline pipes decks through ajstarks' binaries (decksh, svgdeck, pngdeck, pdfdeck)
type NativePipeline struct {
	deckshBin string
	renderers map[OutputFormat]string
	fontDir   string
}

// NewNativePipeline looks for the binaries in binDir (default .bin/deck) and fonts in
// fontDir (default $DECKFONTS, then .src/deckfonts)
func NewNativePipeline(binDir, fontDir string) (*NativePipeline, error) {
	if binDir == "" {
		binDir = ".bin/deck"
	}
	absBinDir, err := filepath.Abs(binDir)
	if err != nil {
		return nil, fmt.Errorf("resolve bin dir: %w", err)
	}
	if fontDir == "" {
		fontDir = os.Getenv("DECKFONTS")
	}
	if fontDir == "" {
		fontDir = ".src/deckfonts"
	}
	absFontDir, err := filepath.Abs(fontDir)
	if err != nil {
		return nil, fmt.Errorf("resolve font dir: %w", err)
	}

	p := &NativePipeline{
		deckshBin: filepath.Join(absBinDir, "decksh"),
		renderers: map[OutputFormat]string{
			FormatSVG: filepath.Join(absBinDir, "svgdeck"),
			FormatPNG: filepath.Join(absBinDir, "pngdeck"),
			FormatPDF: filepath.Join(absBinDir, "pdfdeck"),
		},
		fontDir: absFontDir,
	}
	if len(p.SupportedFormats()) == 0 {
		return nil, fmt.Errorf("no deck renderers found in %s", absBinDir)
	}
	return p, nil
}

// Process compiles decksh source from stdin; imports must already be expanded
func (p *NativePipeline) Process(ctx context.Context, source []byte, format OutputFormat) (*Result, error) {
	return p.ProcessWithWorkDir(ctx, source, format, "")
}

// ProcessWithWorkDir compiles source inside workDir so decksh resolves imports and
// assets relative to it
func (p *NativePipeline) ProcessWithWorkDir(ctx context.Context, source []byte, format OutputFormat, workDir string) (*Result, error) {
	if _, err := os.Stat(p.deckshBin); err != nil {
		return nil, fmt.Errorf("decksh binary not found at %s: %w", p.deckshBin, err)
	}
	if workDir != "" {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return nil, fmt.Errorf("resolve work dir: %w", err)
		}
		workDir = abs
	}
	markup, err := p.decksh(ctx, source, workDir)
	if err != nil {
		return nil, err
	}
	return p.render(ctx, markup, format, workDir)
}

// ProcessFile compiles a decksh file, resolving imports next to it
func (p *NativePipeline) ProcessFile(ctx context.Context, filePath string, format OutputFormat) (*Result, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	return p.ProcessWithWorkDir(ctx, source, format, filepath.Dir(filePath))
}

// Render renders deck XML markup
func (p *NativePipeline) Render(ctx context.Context, markup []byte, format OutputFormat) (*Result, error) {
	return p.render(ctx, markup, format, "")
}

// SupportedFormats lists the formats whose renderer binary is present
func (p *NativePipeline) SupportedFormats() []OutputFormat {
	var formats []OutputFormat
	for _, f := range []OutputFormat{FormatSVG, FormatPNG, FormatPDF} {
		if _, err := os.Stat(p.renderers[f]); err == nil {
			formats = append(formats, f)
		}
	}
	return formats
}

func (p *NativePipeline) env() []string {
	binDir := filepath.Dir(p.deckshBin)
	// dchart and friends are looked up on PATH
	if path := os.Getenv("PATH"); path != "" {
		return append(os.Environ(), fmt.Sprintf("PATH=%s%c%s", binDir, os.PathListSeparator, path))
	}
	return append(os.Environ(), "PATH="+binDir)
}

// decksh compiles source to deck XML, from a file in workDir when set
func (p *NativePipeline) decksh(ctx context.Context, source []byte, workDir string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, p.deckshBin)
	if workDir != "" {
		f, err := os.CreateTemp(workDir, "input-*.dsh")
		if err != nil {
			return nil, fmt.Errorf("write source file: %w", err)
		}
		defer os.Remove(f.Name())
		if _, err := f.Write(source); err != nil {
			f.Close()
			return nil, fmt.Errorf("write source file: %w", err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("write source file: %w", err)
		}
		cmd = exec.CommandContext(ctx, p.deckshBin, f.Name())
		cmd.Dir = workDir
	} else {
		cmd.Stdin = bytes.NewReader(source)
	}
	cmd.Env = p.env()

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("decksh failed: %w\nstderr: %s", err, stderr.String())
	}
	return out.Bytes(), nil
}

func (p *NativePipeline) render(ctx context.Context, markup []byte, format OutputFormat, assetDir string) (*Result, error) {
	bin, ok := p.renderers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if _, err := os.Stat(bin); err != nil {
		return nil, fmt.Errorf("%s renderer not found at %s: %w", format, bin, err)
	}

	var d deck.Deck
	if err := xml.Unmarshal(markup, &d); err != nil {
		return nil, fmt.Errorf("parse deck XML: %w", err)
	}
	count := len(d.Slide)
	if count == 0 {
		return nil, fmt.Errorf("deck has no slides")
	}

	tmpDir, err := os.MkdirTemp("", "deckshow-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	xmlFile := filepath.Join(tmpDir, "deck.xml")
	if err := os.WriteFile(xmlFile, markup, 0644); err != nil {
		return nil, fmt.Errorf("write deck XML: %w", err)
	}

	run := func(pages string, fonts bool) error {
		args := []string{"-pages", pages}
		if fonts {
			args = append(args, "-fontdir", p.fontDir)
		}
		args = append(args, "-outdir", tmpDir, xmlFile)
		cmd := exec.CommandContext(ctx, bin, args...)
		if assetDir != "" {
			cmd.Dir = assetDir
		}
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s failed on pages %s: %w\nstderr: %s", format, pages, err, stderr.String())
		}
		return nil
	}

	result := &Result{Format: format, Title: d.Title, SlideCount: count}

	// pdfdeck writes every page into one document
	if format == FormatPDF {
		if err := run(fmt.Sprintf("1-%d", count), true); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(tmpDir, "deck.pdf"))
		if err != nil {
			return nil, fmt.Errorf("read generated pdf: %w", err)
		}
		result.Slides = [][]byte{data}
		return result, nil
	}

	result.Slides = make([][]byte, count)
	for i := range count {
		page := i + 1
		if err := run(fmt.Sprintf("%d-%d", page, page), format == FormatPNG); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(tmpDir, fmt.Sprintf("deck-%05d.%s", page, format)))
		if err != nil {
			return nil, fmt.Errorf("read generated %s for slide %d: %w", format, page, err)
		}
		result.Slides[i] = data
	}
	return result, nil
}
