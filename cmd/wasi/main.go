//go:build wasi || wasip1

// WASI entry point - for running in wazero or other WASI runtimes.
// Reads a YAML content file on stdin and writes the export to stdout.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/joeblew999/deckshow/handler"
	"github.com/joeblew999/deckshow/internal/config"
	"github.com/joeblew999/deckshow/internal/export"
	"github.com/joeblew999/deckshow/pkg/slides"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "pdf":
		err = doExport(os.Stdin, os.Stdout, export.WritePDF)
	case "markup":
		err = doExport(os.Stdin, os.Stdout, export.Markup)
	case "version":
		fmt.Printf("deckshow v%s (wasi)\n", handler.Version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: deckshow <command> [variant]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  pdf [variant]     Read YAML content from stdin, write the PDF export to stdout")
	fmt.Fprintln(os.Stderr, "  markup [variant]  Read YAML content from stdin, write deck XML to stdout")
	fmt.Fprintln(os.Stderr, "  version           Print version")
	fmt.Fprintln(os.Stderr, "  help              Print this help")
	fmt.Fprintln(os.Stderr, "Settings come from DECKSHOW_* variables, e.g. DECKSHOW_DECK__THEME=dark.")
}

// doExport builds the named variant, or the first one in the content, and writes it
func doExport(in io.Reader, out io.Writer, write func(io.Writer, *export.Document) error) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	registry, err := slides.Load(in)
	if err != nil {
		return err
	}
	v := registry.Default()
	if len(os.Args) > 2 {
		if v, err = registry.Variant(os.Args[2]); err != nil {
			return err
		}
	}

	doc, err := export.Build(v, export.Options{Theme: cfg.Theme(), Brand: cfg.Deck.Brand})
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	if err := write(w, doc); err != nil {
		return err
	}
	return w.Flush()
}
