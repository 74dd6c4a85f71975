//go:build !js && !wasi

// Sandbox host: converts posted content files with the WASI build running in wazero.
// Build the module with GOOS=wasip1 GOARCH=wasm go build -o deckshow.wasm ./cmd/wasi
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joeblew999/deckshow/internal/config"
	"github.com/joeblew999/deckshow/internal/logger"
	"github.com/joeblew999/deckshow/internal/sandbox"
	"github.com/joeblew999/deckshow/pkg/theme"
)

// maxContent bounds a posted content file
const maxContent = 4 << 20

var (
	addr       string
	modulePath string
)

var rootCmd = &cobra.Command{
	Use:          "deckshow-sandbox",
	Short:        "Convert content files inside a wazero sandbox",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", ":8081", "listen address")
	rootCmd.Flags().StringVar(&modulePath, "module", "deckshow.wasm", "WASI build of deckshow")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log, err := logger.New(config.DefaultConfig().Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	module, err := os.ReadFile(modulePath)
	if err != nil {
		return fmt.Errorf("reading module: %w", err)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := sandbox.New(ctx, module, log.Named("sandbox"))
	if err != nil {
		return err
	}
	defer runner.Close(context.Background())

	s := &server{runner: runner, log: log}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("sandbox host starting", zap.String("addr", addr), zap.String("module", modulePath))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type server struct {
	runner *sandbox.Runner
	log    *zap.Logger
}

func (s *server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "runtime": "wazero"})
	})
	r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "deckshow-sandbox",
			"runtime":   "wazero",
			"endpoints": []string{"/health", "/convert"},
			"formats":   []string{"pdf", "markup"},
		})
	})
	r.Post("/convert", s.handleConvert)
	return r
}

// handleConvert takes a YAML content file and returns one variant as PDF or deck XML
func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	th := theme.Light
	if q.Get("theme") != "" {
		parsed, err := theme.Parse(q.Get("theme"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		th = parsed
	}
	content, err := io.ReadAll(io.LimitReader(r.Body, maxContent))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var out []byte
	contentType := "application/pdf"
	switch q.Get("format") {
	case "", "pdf":
		out, err = s.runner.PDF(r.Context(), content, q.Get("variant"), th)
	case "markup":
		contentType = "application/xml"
		out, err = s.runner.Markup(r.Context(), content, q.Get("variant"), th)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be one of: pdf, markup"})
		return
	}
	if err != nil {
		s.log.Warn("conversion failed", zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(out)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
