//go:build !js && !wasi

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joeblew999/deckshow/handler"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve decks over HTTP",
	Long: `Starts the deck server: slide SVGs, the interactive and print pages, PDF export
and websocket sessions driving a live deck.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		store, err := a.storage()
		if err != nil {
			return err
		}
		addr := a.cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		opts := handler.Options{
			Brand:           a.cfg.Deck.Brand,
			Theme:           a.cfg.Theme(),
			Width:           a.cfg.Deck.CanvasWidth,
			Height:          a.cfg.Deck.CanvasHeight,
			SettleDelay:     a.cfg.Deck.SettleDelay,
			NavigationHold:  a.cfg.Deck.NavigationHold,
			SessionTTL:      a.cfg.Server.SessionTTL,
			AllowAllOrigins: a.cfg.Server.AllowAllOrigins,
			AssetDir:        a.cfg.Server.AssetDir,
		}
		h := handler.New(a.registry, store, opts, a.log.Named("http"))

		srv := &http.Server{
			Addr:              addr,
			Handler:           h.Router(),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			a.log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		a.log.Info("deckshow server starting",
			zap.String("addr", addr),
			zap.Strings("variants", a.registry.Names()),
			zap.String("storage", string(a.cfg.Export.Storage)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
