//go:build cloudflare

// Cloudflare Workers entry point using syumai/workers.
// Exports are written to R2; websocket sessions are not available on Workers,
// so the present page is meant to be used with ?host=wasm.
package main

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/syumai/workers"
	"github.com/syumai/workers/cloudflare/queues"
	"go.uber.org/zap"

	"github.com/joeblew999/deckshow/handler"
	"github.com/joeblew999/deckshow/internal/config"
	"github.com/joeblew999/deckshow/internal/export"
	"github.com/joeblew999/deckshow/internal/logger"
	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/runtime"
)

// Bucket bindings from wrangler.toml
const (
	inputBinding = "DECKSHOW_INPUT"
	contentKey   = "content.yml"
)

func main() {
	cfg := config.DefaultConfig()
	log, err := logger.New(cfg.Log)
	if err != nil {
		log = zap.NewNop()
	}

	initRuntime(cfg, log)
	registry := loadRegistry(context.Background(), log)

	opts := handler.DefaultOptions()
	opts.Brand = cfg.Deck.Brand
	opts.Theme = cfg.Theme()
	opts.AllowAllOrigins = true
	h := handler.New(registry, runtime.Output(), opts, log.Named("http"))

	// Re-export every variant when a content file lands in the input bucket
	queues.ConsumeNonBlock(func(batch *queues.MessageBatch) error {
		return consumeQueue(batch, cfg, log)
	})

	workers.Serve(h.Router())
}

func initRuntime(cfg *config.Config, log *zap.Logger) {
	inputStorage, err := runtime.NewR2Storage(inputBinding)
	if err != nil {
		log.Warn("input bucket unavailable", zap.Error(err))
	}
	outputStorage, err := runtime.NewR2Storage(cfg.Export.Bucket)
	if err != nil {
		log.Warn("export bucket unavailable", zap.Error(err))
	}

	rt := &runtime.Runtime{}
	if inputStorage != nil {
		rt.InputStorage = inputStorage
	}
	if outputStorage != nil {
		rt.OutputStorage = outputStorage
	}
	runtime.SetRuntime(rt)
}

// loadRegistry reads content.yml from the input bucket, falling back to the built-in decks
func loadRegistry(ctx context.Context, log *zap.Logger) *slides.Registry {
	data, err := runtime.ReadAll(ctx, runtime.Input(), contentKey)
	if err != nil || len(data) == 0 {
		return slides.Builtin()
	}
	registry, err := slides.Load(bytes.NewReader(data))
	if err != nil {
		log.Warn("content file rejected, serving built-in decks", zap.Error(err))
		return slides.Builtin()
	}
	return registry
}

// consumeQueue handles R2 event notifications from the queue
func consumeQueue(batch *queues.MessageBatch, cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()
	for _, msg := range batch.Messages {
		body, err := msg.BytesBody()
		if err != nil {
			msg.Retry()
			continue
		}

		var event struct {
			Action string `json:"action"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		}
		if err := json.Unmarshal(body, &event); err != nil {
			msg.Retry()
			continue
		}
		if event.Object.Key != contentKey {
			msg.Ack()
			continue
		}

		data, err := runtime.ReadAll(ctx, runtime.Input(), event.Object.Key)
		if err != nil {
			msg.Retry()
			continue
		}
		registry, err := slides.Load(bytes.NewReader(data))
		if err != nil {
			// bad content is not retried
			log.Warn("content file rejected", zap.Error(err))
			msg.Ack()
			continue
		}

		exp := export.NewExporter(runtime.Output(), log.Named("export"), export.Options{Theme: cfg.Theme(), Brand: cfg.Deck.Brand})
		for _, name := range registry.Names() {
			v, _ := registry.Variant(name)
			exp.Export(ctx, v)
		}
		msg.Ack()
	}
	return nil
}
