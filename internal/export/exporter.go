package export

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/joeblew999/deckshow/pkg/slides"
	"github.com/joeblew999/deckshow/runtime"
)

// ArtifactName is the file name of every exported deck
const ArtifactName = "presentation.pdf"

// ArtifactKey is the storage key an export of variant is written to
func ArtifactKey(variant string) string {
	return path.Join(variant, ArtifactName)
}

// Artifact describes a written export
type Artifact struct {
	Key   string
	Pages int
	Size  int
}

// Exporter writes PDF exports to storage
type Exporter struct {
	store   runtime.Storage
	log     *zap.Logger
	builder *Builder
	opts    Options
}

// NewExporter creates an exporter writing to store
func NewExporter(store runtime.Storage, log *zap.Logger, opts Options) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{store: store, log: log, builder: NewBuilder(), opts: opts}
}

// Export builds and writes v with the exporter's options
func (e *Exporter) Export(ctx context.Context, v *slides.Variant) *Artifact {
	return e.ExportWith(ctx, v, e.opts)
}

// ExportWith builds and writes v. It never fails: any error or panic is logged and
// reported as a nil artifact, and nothing is written.
func (e *Exporter) ExportWith(ctx context.Context, v *slides.Variant, opts Options) (art *Artifact) {
	log := e.log.With(zap.String("variant", v.Name()))
	defer func() {
		if r := recover(); r != nil {
			log.Error("export panicked", zap.Any("panic", r))
			art = nil
		}
	}()

	art, err := e.export(ctx, v, opts)
	if err != nil {
		log.Error("export failed", zap.Error(err))
		return nil
	}
	log.Info("export written",
		zap.String("key", art.Key),
		zap.Int("pages", art.Pages),
		zap.Int("bytes", art.Size),
	)
	return art
}

func (e *Exporter) export(ctx context.Context, v *slides.Variant, opts Options) (*Artifact, error) {
	doc, err := e.builder.Build(v, opts)
	if err != nil {
		return nil, fmt.Errorf("build document: %w", err)
	}
	var buf bytes.Buffer
	if err := WritePDF(&buf, doc); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	key := ArtifactKey(v.Name())
	if err := e.store.Put(ctx, key, buf.Bytes(), "application/pdf"); err != nil {
		return nil, fmt.Errorf("store %s: %w", key, err)
	}
	return &Artifact{Key: key, Pages: len(doc.Pages), Size: buf.Len()}, nil
}
