// Package sandbox runs the WASI build of deckshow (cmd/wasi) under wazero, so
// untrusted content files are turned into exports without touching the host.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/joeblew999/deckshow/pkg/theme"
)

// Runner holds a compiled module; each Run gets a fresh instance
type Runner struct {
	rt       wazero.Runtime
	compiled wazero.CompiledModule
	log      *zap.Logger
}

// New compiles module for repeated runs
func New(ctx context.Context, module []byte, log *zap.Logger) (*Runner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rt := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate wasi: %w", err)
	}
	compiled, err := rt.CompileModule(ctx, module)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("compile module: %w", err)
	}
	return &Runner{rt: rt, compiled: compiled, log: log}, nil
}

// Close releases the runtime and the compiled module
func (r *Runner) Close(ctx context.Context) error {
	return r.rt.Close(ctx)
}

// Run executes the module with args, stdin and env. A non-zero exit is an error
// carrying the module's stderr.
func (r *Runner) Run(ctx context.Context, stdin io.Reader, stdout io.Writer, env map[string]string, args ...string) error {
	var stderr bytes.Buffer
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithArgs(append([]string{"deckshow"}, args...)...).
		WithStdin(stdin).
		WithStdout(stdout).
		WithStderr(&stderr)
	for k, v := range env {
		cfg = cfg.WithEnv(k, v)
	}

	mod, err := r.rt.InstantiateModule(ctx, r.compiled, cfg)
	if mod != nil {
		defer mod.Close(ctx)
	}
	var exit *sys.ExitError
	if errors.As(err, &exit) && exit.ExitCode() == 0 {
		err = nil
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		r.log.Debug("module failed", zap.Strings("args", args), zap.String("stderr", msg), zap.Error(err))
		if msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}
	return nil
}

// PDF exports a variant of a YAML content file; an empty variant is the first one
func (r *Runner) PDF(ctx context.Context, content []byte, variant string, th theme.Theme) ([]byte, error) {
	return r.export(ctx, "pdf", content, variant, th)
}

// Markup converts a variant of a YAML content file to deck XML
func (r *Runner) Markup(ctx context.Context, content []byte, variant string, th theme.Theme) ([]byte, error) {
	return r.export(ctx, "markup", content, variant, th)
}

func (r *Runner) export(ctx context.Context, cmd string, content []byte, variant string, th theme.Theme) ([]byte, error) {
	args := []string{cmd}
	if variant != "" {
		args = append(args, variant)
	}
	env := map[string]string{"DECKSHOW_DECK__THEME": th.String()}
	var out bytes.Buffer
	if err := r.Run(ctx, bytes.NewReader(content), &out, env, args...); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
