// Package runtime holds the storage backends that exports and deck sources are written to
// and read from: the local filesystem, process memory and Cloudflare R2.
package runtime

import (
	"context"
	"fmt"
	"io"
)

// Storage abstracts blob storage (R2, local filesystem, memory)
type Storage interface {
	// Get returns io.EOF when the key does not exist
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	List(ctx context.Context, prefix string, delimiter string) (*ListResult, error)
	Delete(ctx context.Context, key string) error
}

// FilesystemStorage is implemented by backends that map keys to local paths
type FilesystemStorage interface {
	Storage
	FullPath(key string) (string, error)
}

// ListResult holds storage listing results
type ListResult struct {
	Keys              []string
	DelimitedPrefixes []string
}

// Runtime holds the storage of one deployment
type Runtime struct {
	// InputStorage holds decksh sources and content files
	InputStorage Storage
	// OutputStorage receives exported artifacts
	OutputStorage Storage
}

// Current is set by the platform entry point
var Current *Runtime

// SetRuntime sets the global runtime
func SetRuntime(r *Runtime) {
	Current = r
}

// Input returns the input storage
func Input() Storage {
	if Current == nil || Current.InputStorage == nil {
		return noopStorage{}
	}
	return Current.InputStorage
}

// Output returns the output storage
func Output() Storage {
	if Current == nil || Current.OutputStorage == nil {
		return noopStorage{}
	}
	return Current.OutputStorage
}

// ReadAll reads a whole object
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, error) {
	rc, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// noopStorage drops writes and finds nothing
type noopStorage struct{}

func (noopStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, io.EOF
}

func (noopStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return nil
}

func (noopStorage) List(ctx context.Context, prefix string, delimiter string) (*ListResult, error) {
	return &ListResult{}, nil
}

func (noopStorage) Delete(ctx context.Context, key string) error {
	return nil
}
