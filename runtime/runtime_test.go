//go:build !cloudflare

package runtime

import (
	"context"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Storage {
	local, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)
	return map[string]Storage{
		"local":  local,
		"memory": NewMemoryStorage(0),
	}
}

func TestStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "default/presentation.pdf", []byte("%PDF-1.4"), "application/pdf"))

			data, err := ReadAll(ctx, s, "default/presentation.pdf")
			require.NoError(t, err)
			assert.Equal(t, "%PDF-1.4", string(data))

			_, err = s.Get(ctx, "missing/presentation.pdf")
			assert.ErrorIs(t, err, io.EOF)

			require.NoError(t, s.Delete(ctx, "default/presentation.pdf"))
			require.NoError(t, s.Delete(ctx, "default/presentation.pdf"))
			_, err = s.Get(ctx, "default/presentation.pdf")
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestStorageList(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"default/presentation.pdf", "region/presentation.pdf", "region/thumbs/01.png", "notes.txt"} {
				require.NoError(t, s.Put(ctx, k, []byte(k), ""))
			}

			all, err := s.List(ctx, "", "")
			require.NoError(t, err)
			assert.Len(t, all.Keys, 4)

			top, err := s.List(ctx, "", "/")
			require.NoError(t, err)
			assert.Equal(t, []string{"notes.txt"}, top.Keys)
			assert.Equal(t, []string{"default/", "region/"}, top.DelimitedPrefixes)

			region, err := s.List(ctx, "region/", "/")
			require.NoError(t, err)
			assert.Equal(t, []string{"region/presentation.pdf"}, region.Keys)
			assert.Equal(t, []string{"region/thumbs/"}, region.DelimitedPrefixes)
		})
	}
}

func TestLocalFileStorageRejectsTraversal(t *testing.T) {
	s, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../escape.pdf", "a/../../escape.pdf", ".."} {
		_, err := s.FullPath(key)
		assert.ErrorIs(t, err, fs.ErrInvalid, key)
		assert.Error(t, s.Put(context.Background(), key, []byte("x"), ""), key)
	}

	p, err := s.FullPath("/default/presentation.pdf")
	require.NoError(t, err)
	assert.Contains(t, p, "default")
}

func TestMemoryStorageContentType(t *testing.T) {
	s := NewMemoryStorage(0)
	require.NoError(t, s.Put(context.Background(), "k", []byte("v"), "image/svg+xml"))
	ct, ok := s.ContentType("k")
	assert.True(t, ok)
	assert.Equal(t, "image/svg+xml", ct)
}

func TestUnsetRuntimeIsNoop(t *testing.T) {
	prev := Current
	t.Cleanup(func() { SetRuntime(prev) })
	SetRuntime(nil)

	ctx := context.Background()
	require.NoError(t, Output().Put(ctx, "k", []byte("v"), ""))
	_, err := Input().Get(ctx, "k")
	assert.ErrorIs(t, err, io.EOF)

	mem := NewMemoryStorage(0)
	SetRuntime(&Runtime{OutputStorage: mem})
	assert.Same(t, mem, Output())
}
