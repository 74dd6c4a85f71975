package runtime

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStorage keeps objects in process memory, optionally expiring them
type MemoryStorage struct {
	items *cache.Cache
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryStorage creates a memory store; a ttl of 0 keeps objects until deleted
func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &MemoryStorage{items: cache.New(ttl, time.Minute)}
}

func (s *MemoryStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, io.EOF
	}
	return io.NopCloser(bytes.NewReader(v.(memoryObject).data)), nil
}

// ContentType returns the content type key was stored with
func (s *MemoryStorage) ContentType(key string) (string, bool) {
	v, ok := s.items.Get(key)
	if !ok {
		return "", false
	}
	return v.(memoryObject).contentType, true
}

func (s *MemoryStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.items.SetDefault(key, memoryObject{data: bytes.Clone(data), contentType: contentType})
	return nil
}

func (s *MemoryStorage) List(ctx context.Context, prefix string, delimiter string) (*ListResult, error) {
	items := s.items.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	return listKeys(keys, prefix, delimiter), nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	s.items.Delete(key)
	return nil
}
