//go:build cloudflare

package runtime

import (
	"bytes"
	"context"
	"io"

	"github.com/syumai/workers/cloudflare/r2"
)

// R2Storage implements Storage on a Cloudflare R2 bucket binding
type R2Storage struct {
	bucket *r2.Bucket
}

// NewR2Storage binds the named bucket
func NewR2Storage(binding string) (*R2Storage, error) {
	bucket, err := r2.NewBucket(binding)
	if err != nil {
		return nil, err
	}
	return &R2Storage{bucket: bucket}, nil
}

func (s *R2Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.bucket.Get(key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, io.EOF
	}
	return io.NopCloser(obj.Body), nil
}

func (s *R2Storage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	opts := &r2.PutOptions{}
	if contentType != "" {
		opts.HTTPMetadata = r2.HTTPMetadata{ContentType: contentType}
	}
	_, err := s.bucket.Put(key, io.NopCloser(bytes.NewReader(data)), opts)
	return err
}

// List filters the bucket listing locally; the binding's List takes no options
func (s *R2Storage) List(ctx context.Context, prefix string, delimiter string) (*ListResult, error) {
	objects, err := s.bucket.List()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(objects.Objects))
	for _, obj := range objects.Objects {
		keys = append(keys, obj.Key)
	}
	return listKeys(keys, prefix, delimiter), nil
}

func (s *R2Storage) Delete(ctx context.Context, key string) error {
	return s.bucket.Delete(key)
}
