//go:build !cloudflare

package runtime

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalFileStorage implements Storage on a directory of the local filesystem
type LocalFileStorage struct {
	baseDir string
}

// NewLocalFileStorage creates the base directory if needed
func NewLocalFileStorage(baseDir string) (*LocalFileStorage, error) {
	absPath, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, err
	}
	return &LocalFileStorage{baseDir: absPath}, nil
}

// FullPath returns the absolute path for key; keys escaping the base directory are invalid
func (s *LocalFileStorage) FullPath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(key, "/")))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fs.ErrInvalid
	}
	full := filepath.Join(s.baseDir, clean)
	if full != s.baseDir && !strings.HasPrefix(full, s.baseDir+string(filepath.Separator)) {
		return "", fs.ErrInvalid
	}
	return full, nil
}

func (s *LocalFileStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.FullPath(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, io.EOF
		}
		return nil, err
	}
	return file, nil
}

func (s *LocalFileStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	path, err := s.FullPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *LocalFileStorage) List(ctx context.Context, prefix string, delimiter string) (*ListResult, error) {
	var keys []string
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return nil
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return listKeys(keys, prefix, delimiter), nil
}

func (s *LocalFileStorage) Delete(ctx context.Context, key string) error {
	path, err := s.FullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
