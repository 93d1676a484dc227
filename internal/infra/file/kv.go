// Package file provides a file-backed key-value store, the local-device
// persistence used by the terminal client.
package file

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// KV stores each key as one JSON file under a directory.
type KV struct {
	dir string
}

func NewKV(dir string) *KV {
	return &KV{dir: dir}
}

func (s *KV) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (s *KV) Set(_ context.Context, key, value string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path(key), []byte(value), 0o644)
}

func (s *KV) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
