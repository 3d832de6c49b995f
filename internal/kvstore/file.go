// internal/kvstore/file.go
package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps one file per key under a data directory. This is the
// default backend: it matches the single-owner model (one process per data
// directory) and survives restarts.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0775); err != nil {
		return nil, fmt.Errorf("creating data directory %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", f.path(key), err)
	}
	return string(data), true, nil
}

func (f *FileStore) Set(ctx context.Context, key, value string) error {
	// Write-then-rename so a crash mid-write never leaves a truncated record.
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0664); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", f.path(key), err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
