package storage

import (
	"context"
	"os"
	"path/filepath"
)

// LocalStore writes objects under a base directory on local disk.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

func (s *LocalStore) Save(
	_ context.Context,
	key string,
	_ string,
	data []byte,
) (string, error) {

	path := filepath.Join(s.baseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	return filepath.ToSlash(path), nil
}

var _ Store = (*LocalStore)(nil)
