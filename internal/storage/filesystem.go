package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore reads assets from a directory on the local filesystem. It is used
// when operators override the bundled helmets with their own artwork.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath. The directory must
// already exist.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: stat base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: %s is not a directory", basePath)
	}
	return &FileStore{basePath: basePath}, nil
}

// Read returns the contents stored under key. Keys are cleaned to prevent
// directory traversal.
func (s *FileStore) Read(ctx context.Context, key string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, cleanKey)
		}
		return nil, fmt.Errorf("storage: read file: %w", err)
	}
	return data, nil
}

// List returns the regular files directly under the base path.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: read dir: %w", err)
	}
	var keys []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			keys = append(keys, entry.Name())
		}
	}
	sort.Strings(keys)
	return keys, nil
}

var _ Source = (*FileStore)(nil)
