package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
)

// FSStore serves assets from an fs.FS, typically an embed.FS compiled into
// the binary.
type FSStore struct {
	fsys fs.FS
}

func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

func (s *FSStore) Read(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.fsys == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	data, err := fs.ReadFile(s.fsys, cleanKey)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, cleanKey)
		}
		return nil, fmt.Errorf("storage: read embedded file: %w", err)
	}
	return data, nil
}

func (s *FSStore) List(ctx context.Context) ([]string, error) {
	if s == nil || s.fsys == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("storage: read embedded dir: %w", err)
	}
	var keys []string
	for _, entry := range entries {
		if !entry.IsDir() {
			keys = append(keys, entry.Name())
		}
	}
	sort.Strings(keys)
	return keys, nil
}

var _ Source = (*FSStore)(nil)
