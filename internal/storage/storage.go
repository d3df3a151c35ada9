package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ErrNotFound is returned when a key does not exist in a Source.
var ErrNotFound = errors.New("storage: object not found")

// Source is a read-only key/value view over a set of bundled files.
type Source interface {
	Read(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
