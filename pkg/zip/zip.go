package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

type Asset struct {
	Filename string
	Data     []byte
	Modified time.Time
}

// ArchiveAssets packs assets into an in-memory zip archive.
func ArchiveAssets(assets []Asset) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, asset := range assets {
		header := &zip.FileHeader{
			Name:     asset.Filename,
			Method:   zip.Store,
			Modified: asset.Modified,
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", asset.Filename, err)
		}
		if _, err := w.Write(asset.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", asset.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close: %w", err)
	}
	return buf.Bytes(), nil
}
