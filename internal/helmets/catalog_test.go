package helmets

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"bubblehead/internal/domain"
	"bubblehead/internal/storage"
)

func newTestCatalog() *Catalog {
	return NewCatalog(storage.NewFSStore(fstest.MapFS{
		"gold.png":        {Data: []byte("gold")},
		"helmet.png":      {Data: []byte("default")},
		"space-cadet.jpg": {Data: []byte("cadet")},
		"empty.png":       {Data: nil},
		"README.md":       {Data: []byte("notes")},
	}), "")
}

func TestCatalogResolve(t *testing.T) {
	catalog := newTestCatalog()
	tests := []struct {
		name     string
		style    string
		wantFile string
		wantData string
		wantMIME string
		wantErr  error
	}{
		{name: "default", style: "", wantFile: "helmet.png", wantData: "default", wantMIME: "image/png"},
		{name: "by id", style: "gold", wantFile: "gold.png", wantData: "gold", wantMIME: "image/png"},
		{name: "by file name", style: "gold.png", wantFile: "gold.png", wantData: "gold", wantMIME: "image/png"},
		{name: "jpeg", style: "space-cadet.jpg", wantFile: "space-cadet.jpg", wantData: "cadet", wantMIME: "image/jpeg"},
		{name: "unknown", style: "viking", wantErr: domain.ErrHelmetNotFound},
		{name: "traversal", style: "../../etc/passwd", wantErr: domain.ErrHelmetNotFound},
		{name: "empty file", style: "empty", wantErr: domain.ErrHelmetNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			helmet, err := catalog.Resolve(context.Background(), tc.style)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Resolve(%q) err = %v, want %v", tc.style, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tc.style, err)
			}
			if helmet.File != tc.wantFile || string(helmet.Data) != tc.wantData || helmet.MIMEType != tc.wantMIME {
				t.Fatalf("Resolve(%q) = %+v", tc.style, helmet)
			}
		})
	}
}

func TestCatalogStylesDefaultFirst(t *testing.T) {
	styles, err := newTestCatalog().Styles(context.Background())
	if err != nil {
		t.Fatalf("Styles error: %v", err)
	}
	want := []Style{
		{ID: "helmet", Label: "Helmet", File: "helmet.png"},
		{ID: "empty", Label: "Empty", File: "empty.png"},
		{ID: "gold", Label: "Gold", File: "gold.png"},
		{ID: "space-cadet", Label: "Space Cadet", File: "space-cadet.jpg"},
	}
	if len(styles) != len(want) {
		t.Fatalf("Styles = %+v", styles)
	}
	for i := range want {
		if styles[i] != want[i] {
			t.Fatalf("styles[%d] = %+v, want %+v", i, styles[i], want[i])
		}
	}
}

func TestBundledHelmetsResolve(t *testing.T) {
	catalog := NewCatalog(storage.NewFSStore(Bundled()), DefaultFile)
	for _, style := range []string{"", "helmet", "gold", "retro"} {
		helmet, err := catalog.Resolve(context.Background(), style)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", style, err)
		}
		if len(helmet.Data) < 8 || string(helmet.Data[1:4]) != "PNG" {
			t.Fatalf("Resolve(%q) returned non-PNG data", style)
		}
	}
	if got := catalog.DefaultStyle(); got != "helmet" {
		t.Fatalf("DefaultStyle = %q", got)
	}
}
