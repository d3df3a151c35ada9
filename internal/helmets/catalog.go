package helmets

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bubblehead/internal/domain"
	"bubblehead/internal/storage"
)

// DefaultFile is the overlay used when a request carries no style selection.
const DefaultFile = "helmet.png"

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
}

// Helmet is a resolved overlay asset ready to be sent upstream.
type Helmet struct {
	Style    string
	File     string
	MIMEType string
	Data     []byte
}

// Style describes one selectable overlay.
type Style struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	File  string `json:"file"`
}

// Catalog maps style selections onto the read-only overlay assets held by a
// storage.Source.
type Catalog struct {
	source      storage.Source
	defaultFile string
}

func NewCatalog(source storage.Source, defaultFile string) *Catalog {
	defaultFile = strings.TrimSpace(defaultFile)
	if defaultFile == "" {
		defaultFile = DefaultFile
	}
	return &Catalog{source: source, defaultFile: FileName(defaultFile)}
}

// DefaultStyle returns the style ID of the default overlay.
func (c *Catalog) DefaultStyle() string {
	return StyleID(c.defaultFile)
}

// Resolve loads the overlay for style. An empty style selects the default.
// Unknown or unreadable assets are reported as domain.ErrHelmetNotFound.
func (c *Catalog) Resolve(ctx context.Context, style string) (*Helmet, error) {
	file := c.defaultFile
	if s := strings.TrimSpace(style); s != "" {
		file = FileName(s)
	}
	data, err := c.source.Read(ctx, file)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrHelmetNotFound, file)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrHelmetNotFound, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrHelmetNotFound, file)
	}
	return &Helmet{
		Style:    StyleID(file),
		File:     file,
		MIMEType: mimeTypeFor(file),
		Data:     data,
	}, nil
}

// Styles lists the selectable overlays, default first.
func (c *Catalog) Styles(ctx context.Context) ([]Style, error) {
	keys, err := c.source.List(ctx)
	if err != nil {
		return nil, err
	}
	styles := make([]Style, 0, len(keys))
	for _, key := range keys {
		if _, ok := imageExtensions[strings.ToLower(path.Ext(key))]; !ok {
			continue
		}
		style := Style{ID: StyleID(key), Label: Label(key), File: key}
		if key == c.defaultFile {
			styles = append([]Style{style}, styles...)
			continue
		}
		styles = append(styles, style)
	}
	return styles, nil
}

// FileName maps a style ID onto its asset file name. Names that already carry
// an image extension are kept as-is.
func FileName(style string) string {
	style = strings.TrimSpace(style)
	if _, ok := imageExtensions[strings.ToLower(path.Ext(style))]; ok {
		return style
	}
	return style + ".png"
}

// StyleID strips the image extension from an asset file name.
func StyleID(file string) string {
	ext := path.Ext(file)
	if _, ok := imageExtensions[strings.ToLower(ext)]; ok {
		return strings.TrimSuffix(file, ext)
	}
	return file
}

// Label turns an asset name such as "space-cadet.png" into "Space Cadet".
func Label(file string) string {
	name := strings.NewReplacer("-", " ", "_", " ").Replace(StyleID(file))
	return cases.Title(language.English).String(strings.TrimSpace(name))
}

func mimeTypeFor(file string) string {
	switch strings.ToLower(path.Ext(file)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
