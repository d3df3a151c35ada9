package helmets

import (
	"embed"
	"io/fs"
)

//go:embed assets/*.png
var bundled embed.FS

// Bundled returns the helmet artwork compiled into the binary.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
