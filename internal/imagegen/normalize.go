package imagegen

import (
	"bytes"

	"github.com/disintegration/imaging"
)

// DefaultMaxDimension bounds the longest side of uploads forwarded upstream.
const DefaultMaxDimension = 1536

// NormalizeUpload shrinks an oversized upload so its longest side fits within
// maxDimension and re-encodes it as PNG. Data that cannot be decoded, or that
// is already small enough, is returned unchanged with changed == false.
func NormalizeUpload(data []byte, maxDimension int) (out []byte, changed bool) {
	if maxDimension <= 0 || len(data) == 0 {
		return data, false
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data, false
	}
	bounds := img.Bounds()
	if bounds.Dx() <= maxDimension && bounds.Dy() <= maxDimension {
		return data, false
	}
	resized := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return data, false
	}
	return buf.Bytes(), true
}
