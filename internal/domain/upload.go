package domain

import "strings"

// Upload is the user-submitted photo as received by the generation endpoint.
// It lives only for the duration of one request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsImage reports whether the declared content type is an image type.
func (u Upload) IsImage() bool {
	return IsImageContentType(u.ContentType)
}

func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
