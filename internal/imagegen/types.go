package imagegen

import "context"

// ImageInput is one image handed to the composition service.
type ImageInput struct {
	Name     string
	MIMEType string
	Data     []byte
}

// ComposeRequest asks the service to place Subject into Overlay following
// Instruction.
type ComposeRequest struct {
	Subject     ImageInput
	Overlay     ImageInput
	Instruction string
}

// Result holds the base64 encoded images returned by the service, in the order
// they were produced. It may be empty.
type Result struct {
	Images []string
}

// First returns the first image. It reports false when the service produced
// nothing or the first entry carries no data.
func (r *Result) First() (string, bool) {
	if r == nil || len(r.Images) == 0 || r.Images[0] == "" {
		return "", false
	}
	return r.Images[0], true
}

// Composer is the external image-composition capability.
type Composer interface {
	Compose(ctx context.Context, req ComposeRequest) (*Result, error)
}
