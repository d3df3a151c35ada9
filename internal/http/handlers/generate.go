package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"bubblehead/internal/domain"
	"bubblehead/internal/imagegen"
	"bubblehead/internal/middleware"
)

const (
	msgNoImage        = "No image file provided"
	msgInvalidType    = "Invalid file type. Please upload an image."
	msgTooLarge       = "Image file too large"
	msgHelmetNotFound = "Helmet image not found"
	msgNoImageData    = "No image data received"
	msgGenerateFailed = "Failed to generate profile picture"
)

// multipartOverhead is the slack allowed on top of the upload cap for the
// multipart framing and the style field.
const multipartOverhead = 1 << 20

type generateResponse struct {
	Success bool   `json:"success"`
	Image   string `json:"image"`
}

// inputError is a client-caused rejection; its message is shown verbatim.
type inputError struct {
	message string
}

func (e *inputError) Error() string { return e.message }

func (e *inputError) Unwrap() error { return domain.ErrInvalidInput }

// providerError keeps the upstream message intact for the details field.
type providerError struct {
	err error
}

func (e *providerError) Error() string { return e.err.Error() }

func (e *providerError) Unwrap() []error { return []error{domain.ErrProviderFailure, e.err} }

// classifyError maps err onto a status, a user-facing message and details.
func classifyError(err error) (int, string, string) {
	var inErr *inputError
	switch {
	case errors.As(err, &inErr):
		return http.StatusBadRequest, inErr.message, ""
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, msgNoImage, ""
	case errors.Is(err, domain.ErrHelmetNotFound):
		return http.StatusInternalServerError, msgHelmetNotFound, ""
	case errors.Is(err, domain.ErrEmptyResult):
		return http.StatusInternalServerError, msgNoImageData, ""
	case errors.Is(err, domain.ErrProviderFailure):
		return http.StatusInternalServerError, msgGenerateFailed, err.Error()
	default:
		return http.StatusInternalServerError, msgGenerateFailed, ""
	}
}

func (a *App) fail(w http.ResponseWriter, r *http.Request, log zerolog.Logger, stage string, err error) {
	code, message, details := classifyError(err)
	if code < http.StatusInternalServerError {
		log.Debug().Err(err).Str("stage", stage).Msg("request rejected")
	} else {
		log.Error().Err(err).Str("stage", stage).Msg("request failed")
	}
	a.error(w, r, code, message, details)
}

// Generate accepts a multipart upload and a style selection, composes the
// upload into the selected helmet through the upstream service and returns
// the first resulting image as base64.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := a.Logger.With().Str("request_id", middleware.RequestIDFromContext(ctx)).Logger()

	upload, style, err := a.readUpload(w, r)
	if err != nil {
		a.fail(w, r, log, "read upload", err)
		return
	}
	log = log.With().Str("style", style).Int("upload_bytes", len(upload.Data)).Logger()
	log.Debug().Str("content_type", upload.ContentType).Msg("upload validated")

	helmet, err := a.Helmets.Resolve(ctx, style)
	if err != nil {
		a.fail(w, r, log, "resolve helmet", err)
		return
	}
	log.Debug().Str("helmet", helmet.File).Msg("helmet resolved")

	subject := imagegen.ImageInput{
		Name:     upload.Filename,
		MIMEType: upload.ContentType,
		Data:     upload.Data,
	}
	if normalized, changed := imagegen.NormalizeUpload(upload.Data, a.Config.MaxImageDimension); changed {
		subject.Data = normalized
		subject.MIMEType = "image/png"
		subject.Name = pngName(upload.Filename)
		log.Debug().Int("normalized_bytes", len(normalized)).Msg("upload resized")
	}

	res, err := a.Composer.Compose(ctx, imagegen.ComposeRequest{
		Subject: subject,
		Overlay: imagegen.ImageInput{
			Name:     helmet.File,
			MIMEType: helmet.MIMEType,
			Data:     helmet.Data,
		},
		Instruction: imagegen.BuildInstruction(),
	})
	if err != nil {
		a.fail(w, r, log, "compose", &providerError{err: err})
		return
	}
	image, ok := res.First()
	if !ok {
		a.fail(w, r, log, "compose", domain.ErrEmptyResult)
		return
	}

	log.Info().Int("image_chars", len(image)).Msg("profile picture generated")
	a.json(w, r, http.StatusOK, generateResponse{Success: true, Image: image})
}

// readUpload buffers the image field in memory. Any temporary files the
// multipart parser spilled to disk are removed before returning.
func (a *App) readUpload(w http.ResponseWriter, r *http.Request) (domain.Upload, string, error) {
	maxBytes := a.Config.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Upload{}, "", &inputError{message: msgTooLarge}
		}
		return domain.Upload{}, "", &inputError{message: msgNoImage}
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	headers := r.MultipartForm.File["image"]
	if len(headers) == 0 {
		return domain.Upload{}, "", &inputError{message: msgNoImage}
	}
	header := headers[0]
	upload := domain.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
	if !upload.IsImage() {
		return domain.Upload{}, "", &inputError{message: msgInvalidType}
	}
	if header.Size > maxBytes {
		return domain.Upload{}, "", &inputError{message: msgTooLarge}
	}

	file, err := header.Open()
	if err != nil {
		return domain.Upload{}, "", err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return domain.Upload{}, "", err
	}
	if len(data) == 0 {
		return domain.Upload{}, "", &inputError{message: msgNoImage}
	}
	upload.Data = data
	return upload, formValue(r.MultipartForm, "style", "helmet"), nil
}

func formValue(form *multipart.Form, keys ...string) string {
	for _, key := range keys {
		if values := form.Value[key]; len(values) > 0 {
			if v := strings.TrimSpace(values[0]); v != "" {
				return v
			}
		}
	}
	return ""
}

func pngName(filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if base == "" || base == "." || base == "/" {
		base = "upload"
	}
	return base + ".png"
}
