// Package client submits photos to the bubblehead server and turns the
// returned base64 payload into image files.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const DefaultBaseURL = "http://127.0.0.1:8080"

// NoImageMessage is shown to the user when ErrNoImage is returned.
const NoImageMessage = "Please select an image first"

// ErrNoImage is returned when a submission carries no file.
var ErrNoImage = errors.New("client: no image selected")

// Error carries a non-2xx response from the server.
type Error struct {
	Status  int
	Message string
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

type Client struct {
	base url.URL
	http *http.Client
}

// NewClient builds a client for baseURL. A nil httpClient gets one without a
// timeout, since generations can run for minutes.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: base url %q must include scheme and host", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{base: *u, http: httpClient}, nil
}

// Submission is one photo plus an optional style. Either Path or Reader
// must be set.
type Submission struct {
	Path        string
	Reader      io.Reader
	Filename    string
	ContentType string
	Style       string
}

// Style mirrors one entry of GET /api/styles.
type Style struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	File  string `json:"file"`
}

type StylesResponse struct {
	Default string  `json:"default"`
	Styles  []Style `json:"styles"`
}

type generateResponse struct {
	Success bool   `json:"success"`
	Image   string `json:"image"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Generate posts sub to /api/generate and returns the base64 image.
func (c *Client) Generate(ctx context.Context, sub Submission) (string, error) {
	data, filename, contentType, err := sub.load()
	if err != nil {
		return "", err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if sub.Style != "" {
		if err := writer.WriteField("style", sub.Style); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base.JoinPath("/api/generate").String(), body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var resp generateResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.Image == "" {
		return "", &Error{Status: http.StatusOK, Message: "No image data received"}
	}
	return resp.Image, nil
}

// Styles lists the overlays the server offers.
func (c *Client) Styles(ctx context.Context) (*StylesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath("/api/styles").String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	var resp StylesResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var env errorResponse
		if err := json.Unmarshal(raw, &env); err != nil || env.Error == "" {
			return &Error{Status: res.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return &Error{Status: res.StatusCode, Message: env.Error, Details: env.Details}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func (s Submission) load() ([]byte, string, string, error) {
	var (
		data []byte
		err  error
	)
	filename := s.Filename
	switch {
	case s.Reader != nil:
		data, err = io.ReadAll(s.Reader)
	case s.Path != "":
		data, err = os.ReadFile(s.Path)
		if filename == "" {
			filename = filepath.Base(s.Path)
		}
	default:
		return nil, "", "", ErrNoImage
	}
	if err != nil {
		return nil, "", "", fmt.Errorf("client: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, "", "", ErrNoImage
	}
	if filename == "" {
		filename = "upload"
	}

	contentType := s.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, filename, contentType, nil
}

// Decode turns the server's base64 payload into raw image bytes.
func Decode(image string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(image))
	if err != nil {
		return nil, fmt.Errorf("client: decode image: %w", err)
	}
	return data, nil
}

// DefaultFilename returns bubbleheads-helmet-<ulid>.png.
func DefaultFilename(now time.Time) string {
	return "bubbleheads-helmet-" + strings.ToLower(ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()) + ".png"
}

// SaveImage decodes image and writes it to path, or to a fresh default
// filename in the working directory when path is empty. It returns the path
// written.
func SaveImage(image, path string) (string, error) {
	data, err := Decode(image)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = DefaultFilename(time.Now())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("client: write image: %w", err)
	}
	return path, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
