package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const (
	defaultOpenAIBaseURL    = "https://api.openai.com/v1"
	defaultOpenAIImageModel = "gpt-image-1"
	openAIDefaultTimeout    = 5 * time.Minute
)

type OpenAIOptions struct {
	APIKey       string
	BaseURL      string
	Model        string
	Organization string
	HTTPClient   *http.Client
	Timeout      time.Duration
}

// OpenAIClient calls the OpenAI image edit endpoint with the upload and the
// helmet as two reference images.
type OpenAIClient struct {
	httpClient   *http.Client
	baseURL      string
	model        string
	token        string
	organization string
}

func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultOpenAIImageModel
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = openAIDefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &OpenAIClient{
		httpClient:   client,
		baseURL:      base,
		model:        model,
		token:        strings.TrimSpace(opts.APIKey),
		organization: strings.TrimSpace(opts.Organization),
	}
}

type openAIImageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *openAIError `json:"error,omitempty"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (c *OpenAIClient) Compose(ctx context.Context, req ComposeRequest) (*Result, error) {
	if c == nil {
		return nil, errors.New("openai client not configured")
	}
	if c.token == "" {
		return nil, errors.New("openai: API key is missing")
	}
	if len(req.Subject.Data) == 0 || len(req.Overlay.Data) == 0 {
		return nil, errors.New("openai: both images are required")
	}

	body, contentType, err := c.buildEditBody(req)
	if err != nil {
		return nil, fmt.Errorf("openai: build request body: %w", err)
	}

	endpoint := c.baseURL + "/images/edits"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	if c.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", c.organization)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read response: %w", err)
	}

	var out openAIImageResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("openai: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if out.Error != nil && out.Error.Message != "" {
			return nil, fmt.Errorf("openai: http %d: %s", resp.StatusCode, out.Error.Message)
		}
		return nil, fmt.Errorf("openai: http %d", resp.StatusCode)
	}

	result := &Result{}
	for _, item := range out.Data {
		result.Images = append(result.Images, item.B64JSON)
	}
	return result, nil
}

func (c *OpenAIClient) buildEditBody(req ComposeRequest) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	if err := writer.WriteField("model", c.model); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("prompt", req.Instruction); err != nil {
		return nil, "", err
	}
	for i, img := range []ImageInput{req.Subject, req.Overlay} {
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("image-%d.png", i+1)
		}
		if err := writeImagePart(writer, "image[]", name, img); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

func writeImagePart(w *multipart.Writer, field, name string, img ImageInput) error {
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, escapeQuotes(name)))
	header.Set("Content-Type", mimeType)
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(img.Data)
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

var _ Composer = (*OpenAIClient)(nil)
