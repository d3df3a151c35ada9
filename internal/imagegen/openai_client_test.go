package imagegen

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func testComposeRequest() ComposeRequest {
	return ComposeRequest{
		Subject:     ImageInput{Name: "me.jpg", MIMEType: "image/jpeg", Data: []byte("subject-bytes")},
		Overlay:     ImageInput{Name: "helmet.png", MIMEType: "image/png", Data: []byte("helmet-bytes")},
		Instruction: "do something",
	}
}

func TestOpenAIClientCompose(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/edits" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}
		if got := r.Header.Get("OpenAI-Organization"); got != "org-1" {
			t.Errorf("unexpected organization header: %s", got)
		}
		reader, err := r.MultipartReader()
		if err != nil {
			t.Errorf("multipart reader: %v", err)
			return
		}
		fields := map[string]string{}
		var images []string
		var types []string
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Errorf("next part: %v", err)
				return
			}
			data, _ := io.ReadAll(part)
			if part.FileName() != "" {
				if part.FormName() != "image[]" {
					t.Errorf("unexpected file field: %s", part.FormName())
				}
				images = append(images, string(data))
				types = append(types, part.Header.Get("Content-Type"))
				continue
			}
			fields[part.FormName()] = string(data)
		}
		if fields["model"] != "gpt-image-1" {
			t.Errorf("unexpected model: %s", fields["model"])
		}
		if fields["prompt"] != "do something" {
			t.Errorf("unexpected prompt: %s", fields["prompt"])
		}
		if len(images) != 2 || images[0] != "subject-bytes" || images[1] != "helmet-bytes" {
			t.Errorf("unexpected images: %v", images)
		}
		if len(types) != 2 || types[0] != "image/jpeg" || types[1] != "image/png" {
			t.Errorf("unexpected content types: %v", types)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"created":1,"data":[{"b64_json":"iVBORtest=="}]}`)
	}))
	defer ts.Close()

	client := NewOpenAIClient(OpenAIOptions{APIKey: "test-key", BaseURL: ts.URL + "/", Organization: "org-1"})
	res, err := client.Compose(context.Background(), testComposeRequest())
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	got, ok := res.First()
	if !ok || got != "iVBORtest==" {
		t.Fatalf("First() = %q, %v", got, ok)
	}
}

func TestOpenAIClientMissingKey(t *testing.T) {
	client := NewOpenAIClient(OpenAIOptions{})
	if _, err := client.Compose(context.Background(), testComposeRequest()); err == nil {
		t.Fatalf("expected error when api key missing")
	}
}

func TestOpenAIClientRequiresBothImages(t *testing.T) {
	called := false
	client := NewOpenAIClient(OpenAIOptions{
		APIKey: "test-key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			called = true
			return nil, errors.New("unexpected call")
		})},
	})
	req := testComposeRequest()
	req.Overlay.Data = nil
	if _, err := client.Compose(context.Background(), req); err == nil {
		t.Fatal("expected error for missing overlay")
	}
	if called {
		t.Fatal("transport should not be called")
	}
}

func TestOpenAIClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "api error message", status: http.StatusTooManyRequests, body: `{"error":{"message":"Rate limit reached","type":"requests"}}`, wantErr: "openai: http 429: Rate limit reached"},
		{name: "non json error", status: http.StatusBadGateway, body: "upstream down", wantErr: "openai: http 502: upstream down"},
		{name: "error without message", status: http.StatusInternalServerError, body: `{}`, wantErr: "openai: http 500"},
		{name: "malformed success", status: http.StatusOK, body: `{"data":`, wantErr: "openai: decode response"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer ts.Close()

			client := NewOpenAIClient(OpenAIOptions{APIKey: "test-key", BaseURL: ts.URL})
			_, err := client.Compose(context.Background(), testComposeRequest())
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestOpenAIClientEmptyData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer ts.Close()

	client := NewOpenAIClient(OpenAIOptions{APIKey: "test-key", BaseURL: ts.URL})
	res, err := client.Compose(context.Background(), testComposeRequest())
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if _, ok := res.First(); ok {
		t.Fatalf("expected no image, got %+v", res)
	}
}

func TestOpenAIClientTransportFailure(t *testing.T) {
	client := NewOpenAIClient(OpenAIOptions{
		APIKey: "test-key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("boom")
		})},
	})
	if _, err := client.Compose(context.Background(), testComposeRequest()); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v, want transport error", err)
	}
}
