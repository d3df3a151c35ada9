package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"bubblehead/internal/domain"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
		details string
	}{
		{
			name:    "input error keeps its message",
			err:     &inputError{message: msgInvalidType},
			code:    http.StatusBadRequest,
			message: msgInvalidType,
		},
		{
			name:    "wrapped invalid input",
			err:     fmt.Errorf("read upload: %w", domain.ErrInvalidInput),
			code:    http.StatusBadRequest,
			message: msgNoImage,
		},
		{
			name:    "helmet not found",
			err:     fmt.Errorf("%w: viking.png", domain.ErrHelmetNotFound),
			code:    http.StatusInternalServerError,
			message: msgHelmetNotFound,
		},
		{
			name:    "empty result",
			err:     domain.ErrEmptyResult,
			code:    http.StatusInternalServerError,
			message: msgNoImageData,
		},
		{
			name:    "provider failure carries upstream message",
			err:     &providerError{err: errors.New("openai: http 500: boom")},
			code:    http.StatusInternalServerError,
			message: msgGenerateFailed,
			details: "openai: http 500: boom",
		},
		{
			name:    "unclassified error hides details",
			err:     errors.New("disk exploded"),
			code:    http.StatusInternalServerError,
			message: msgGenerateFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, message, details := classifyError(tc.err)
			if code != tc.code || message != tc.message || details != tc.details {
				t.Fatalf("classifyError() = (%d, %q, %q), want (%d, %q, %q)", code, message, details, tc.code, tc.message, tc.details)
			}
		})
	}
}

func TestErrorTypesUnwrapToSentinels(t *testing.T) {
	upstream := errors.New("openai: http 429: slow down")
	perr := &providerError{err: upstream}
	if !errors.Is(perr, domain.ErrProviderFailure) || !errors.Is(perr, upstream) {
		t.Fatalf("providerError must unwrap to ErrProviderFailure and the upstream error")
	}
	if !errors.Is(&inputError{message: msgTooLarge}, domain.ErrInvalidInput) {
		t.Fatal("inputError must unwrap to ErrInvalidInput")
	}
}
