package domain

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrHelmetNotFound  = errors.New("helmet not found")
	ErrProviderFailure = errors.New("provider failure")
	ErrEmptyResult     = errors.New("no image data received")
)
