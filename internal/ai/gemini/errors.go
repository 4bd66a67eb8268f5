package gemini

import "errors"

var (
	// ErrMissingAPIKey is returned when no Gemini API key was configured.
	ErrMissingAPIKey = errors.New("gemini api key is required")

	// ErrEmptyResponse is returned when the model produced no textual output.
	ErrEmptyResponse = errors.New("gemini api returned empty response")

	// ErrNoText is returned when a PDF payload yields no extractable text.
	ErrNoText = errors.New("no text content found in pdf")
)
