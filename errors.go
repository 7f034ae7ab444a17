package milkshake

import (
	"errors"
	"fmt"
	"strings"
)

// Input errors
var (
	ErrNoPromptProvided = errors.New("no prompt provided; pass text or pipe it on STDIN")
	ErrEmptyStdinPrompt = errors.New("prompt from STDIN was empty")
	ErrMissingAPIKey    = errors.New("missing Google AI API key; set GOOGLE_API_KEY or pass --api-key")
)

// Response errors
var (
	ErrMalformedResponse = errors.New("failed to decode Gemini API response")
	ErrNoCandidates      = errors.New("Gemini API returned no candidates")
	ErrMissingContent    = errors.New("Gemini API response missing content")
	ErrNoImageData       = errors.New("Gemini API response contained no image data")
	ErrBase64Decode      = errors.New("failed to decode base64 image data")
)

// Local errors
var (
	ErrUnsupportedImageData = errors.New("Gemini API returned unsupported image data")
	ErrDirectoryCreate      = errors.New("failed to create parent directory")
	ErrOutputPath           = errors.New("failed to resolve output directory")
	ErrFileWrite            = errors.New("failed to write image")
	ErrClipboardUnavailable = errors.New("failed to connect to system clipboard")
	ErrClipboardWrite       = errors.New("failed to copy image into clipboard")
)

// APIError is returned when the API answers with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
	Err        error // Underlying error from the provider, if any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Gemini API error (%d): %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsAPIError checks if an error is an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
