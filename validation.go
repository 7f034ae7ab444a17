package milkshake

import (
	"errors"
	"strings"
)

// ErrEmptyPrompt is returned when a backend is handed a blank prompt.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// ValidatePrompt validates a text prompt.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}
