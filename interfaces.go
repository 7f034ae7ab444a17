package milkshake

import (
	"context"
	"image"
)

// ImageGenerator is the core interface for image generation backends.
// Implement this interface to add support for new transports or providers.
type ImageGenerator interface {
	// Generate sends the prompt to the model and returns the first image found.
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)

	// Close releases any resources held by the generator.
	Close() error
}

// Clipboard copies a decoded image to the system clipboard.
type Clipboard interface {
	WriteImage(img image.Image) error
}
