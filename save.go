package milkshake

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// SaveImage encodes img in the declared format and writes it to path.
func SaveImage(path string, img image.Image, format OutputFormat) (err error) {
	if format != FormatPNG {
		return fmt.Errorf("%w to %s: unsupported output format %q", ErrFileWrite, path, format)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w to %s: %w", ErrFileWrite, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w to %s: %w", ErrFileWrite, path, cerr)
		}
	}()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("%w to %s: %w", ErrFileWrite, path, err)
	}
	return nil
}
