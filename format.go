package milkshake

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputFormat is the encoding used when writing the image to disk.
type OutputFormat string

const (
	FormatPNG OutputFormat = "png"

	FormatDefault OutputFormat = FormatPNG
)

// SupportedFormats lists the formats accepted by --format.
var SupportedFormats = []OutputFormat{FormatPNG}

// ParseOutputFormat converts a flag value into an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, supported := range SupportedFormats {
		if f == supported {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (supported: %s)", s, joinFormats(SupportedFormats))
}

// MIMEType returns the MIME type the format is expected to arrive as.
func (f OutputFormat) MIMEType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	default:
		return "image/png"
	}
}

// Extension returns the file extension without the leading dot.
func (f OutputFormat) Extension() string {
	return extensionFromMIME(f.MIMEType())
}

// String returns the flag spelling of the format.
func (f OutputFormat) String() string {
	return string(f)
}

// extensionMIMETypes maps file extensions to the image type they name.
var extensionMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// MIMETypeForPath reports the image type a path's extension names.
// ok is false for paths without a recognized image extension.
func MIMETypeForPath(path string) (mime string, ok bool) {
	mime, ok = extensionMIMETypes[strings.ToLower(filepath.Ext(path))]
	return mime, ok
}

// extensionFromMIME returns a file extension for common image MIME types.
func extensionFromMIME(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}

func joinFormats(formats []OutputFormat) string {
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
