// Package clipboard copies generated images to the operating system clipboard.
//
// The system implementation is backed by golang.design/x/clipboard, which
// needs a running display server on Linux (X11) and cgo on most platforms.
// Callers should treat every error from this package as non-fatal.
package clipboard

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	xclipboard "golang.design/x/clipboard"

	"github.com/mhpenta/milkshake"
)

// System writes images to the OS clipboard.
type System struct {
	initFn  func() error
	writeFn func(buf []byte) bool
}

// Ensure System implements milkshake.Clipboard.
var _ milkshake.Clipboard = (*System)(nil)

// New returns a clipboard writer bound to the OS clipboard.
func New() *System {
	return &System{
		initFn: xclipboard.Init,
		writeFn: func(buf []byte) bool {
			return xclipboard.Write(xclipboard.FmtImage, buf) != nil
		},
	}
}

// WriteImage converts img to 8-bit RGBA and places it on the clipboard.
func (s *System) WriteImage(img image.Image) error {
	if err := s.initFn(); err != nil {
		return fmt.Errorf("%w: %w", milkshake.ErrClipboardUnavailable, err)
	}

	buf, err := EncodeRGBA(img)
	if err != nil {
		return fmt.Errorf("%w: %w", milkshake.ErrClipboardWrite, err)
	}

	if !s.writeFn(buf) {
		return milkshake.ErrClipboardWrite
	}
	return nil
}

// ToRGBA returns img as non-premultiplied 8-bit RGBA with its origin at 0,0.
func ToRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// EncodeRGBA converts img to RGBA and encodes it as PNG, the image payload
// format clipboard backends accept along with its width and height.
func EncodeRGBA(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, ToRGBA(img)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
