package milkshake

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

// MockImageGenerator is a mock implementation of ImageGenerator.
type MockImageGenerator struct {
	GenerateFunc func(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
	CloseFunc    func() error

	Requests []GenerationRequest
	Closed   bool
}

func (m *MockImageGenerator) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	m.Requests = append(m.Requests, req)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &GenerationResult{}, nil
}

func (m *MockImageGenerator) Close() error {
	m.Closed = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockClipboard records the images it was asked to copy.
type MockClipboard struct {
	Err    error
	Images []image.Image
}

func (m *MockClipboard) WriteImage(img image.Image) error {
	if m.Err != nil {
		return m.Err
	}
	m.Images = append(m.Images, img)
	return nil
}

var errBoom = errors.New("boom")

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 255, G: uint8(x * 10), B: uint8(y * 10), A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}
