package pipeline_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// grayBuffer builds a buffer where pixel i has R=G=B=values[i] and full
// alpha, laid out row-major.
func grayBuffer(t *testing.T, width, height int, values []uint8) *pixel.Buffer {
	t.Helper()
	require.Len(t, values, width*height)

	buf, err := pixel.New(width, height)
	require.NoError(t, err)
	for i, v := range values {
		off := i * pixel.Channels
		buf.Pix[off] = v
		buf.Pix[off+1] = v
		buf.Pix[off+2] = v
		buf.Pix[off+3] = 255
	}
	return buf
}

// pngBytes encodes img as PNG.
func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// testNRGBA builds a 2x2 image with distinct pixels, including partial and
// zero alpha, to exercise exact byte round trips.
func testNRGBA(t *testing.T) *image.NRGBA {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	img.SetNRGBA(0, 1, color.NRGBA{R: 9, G: 9, B: 9, A: 0})
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}
