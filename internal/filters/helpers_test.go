package filters_test

import (
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

// solidBuffer builds a buffer filled with a single RGBA value.
func solidBuffer(t *testing.T, width, height int, r, g, b, a uint8) *pixel.Buffer {
	t.Helper()

	buf, err := pixel.New(width, height)
	require.NoError(t, err)
	for i := 0; i < len(buf.Pix); i += pixel.Channels {
		buf.Pix[i] = r
		buf.Pix[i+1] = g
		buf.Pix[i+2] = b
		buf.Pix[i+3] = a
	}
	return buf
}

// redChannel extracts the red bytes of every pixel in order.
func redChannel(buf *pixel.Buffer) []uint8 {
	out := make([]uint8, 0, buf.PixelCount())
	for i := 0; i < len(buf.Pix); i += pixel.Channels {
		out = append(out, buf.Pix[i])
	}
	return out
}

// alphaChannel extracts the alpha bytes of every pixel in order.
func alphaChannel(buf *pixel.Buffer) []uint8 {
	out := make([]uint8, 0, buf.PixelCount())
	for i := 3; i < len(buf.Pix); i += pixel.Channels {
		out = append(out, buf.Pix[i])
	}
	return out
}
