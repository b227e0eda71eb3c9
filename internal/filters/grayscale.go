// Package filters implements the pixel transforms of the preparation
// pipeline. Every transform validates its inputs, treats the source buffer
// as read-only and returns a freshly allocated buffer of identical
// dimensions.
package filters

import (
	"math"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// Grayscale converts src using the ITU-R BT.601 luminosity weights,
// matching the conversion of mainstream image editors. Alpha is copied
// unchanged.
func Grayscale(src *pixel.Buffer) (*pixel.Buffer, error) {
	if err := pixel.Validate("filters.Grayscale", src); err != nil {
		return nil, err
	}

	dst, err := pixel.New(src.Width, src.Height)
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(src.Pix); i += pixel.Channels {
		gray := luminance(src.Pix[i], src.Pix[i+1], src.Pix[i+2])
		dst.Pix[i] = gray
		dst.Pix[i+1] = gray
		dst.Pix[i+2] = gray
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst, nil
}

// luminance reduces an RGB triple to a single BT.601-weighted intensity,
// rounded half away from zero.
func luminance(r, g, b uint8) uint8 {
	return uint8(math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)))
}
