package filters

import (
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/histogram"
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// Equalize stretches contrast by remapping every color channel through the
// normalized cumulative distribution of the red channel. On grayscale input
// the result is classic histogram equalization; already equalized buffers
// map to themselves.
//
// With preserveAlpha set, fully transparent pixels are excluded from the
// distribution and pass through byte for byte, so a removed background
// neither skews the statistics nor gets recolored.
func Equalize(src *pixel.Buffer, preserveAlpha bool) (*pixel.Buffer, error) {
	if err := pixel.Validate("filters.Equalize", src); err != nil {
		return nil, err
	}

	h, err := histogram.Compute(src, preserveAlpha)
	if err != nil {
		return nil, err
	}
	cdf := h.CDF()
	lut := cdf.Normalize(h.Total())

	dst, err := pixel.New(src.Width, src.Height)
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(src.Pix); i += pixel.Channels {
		if preserveAlpha && src.Pix[i+3] == 0 {
			copy(dst.Pix[i:i+pixel.Channels], src.Pix[i:i+pixel.Channels])
			continue
		}
		dst.Pix[i] = lut[src.Pix[i]]
		dst.Pix[i+1] = lut[src.Pix[i+1]]
		dst.Pix[i+2] = lut[src.Pix[i+2]]
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst, nil
}
