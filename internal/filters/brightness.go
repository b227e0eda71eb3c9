package filters

import (
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// ApplyBrightness shifts every color channel by amount in [-100, 100],
// clamping to the byte range. Alpha is copied unchanged; with preserveAlpha
// set, fully transparent pixels pass through untouched.
func ApplyBrightness(src *pixel.Buffer, amount int, preserveAlpha bool) (*pixel.Buffer, error) {
	if err := pixel.Validate("filters.ApplyBrightness", src); err != nil {
		return nil, err
	}
	if err := pixel.ValidateRange("filters.ApplyBrightness", "amount", amount, -100, 100); err != nil {
		return nil, err
	}

	dst, err := pixel.New(src.Width, src.Height)
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(src.Pix); i += pixel.Channels {
		if preserveAlpha && src.Pix[i+3] == 0 {
			copy(dst.Pix[i:i+pixel.Channels], src.Pix[i:i+pixel.Channels])
			continue
		}
		dst.Pix[i] = pixel.Clamp(int(src.Pix[i]) + amount)
		dst.Pix[i+1] = pixel.Clamp(int(src.Pix[i+1]) + amount)
		dst.Pix[i+2] = pixel.Clamp(int(src.Pix[i+2]) + amount)
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst, nil
}
