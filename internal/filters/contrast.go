package filters

import (
	"math"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// contrastPivot is the value positive contrast pushes channels away from
// and negative contrast pulls them toward. 127 rather than the true
// midpoint 127.5 follows the convention of established image editors.
const contrastPivot = 127

// ApplyContrast scales every color channel around the 127 pivot by
// (100+amount)/100 with amount in [-100, 100]: 0 leaves values untouched,
// +100 doubles the spread, -100 collapses everything to mid-gray. Channel
// values are precomputed into a lookup table, one rounded multiplication
// per level. Alpha is copied unchanged; with preserveAlpha set, fully
// transparent pixels pass through untouched.
func ApplyContrast(src *pixel.Buffer, amount int, preserveAlpha bool) (*pixel.Buffer, error) {
	if err := pixel.Validate("filters.ApplyContrast", src); err != nil {
		return nil, err
	}
	if err := pixel.ValidateRange("filters.ApplyContrast", "amount", amount, -100, 100); err != nil {
		return nil, err
	}

	factor := float64(100+amount) / 100.0
	var lut [256]uint8
	for v := range lut {
		scaled := (float64(v)-contrastPivot)*factor + contrastPivot
		lut[v] = pixel.Clamp(int(math.Round(scaled)))
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
		dst.Pix[i] = lut[src.Pix[i]]
		dst.Pix[i+1] = lut[src.Pix[i+1]]
		dst.Pix[i+2] = lut[src.Pix[i+2]]
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst, nil
}
