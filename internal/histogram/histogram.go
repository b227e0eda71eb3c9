// Package histogram builds intensity distributions and the derived lookup
// tables behind histogram equalization and automatic threshold selection.
package histogram

import (
	"math"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// Bins is the number of discrete intensity levels.
const Bins = 256

// Histogram counts pixels per intensity level. The red channel serves as
// the intensity source; the pipeline only feeds it grayscale buffers where
// R, G and B are equal.
type Histogram [Bins]int

// CDF is the running total of a Histogram: CDF[i] counts pixels with
// intensity at most i.
type CDF [Bins]int

// LookupTable maps input intensity to output intensity.
type LookupTable [Bins]uint8

// Compute builds the intensity histogram of buf. With skipTransparent set,
// pixels with alpha 0 are left out of the counts so removed background
// regions do not skew the distribution.
func Compute(buf *pixel.Buffer, skipTransparent bool) (Histogram, error) {
	var h Histogram
	if err := pixel.Validate("histogram.Compute", buf); err != nil {
		return h, err
	}
	for i := 0; i < len(buf.Pix); i += pixel.Channels {
		if skipTransparent && buf.Pix[i+3] == 0 {
			continue
		}
		h[buf.Pix[i]]++
	}
	return h, nil
}

// Total returns the number of pixels counted.
func (h *Histogram) Total() int {
	total := 0
	for _, count := range h {
		total += count
	}
	return total
}

// Bounds returns the lowest and highest populated intensities. An empty
// histogram yields (0, -1).
func (h *Histogram) Bounds() (lo, hi int) {
	lo, hi = 0, -1
	for i, count := range h {
		if count == 0 {
			continue
		}
		if hi < 0 {
			lo = i
		}
		hi = i
	}
	return lo, hi
}

// CDF returns the cumulative distribution of h.
func (h *Histogram) CDF() CDF {
	var c CDF
	sum := 0
	for i, count := range h {
		sum += count
		c[i] = sum
	}
	return c
}

// Normalize builds the equalization lookup table, stretching the
// distribution across the full [0, 255] range. total must be the pixel
// count the source histogram was built from. When every counted pixel
// shares a single intensity the mapping degenerates to identity.
func (c *CDF) Normalize(total int) LookupTable {
	var lut LookupTable

	cdfMin := 0
	for _, v := range c {
		if v > 0 {
			cdfMin = v
			break
		}
	}

	if total-cdfMin == 0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	for i, v := range c {
		scaled := float64(v-cdfMin) / float64(total-cdfMin) * 255.0
		lut[i] = pixel.Clamp(int(math.Round(scaled)))
	}
	return lut
}
