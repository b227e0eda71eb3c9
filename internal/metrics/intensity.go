package metrics

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// IntensitySummary describes the distribution of red-channel intensities,
// which on grayscale buffers is the intensity distribution proper.
type IntensitySummary struct {
	Count  int
	Min    uint8
	Max    uint8
	Mean   float64
	Median float64
	StdDev float64
}

// SummarizeIntensity collects distribution statistics over buf, optionally
// ignoring fully transparent pixels. A buffer with no counted pixels yields
// the zero summary.
func SummarizeIntensity(buf *pixel.Buffer, skipTransparent bool) (*IntensitySummary, error) {
	if err := pixel.Validate("metrics.SummarizeIntensity", buf); err != nil {
		return nil, err
	}

	samples := make([]float64, 0, buf.PixelCount())
	minV, maxV := uint8(255), uint8(0)
	for i := 0; i < len(buf.Pix); i += pixel.Channels {
		if skipTransparent && buf.Pix[i+3] == 0 {
			continue
		}
		v := buf.Pix[i]
		samples = append(samples, float64(v))
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	if len(samples) == 0 {
		return &IntensitySummary{}, nil
	}

	mean, err := stats.Mean(samples)
	if err != nil {
		return nil, fmt.Errorf("metrics.SummarizeIntensity: mean: %w", err)
	}
	median, err := stats.Median(samples)
	if err != nil {
		return nil, fmt.Errorf("metrics.SummarizeIntensity: median: %w", err)
	}
	stdDev, err := stats.StandardDeviation(samples)
	if err != nil {
		return nil, fmt.Errorf("metrics.SummarizeIntensity: standard deviation: %w", err)
	}

	return &IntensitySummary{
		Count:  len(samples),
		Min:    minV,
		Max:    maxV,
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
	}, nil
}
