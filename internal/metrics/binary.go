// Package metrics scores binarized output against a reference image and
// summarizes intensity distributions, for judging parameter choices on a
// corpus of engravings.
package metrics

import (
	"fmt"
	"math"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// BinaryMetrics holds the confusion matrix of a binarized result against a
// reference, treating red-channel values above 127 as the positive class.
type BinaryMetrics struct {
	TruePositives  int
	TrueNegatives  int
	FalsePositives int
	FalseNegatives int
	TotalPixels    int

	drdValue float64
	bfcValue float64
}

// Compare scores result against reference. Both buffers must share
// dimensions and should already be binarized; any value above 127 counts
// as positive.
func Compare(reference, result *pixel.Buffer) (*BinaryMetrics, error) {
	if err := pixel.Validate("metrics.Compare", reference); err != nil {
		return nil, err
	}
	if err := pixel.Validate("metrics.Compare", result); err != nil {
		return nil, err
	}
	if reference.Width != result.Width || reference.Height != result.Height {
		return nil, fmt.Errorf("metrics.Compare: dimensions %dx%d and %dx%d do not match",
			reference.Width, reference.Height, result.Width, result.Height)
	}

	m := &BinaryMetrics{TotalPixels: reference.PixelCount()}
	for idx := 0; idx < reference.PixelCount(); idx++ {
		off := idx * pixel.Channels
		ref := reference.Pix[off] > 127
		res := result.Pix[off] > 127
		switch {
		case ref && res:
			m.TruePositives++
		case !ref && !res:
			m.TrueNegatives++
		case !ref && res:
			m.FalsePositives++
		default:
			m.FalseNegatives++
		}
	}

	m.drdValue = calculateDRD(reference, result)
	m.bfcValue = calculateBackgroundForegroundContrast(reference, result)
	return m, nil
}

func (m *BinaryMetrics) Precision() float64 {
	if m.TruePositives+m.FalsePositives == 0 {
		return 0.0
	}
	return float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives)
}

func (m *BinaryMetrics) Recall() float64 {
	if m.TruePositives+m.FalseNegatives == 0 {
		return 0.0
	}
	return float64(m.TruePositives) / float64(m.TruePositives+m.FalseNegatives)
}

// FMeasure is the harmonic mean of precision and recall.
func (m *BinaryMetrics) FMeasure() float64 {
	precision := m.Precision()
	recall := m.Recall()
	if precision+recall == 0 {
		return 0.0
	}
	return 2.0 * (precision * recall) / (precision + recall)
}

// PseudoFMeasure weights precision over recall with beta 0.5, which tracks
// perceived engraving quality better than the plain F-measure.
func (m *BinaryMetrics) PseudoFMeasure() float64 {
	precision := m.Precision()
	recall := m.Recall()
	betaSq := 0.5 * 0.5
	if betaSq*precision+recall == 0 {
		return 0.0
	}
	return (1.0 + betaSq) * (precision * recall) / (betaSq*precision + recall)
}

// NRM is the negative rate metric; lower is better, 0 is a perfect match.
func (m *BinaryMetrics) NRM() float64 {
	if m.TruePositives+m.TrueNegatives == 0 {
		return 0.0
	}
	return float64(m.FalsePositives+m.FalseNegatives) / float64(2*(m.TruePositives+m.TrueNegatives))
}

// DRD is the distance reciprocal distortion: each mismatched pixel is
// weighted by how much reference foreground surrounds it, normalized by the
// reference foreground count. Lower is better.
func (m *BinaryMetrics) DRD() float64 {
	return m.drdValue
}

// BackgroundForegroundContrast averages the background clutter rate and the
// foreground speckle rate. Lower is better.
func (m *BinaryMetrics) BackgroundForegroundContrast() float64 {
	return m.bfcValue
}

// drdWeights builds the 5x5 reciprocal-distance kernel used by DRD. The
// center weight is 1, every other cell 1/distance to the center.
func drdWeights() [5][5]float64 {
	var weights [5][5]float64
	const center = 2
	for i := range weights {
		for j := range weights[i] {
			dx := float64(i - center)
			dy := float64(j - center)
			d := math.Sqrt(dx*dx + dy*dy)
			if d == 0 {
				weights[i][j] = 1.0
			} else {
				weights[i][j] = 1.0 / d
			}
		}
	}
	return weights
}

func calculateDRD(reference, result *pixel.Buffer) float64 {
	w, h := reference.Width, reference.Height
	weights := drdWeights()

	totalDistortion := 0.0
	errorPixels := 0
	foreground := 0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := reference.PixOffset(x, y)
			ref := reference.Pix[off] > 127
			if ref {
				foreground++
			}
			if ref == (result.Pix[off] > 127) {
				continue
			}
			errorPixels++
			totalDistortion += referenceNeighborhoodWeight(reference, x, y, &weights)
		}
	}

	if errorPixels == 0 || foreground == 0 {
		return 0.0
	}
	return totalDistortion / float64(foreground)
}

// referenceNeighborhoodWeight measures how strongly the reference considers
// (x, y) foreground territory: the weighted share of foreground pixels in
// the 5x5 window, with out-of-bounds cells left out of the normalization.
func referenceNeighborhoodWeight(reference *pixel.Buffer, x, y int, weights *[5][5]float64) float64 {
	w, h := reference.Width, reference.Height
	weightedSum := 0.0
	totalWeight := 0.0

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			nx := x + i - 2
			ny := y + j - 2
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			weight := weights[i][j]
			totalWeight += weight
			if reference.Pix[reference.PixOffset(nx, ny)] > 127 {
				weightedSum += weight
			}
		}
	}

	if totalWeight == 0 {
		return 0.0
	}
	return weightedSum / totalWeight
}

func calculateBackgroundForegroundContrast(reference, result *pixel.Buffer) float64 {
	backgroundErrors := 0
	foregroundErrors := 0
	totalBackground := 0
	totalForeground := 0

	for idx := 0; idx < reference.PixelCount(); idx++ {
		off := idx * pixel.Channels
		ref := reference.Pix[off] > 127
		res := result.Pix[off] > 127

		if ref {
			totalForeground++
			if !res {
				foregroundErrors++
			}
		} else {
			totalBackground++
			if res {
				backgroundErrors++
			}
		}
	}

	backgroundClutter := 0.0
	if totalBackground > 0 {
		backgroundClutter = float64(backgroundErrors) / float64(totalBackground)
	}
	foregroundSpeckle := 0.0
	if totalForeground > 0 {
		foregroundSpeckle = float64(foregroundErrors) / float64(totalForeground)
	}
	return (backgroundClutter + foregroundSpeckle) / 2.0
}
