package histogram

// MinClassWeight is the smallest probability mass either side of a
// candidate threshold may hold. Candidates splitting off a near-empty
// class are skipped so a handful of outlier pixels cannot dominate the
// variance scan.
const MinClassWeight = 1e-4

// OtsuThreshold selects the cut that maximizes between-class variance,
// scanning all 256 candidates over cumulative probability sums. Ties keep
// the first maximum. When no split produces positive variance, as on
// uniform images, the threshold falls back to the midpoint of the
// populated intensity range; an empty histogram yields 127.
func OtsuThreshold(h *Histogram) int {
	total := h.Total()
	if total == 0 {
		return 127
	}

	var cumWeight, cumMean [Bins]float64
	weight, mean := 0.0, 0.0
	for i, count := range h {
		p := float64(count) / float64(total)
		weight += p
		mean += float64(i) * p
		cumWeight[i] = weight
		cumMean[i] = mean
	}
	totalMean := cumMean[Bins-1]

	best := -1
	maxVariance := 0.0
	for t := 0; t < Bins; t++ {
		w0 := cumWeight[t]
		w1 := 1.0 - w0
		if w0 < MinClassWeight || w1 < MinClassWeight {
			continue
		}
		mu0 := cumMean[t] / w0
		mu1 := (totalMean - cumMean[t]) / w1
		diff := mu0 - mu1
		variance := w0 * w1 * diff * diff
		if variance > maxVariance {
			maxVariance = variance
			best = t
		}
	}

	if best < 0 {
		lo, hi := h.Bounds()
		if hi < 0 {
			return 127
		}
		return (lo + hi) / 2
	}
	return best
}
