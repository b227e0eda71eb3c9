package filters

import (
	"errors"
	"fmt"
	"math"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// DefaultQueueLimit caps how many pixels one background removal may enqueue
// during flood fill. The ceiling turns pathological inputs, such as a huge
// canvas that is nearly all background, into a deterministic error instead
// of unbounded work.
const DefaultQueueLimit = 1_000_000

// ErrQueueLimitExceeded reports that background removal hit its flood fill
// queue ceiling. Callers can retry with a smaller image or a lower
// sensitivity.
var ErrQueueLimitExceeded = errors.New("flood fill queue limit exceeded")

// RemoveBackground samples the background color from the image corners and
// flood-fills every connected region of similar color to transparency.
// sensitivity in [0, 255] is the maximum Euclidean RGB distance a pixel may
// have from the sampled color to be removed: 0 removes exact matches only,
// 255 removes almost anything reachable. Filled pixels get alpha 0, all
// other pixels alpha 255; color bytes are copied through either way so the
// mask stays reversible.
func RemoveBackground(src *pixel.Buffer, sensitivity int) (*pixel.Buffer, error) {
	return RemoveBackgroundWithLimit(src, sensitivity, DefaultQueueLimit)
}

// RemoveBackgroundWithLimit is RemoveBackground with an explicit flood fill
// queue ceiling.
func RemoveBackgroundWithLimit(src *pixel.Buffer, sensitivity, queueLimit int) (*pixel.Buffer, error) {
	if err := pixel.Validate("filters.RemoveBackground", src); err != nil {
		return nil, err
	}
	if err := pixel.ValidateRange("filters.RemoveBackground", "sensitivity", sensitivity, 0, 255); err != nil {
		return nil, err
	}
	if queueLimit <= 0 {
		return nil, fmt.Errorf("filters.RemoveBackground: queueLimit must be positive, got %d", queueLimit)
	}

	background := sampleBackgroundColor(src)
	fill, err := floodFillBackground(src, background, float64(sensitivity), queueLimit)
	if err != nil {
		return nil, err
	}

	dst, err := pixel.New(src.Width, src.Height)
	if err != nil {
		return nil, err
	}
	for idx := 0; idx < src.PixelCount(); idx++ {
		off := idx * pixel.Channels
		dst.Pix[off] = src.Pix[off]
		dst.Pix[off+1] = src.Pix[off+1]
		dst.Pix[off+2] = src.Pix[off+2]
		if fill[idx] {
			dst.Pix[off+3] = 0
		} else {
			dst.Pix[off+3] = 255
		}
	}
	return dst, nil
}

// sampleBackgroundColor picks the modal color of the four corner pixels, so
// one odd corner cannot hijack the estimate. Ties resolve to the earliest
// corner in top-left, top-right, bottom-left, bottom-right order.
func sampleBackgroundColor(src *pixel.Buffer) pixel.RGB {
	corners := cornerIndices(src)

	var colors [4]pixel.RGB
	for i, idx := range corners {
		colors[i] = rgbAt(src, idx)
	}

	best := colors[0]
	bestCount := 0
	for _, candidate := range colors {
		count := 0
		for _, other := range colors {
			if candidate == other {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			best = candidate
		}
	}
	return best
}

// cornerIndices returns the linear pixel indices of the four corners in
// top-left, top-right, bottom-left, bottom-right order. On single-row or
// single-column images some entries coincide.
func cornerIndices(src *pixel.Buffer) [4]int {
	w, h := src.Width, src.Height
	return [4]int{0, w - 1, (h - 1) * w, h*w - 1}
}

func rgbAt(src *pixel.Buffer, idx int) pixel.RGB {
	off := idx * pixel.Channels
	return pixel.RGB{R: src.Pix[off], G: src.Pix[off+1], B: src.Pix[off+2]}
}

// colorDistance is the Euclidean distance between two colors in RGB space,
// from 0 for identical colors to about 441 for black against white.
func colorDistance(a, b pixel.RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// floodFillBackground grows the background region from each corner seed
// with an iterative breadth-first search over 4-connected neighbors. The
// search is queue-based because recursion depth would scale with region
// size. A visited set shared across the seeds makes the result the union
// of the four fills without rescanning; every enqueue counts against
// queueLimit and exceeding it aborts the whole operation.
func floodFillBackground(src *pixel.Buffer, background pixel.RGB, tolerance float64, queueLimit int) ([]bool, error) {
	w, h := src.Width, src.Height
	visited := make([]bool, w*h)
	fill := make([]bool, w*h)

	queue := make([]int, 0, 1024)
	queued := 0

	enqueue := func(idx int) error {
		queued++
		if queued > queueLimit {
			return fmt.Errorf("filters.RemoveBackground: %d pixels queued: %w", queued, ErrQueueLimitExceeded)
		}
		queue = append(queue, idx)
		return nil
	}

	for _, corner := range cornerIndices(src) {
		if visited[corner] {
			continue
		}
		visited[corner] = true
		if colorDistance(rgbAt(src, corner), background) > tolerance {
			continue
		}
		fill[corner] = true
		if err := enqueue(corner); err != nil {
			return nil, err
		}

		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			x := idx % w
			y := idx / w

			var neighbors [4]int
			n := 0
			if x > 0 {
				neighbors[n] = idx - 1
				n++
			}
			if x < w-1 {
				neighbors[n] = idx + 1
				n++
			}
			if y > 0 {
				neighbors[n] = idx - w
				n++
			}
			if y < h-1 {
				neighbors[n] = idx + w
				n++
			}

			for _, next := range neighbors[:n] {
				if visited[next] {
					continue
				}
				visited[next] = true
				if colorDistance(rgbAt(src, next), background) > tolerance {
					continue
				}
				fill[next] = true
				if err := enqueue(next); err != nil {
					return nil, err
				}
			}
		}
	}
	return fill, nil
}
