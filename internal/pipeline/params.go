// Package pipeline sequences the filter stages and bridges decoded images
// in and encoded images out. Decoding, encoding, presets, cancellation and
// logging live here; the algorithm packages stay pure.
package pipeline

import (
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// Params carries the parameters of one processing run. The zero value is
// not the default configuration; use DefaultParams.
type Params struct {
	// Brightness shifts channel values by [-100, 100].
	Brightness int
	// Contrast scales channel values around the 127 pivot, [-100, 100].
	Contrast int
	// AutoThreshold selects the binarization cut with Otsu's method.
	// When false, Threshold is used as-is.
	AutoThreshold bool
	// Threshold is the manual binarization cut in [0, 255]. Ignored
	// while AutoThreshold is set.
	Threshold int
	// RemoveBackground turns corner-colored regions transparent before
	// the tonal stages run.
	RemoveBackground bool
	// BackgroundSensitivity is the color distance tolerance [0, 255]
	// for background removal.
	BackgroundSensitivity int
}

// DefaultParams mirrors the one-click auto-prep flow: automatic threshold,
// neutral adjustments, background removal off.
func DefaultParams() Params {
	return Params{
		AutoThreshold:         true,
		Threshold:             128,
		BackgroundSensitivity: 50,
	}
}

// Validate checks every scalar against its documented range. Threshold is
// only checked in manual mode and the sensitivity only when background
// removal is enabled, so presets may carry inactive values.
func (p Params) Validate() error {
	if err := pixel.ValidateRange("pipeline.Params", "brightness", p.Brightness, -100, 100); err != nil {
		return err
	}
	if err := pixel.ValidateRange("pipeline.Params", "contrast", p.Contrast, -100, 100); err != nil {
		return err
	}
	if !p.AutoThreshold {
		if err := pixel.ValidateRange("pipeline.Params", "threshold", p.Threshold, 0, 255); err != nil {
			return err
		}
	}
	if p.RemoveBackground {
		if err := pixel.ValidateRange("pipeline.Params", "backgroundSensitivity", p.BackgroundSensitivity, 0, 255); err != nil {
			return err
		}
	}
	return nil
}
