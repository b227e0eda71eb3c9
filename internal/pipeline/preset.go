package pipeline

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Preset is the on-disk TOML form of Params. A negative threshold selects
// automatic mode, everything else is taken literally.
type Preset struct {
	Name                  string `toml:"name"`
	Brightness            int    `toml:"brightness"`
	Contrast              int    `toml:"contrast"`
	Threshold             int    `toml:"threshold"`
	RemoveBackground      bool   `toml:"remove_background"`
	BackgroundSensitivity int    `toml:"background_sensitivity"`
}

// Params converts the preset, mapping negative thresholds to auto mode.
func (p Preset) Params() Params {
	params := Params{
		Brightness:            p.Brightness,
		Contrast:              p.Contrast,
		AutoThreshold:         p.Threshold < 0,
		Threshold:             p.Threshold,
		RemoveBackground:      p.RemoveBackground,
		BackgroundSensitivity: p.BackgroundSensitivity,
	}
	if params.AutoThreshold {
		params.Threshold = DefaultParams().Threshold
	}
	return params
}

// LoadPreset reads a TOML preset file into validated Params.
func LoadPreset(path string) (Params, error) {
	var preset Preset
	if _, err := toml.DecodeFile(path, &preset); err != nil {
		return Params{}, fmt.Errorf("load preset %s: %w", path, err)
	}

	params := preset.Params()
	if err := params.Validate(); err != nil {
		return Params{}, fmt.Errorf("load preset %s: %w", path, err)
	}
	return params, nil
}

// SavePreset writes params as a TOML preset under the given name.
func SavePreset(path, name string, params Params) error {
	preset := Preset{
		Name:                  name,
		Brightness:            params.Brightness,
		Contrast:              params.Contrast,
		Threshold:             params.Threshold,
		RemoveBackground:      params.RemoveBackground,
		BackgroundSensitivity: params.BackgroundSensitivity,
	}
	if params.AutoThreshold {
		preset.Threshold = -1
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save preset %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(preset); err != nil {
		f.Close()
		return fmt.Errorf("save preset %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save preset %s: %w", path, err)
	}
	return nil
}
