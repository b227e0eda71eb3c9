package main

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/logger"
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pipeline"
)

// writeTestPNG writes a 4x4 two-tone image: top half gray 40, bottom half
// gray 220.
func writeTestPNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		v := uint8(40)
		if y >= 2 {
			v = 220
		}
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestParseFlags(t *testing.T) {
	t.Parallel()

	opts, err := parseFlags([]string{"-in", "scan.png", "-threshold", "180", "-remove-bg"})
	require.NoError(t, err)
	assert.Equal(t, "scan.png", opts.input)
	assert.Equal(t, 180, opts.threshold)
	assert.True(t, opts.removeBG)
	assert.True(t, opts.isSet("threshold"))
	assert.False(t, opts.isSet("brightness"))
}

func TestParseFlagsDefaults(t *testing.T) {
	t.Parallel()

	opts, err := parseFlags([]string{"-in", "scan.png"})
	require.NoError(t, err)
	assert.Equal(t, -1, opts.threshold, "auto threshold by default")
	assert.Equal(t, 50, opts.bgSensitivity)
	assert.Equal(t, 0, opts.workers)
	assert.False(t, opts.logJSON)
}

func TestParseFlagsRejectsBadInvocations(t *testing.T) {
	t.Parallel()

	_, err := parseFlags([]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-in is required")

	_, err = parseFlags([]string{"-in", "scan.png", "extra"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected arguments")
}

func TestParseFlagsAllowsPresetOnlyRuns(t *testing.T) {
	t.Parallel()

	opts, err := parseFlags([]string{"-save-preset", "p.toml", "-brightness", "10"})
	require.NoError(t, err)
	assert.Equal(t, "p.toml", opts.savePreset)
	assert.Empty(t, opts.input)
}

func TestResolveParamsDefaults(t *testing.T) {
	t.Parallel()

	opts := &options{setFlags: map[string]bool{}}
	params, err := resolveParams(opts)
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultParams(), params)
}

func TestResolveParamsManualThreshold(t *testing.T) {
	t.Parallel()

	opts := &options{
		threshold: 180,
		setFlags:  map[string]bool{"threshold": true},
	}
	params, err := resolveParams(opts)
	require.NoError(t, err)
	assert.False(t, params.AutoThreshold)
	assert.Equal(t, 180, params.Threshold)
}

func TestResolveParamsRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	opts := &options{
		threshold: 300,
		setFlags:  map[string]bool{"threshold": true},
	}
	_, err := resolveParams(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold must be in range [0, 255]")
	assert.Contains(t, err.Error(), "300")
}

func TestResolveParamsFlagsOverridePreset(t *testing.T) {
	t.Parallel()

	presetPath := filepath.Join(t.TempDir(), "engrave.toml")
	require.NoError(t, pipeline.SavePreset(presetPath, "engrave", pipeline.Params{
		Brightness:            5,
		Contrast:              10,
		Threshold:             77,
		BackgroundSensitivity: 50,
	}))

	opts := &options{
		presetPath: presetPath,
		contrast:   -20,
		setFlags:   map[string]bool{"contrast": true},
	}
	params, err := resolveParams(opts)
	require.NoError(t, err)
	assert.Equal(t, 5, params.Brightness, "preset value survives")
	assert.Equal(t, -20, params.Contrast, "explicit flag wins")
	assert.False(t, params.AutoThreshold)
	assert.Equal(t, 77, params.Threshold)

	// An explicit -threshold -1 switches a manual preset back to auto.
	opts = &options{
		presetPath: presetPath,
		threshold:  -1,
		setFlags:   map[string]bool{"threshold": true},
	}
	params, err = resolveParams(opts)
	require.NoError(t, err)
	assert.True(t, params.AutoThreshold)
}

func TestDerivedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		format string
		want   string
	}{
		{"scan.png", "", "scan_laserprep.png"},
		{"photo.jpeg", "png", "photo_laserprep.png"},
		{"dir/archive.TIF", "", "archive_laserprep.tif"},
		{"noext", "", "noext_laserprep.png"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, derivedName(tc.input, tc.format), tc.input)
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	opts := &options{setFlags: map[string]bool{}}
	assert.Equal(t, filepath.Join("in", "scan_laserprep.png"),
		outputPath(filepath.Join("in", "scan.png"), opts))

	opts.output = dir
	assert.Equal(t, filepath.Join(dir, "scan_laserprep.png"),
		outputPath("scan.png", opts))

	opts.output = filepath.Join(dir, "explicit.png")
	assert.Equal(t, filepath.Join(dir, "explicit.png"),
		outputPath("scan.png", opts))
}

func TestExpandInputs(t *testing.T) {
	t.Parallel()

	paths, err := expandInputs("plain.png")
	require.NoError(t, err)
	assert.Equal(t, []string{"plain.png"}, paths)

	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "a.png"))
	writeTestPNG(t, filepath.Join(dir, "b.png"))

	paths, err = expandInputs(filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	_, err = expandInputs(filepath.Join(dir, "*.bmp"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files match")
}

func TestRunSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "scan.png")
	out := filepath.Join(dir, "result.png")
	writeTestPNG(t, in)

	opts := &options{
		input:     in,
		output:    out,
		threshold: 128,
		setFlags:  map[string]bool{"threshold": true},
	}
	require.NoError(t, run(context.Background(), logger.NewNop(), opts))

	data, err := pipeline.NewLoader(logger.NewNop(), 0).LoadFromFile(out)
	require.NoError(t, err)
	assert.Equal(t, 4, data.Width)
	assert.Equal(t, 4, data.Height)
	for i := 0; i < len(data.Buffer.Pix); i += 4 {
		assert.Contains(t, []uint8{0, 255}, data.Buffer.Pix[i])
	}
}

func TestRunBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		writeTestPNG(t, filepath.Join(dir, name))
	}
	outDir := filepath.Join(dir, "out")

	opts := &options{
		input:    filepath.Join(dir, "*.png"),
		output:   outDir,
		workers:  2,
		setFlags: map[string]bool{},
	}
	require.NoError(t, run(context.Background(), logger.NewNop(), opts))

	for _, name := range []string{"a_laserprep.png", "b_laserprep.png", "c_laserprep.png"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestRunBatchRequiresOutputDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "a.png"))
	writeTestPNG(t, filepath.Join(dir, "b.png"))

	opts := &options{
		input:    filepath.Join(dir, "*.png"),
		setFlags: map[string]bool{},
	}
	err := run(context.Background(), logger.NewNop(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch mode requires -out")
}

func TestRunSavePresetOnly(t *testing.T) {
	t.Parallel()

	presetPath := filepath.Join(t.TempDir(), "dark.toml")
	opts := &options{
		savePreset: presetPath,
		brightness: 15,
		threshold:  200,
		setFlags:   map[string]bool{"brightness": true, "threshold": true},
	}
	require.NoError(t, run(context.Background(), logger.NewNop(), opts))

	params, err := pipeline.LoadPreset(presetPath)
	require.NoError(t, err)
	assert.Equal(t, 15, params.Brightness)
	assert.False(t, params.AutoThreshold)
	assert.Equal(t, 200, params.Threshold)
}
