package filters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/filters"
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

func TestApplyThresholdValidatesRange(t *testing.T) {
	t.Parallel()

	src := grayBuffer(t, 1, 1, []uint8{128})

	out, err := filters.ApplyThreshold(src, 300, false)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "threshold must be in range [0, 255]")
	assert.Contains(t, err.Error(), "300")

	_, err = filters.ApplyThreshold(src, -1, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold must be in range [0, 255]")
}

func TestApplyThresholdBinarizes(t *testing.T) {
	t.Parallel()

	src := grayBuffer(t, 2, 2, []uint8{10, 100, 128, 250})
	out, err := filters.ApplyThreshold(src, 128, false)
	require.NoError(t, err)

	assert.Equal(t, []uint8{0, 0, 255, 255}, redChannel(out))
	for i := 0; i < len(out.Pix); i += pixel.Channels {
		assert.Equal(t, out.Pix[i], out.Pix[i+1])
		assert.Equal(t, out.Pix[i], out.Pix[i+2])
	}
}

func TestApplyThresholdBoundaryValues(t *testing.T) {
	t.Parallel()

	src := grayBuffer(t, 2, 1, []uint8{0, 254})

	out, err := filters.ApplyThreshold(src, 0, false)
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 255}, redChannel(out), "nothing is below 0")

	out, err = filters.ApplyThreshold(src, 255, false)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0}, redChannel(out), "everything below 255 turns black")
}

func TestApplyThresholdFusesGrayscaleConversion(t *testing.T) {
	t.Parallel()

	// Pure red has a BT.601 luminance of 76, so the cut must land
	// exactly there without a separate grayscale pass.
	src := solidBuffer(t, 1, 1, 255, 0, 0, 255)

	out, err := filters.ApplyThreshold(src, 77, false)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), out.Pix[0])

	out, err = filters.ApplyThreshold(src, 76, false)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), out.Pix[0])
}

func TestApplyThresholdPreservesAlphaBytes(t *testing.T) {
	t.Parallel()

	src := grayBuffer(t, 3, 1, []uint8{10, 100, 250})
	src.Pix[3] = 0
	src.Pix[7] = 128

	out, err := filters.ApplyThreshold(src, 128, false)
	require.NoError(t, err)
	assert.Equal(t, alphaChannel(src), alphaChannel(out))
}

func TestApplyThresholdPreserveAlphaKeepsTransparentColor(t *testing.T) {
	t.Parallel()

	src := solidBuffer(t, 2, 1, 200, 10, 30, 255)
	src.SetRGBA(1, 0, 200, 10, 30, 0)

	out, err := filters.ApplyThreshold(src, 128, true)
	require.NoError(t, err)

	r, g, b, a := out.RGBAAt(1, 0)
	assert.Equal(t, [4]uint8{200, 10, 30, 0}, [4]uint8{r, g, b, a})

	out, err = filters.ApplyThreshold(src, 128, false)
	require.NoError(t, err)
	r, g, b, a = out.RGBAAt(1, 0)
	assert.Equal(t, [4]uint8{0, 0, 0, 0}, [4]uint8{r, g, b, a}, "luminance 69 falls below the cut")
}

func TestApplyOtsuThresholdAllWhite(t *testing.T) {
	t.Parallel()

	src := solidBuffer(t, 10, 10, 255, 255, 255, 255)
	out, err := filters.ApplyOtsuThreshold(src, false)
	require.NoError(t, err)

	for _, v := range out.Pix {
		assert.Equal(t, uint8(255), v)
	}
}

func TestOptimalThresholdSkipTransparent(t *testing.T) {
	t.Parallel()

	src := grayBuffer(t, 2, 2, []uint8{100, 100, 100, 0})
	src.SetRGBA(1, 1, 0, 0, 0, 0)

	got, err := filters.OptimalThreshold(src, true)
	require.NoError(t, err)
	assert.Equal(t, 100, got, "single populated bin falls back to its own value")

	got, err = filters.OptimalThreshold(src, false)
	require.NoError(t, err)
	assert.Equal(t, 0, got, "counting the dark transparent pixel moves the cut")
}

func TestApplyOtsuThresholdNilBuffer(t *testing.T) {
	t.Parallel()

	_, err := filters.ApplyOtsuThreshold(nil, false)
	require.ErrorIs(t, err, pixel.ErrNilBuffer)
}
