package filters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/filters"
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

func TestApplyBrightnessShiftsChannels(t *testing.T) {
	t.Parallel()

	src := solidBuffer(t, 1, 1, 100, 120, 140, 255)

	out, err := filters.ApplyBrightness(src, 30, false)
	require.NoError(t, err)
	r, g, b, _ := out.RGBAAt(0, 0)
	assert.Equal(t, [3]uint8{130, 150, 170}, [3]uint8{r, g, b})

	out, err = filters.ApplyBrightness(src, -30, false)
	require.NoError(t, err)
	r, g, b, _ = out.RGBAAt(0, 0)
	assert.Equal(t, [3]uint8{70, 90, 110}, [3]uint8{r, g, b})
}

func TestApplyBrightnessClamps(t *testing.T) {
	t.Parallel()

	src := solidBuffer(t, 1, 1, 250, 5, 128, 255)

	out, err := filters.ApplyBrightness(src, 100, false)
	require.NoError(t, err)
	r, g, b, _ := out.RGBAAt(0, 0)
	assert.Equal(t, [3]uint8{255, 105, 228}, [3]uint8{r, g, b})

	out, err = filters.ApplyBrightness(src, -100, false)
	require.NoError(t, err)
	r, g, b, _ = out.RGBAAt(0, 0)
	assert.Equal(t, [3]uint8{150, 0, 28}, [3]uint8{r, g, b})
}

func TestApplyBrightnessZeroLeavesValues(t *testing.T) {
	t.Parallel()

	src := solidBuffer(t, 2, 2, 1, 2, 3, 4)
	out, err := filters.ApplyBrightness(src, 0, false)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix)

	out.SetRGBA(0, 0, 9, 9, 9, 9)
	r, _, _, _ := src.RGBAAt(0, 0)
	assert.Equal(t, uint8(1), r, "output must not alias the source")
}

func TestApplyBrightnessValidatesAmount(t *testing.T) {
	t.Parallel()

	src := solidBuffer(t, 1, 1, 0, 0, 0, 255)

	for _, amount := range []int{-101, 101, 1000} {
		_, err := filters.ApplyBrightness(src, amount, false)
		require.Error(t, err, "amount %d", amount)
		assert.Contains(t, err.Error(), "amount must be in range [-100, 100]")
	}
}

func TestApplyBrightnessAlphaHandling(t *testing.T) {
	t.Parallel()

	src := solidBuffer(t, 2, 1, 100, 100, 100, 255)
	src.SetRGBA(1, 0, 100, 100, 100, 0)

	out, err := filters.ApplyBrightness(src, 50, false)
	require.NoError(t, err)
	assert.Equal(t, alphaChannel(src), alphaChannel(out))
	r, _, _, _ := out.RGBAAt(1, 0)
	assert.Equal(t, uint8(150), r, "without preserveAlpha the color still shifts")

	out, err = filters.ApplyBrightness(src, 50, true)
	require.NoError(t, err)
	r, g, b, a := out.RGBAAt(1, 0)
	assert.Equal(t, [4]uint8{100, 100, 100, 0}, [4]uint8{r, g, b, a})
}

func TestApplyBrightnessDoesNotMutateSource(t *testing.T) {
	t.Parallel()

	src := solidBuffer(t, 2, 2, 10, 20, 30, 255)
	snapshot := src.Clone()

	_, err := filters.ApplyBrightness(src, 99, false)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Pix, src.Pix)
}

func TestApplyBrightnessNilBuffer(t *testing.T) {
	t.Parallel()

	_, err := filters.ApplyBrightness(nil, 10, false)
	require.ErrorIs(t, err, pixel.ErrNilBuffer)
}
