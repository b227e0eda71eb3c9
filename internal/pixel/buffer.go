// Package pixel defines the RGBA buffer every pipeline stage operates on,
// along with the validation helpers shared across the processing packages.
package pixel

const (
	// Channels is the number of interleaved byte channels per pixel.
	Channels = 4

	// MaxDimension bounds width and height so buffer allocations stay
	// within sane limits even for hostile inputs.
	MaxDimension = 32768
)

// Buffer is a fixed-size RGBA pixel grid. Pix holds non-premultiplied
// R, G, B, A bytes in row-major order and its length is always
// Width*Height*Channels. Transforms treat buffers as immutable: they
// allocate a fresh output and never write to their input.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// RGB is an opaque color triple, used for background color sampling.
type RGB struct {
	R, G, B uint8
}

// New returns a zeroed buffer (transparent black) of the given dimensions.
func New(width, height int) (*Buffer, error) {
	if err := validateDimensions("pixel.New", width, height); err != nil {
		return nil, err
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}, nil
}

// NewFromPix wraps an existing pixel slice after validating its shape.
// The buffer takes ownership of pix.
func NewFromPix(width, height int, pix []uint8) (*Buffer, error) {
	if err := validateDimensions("pixel.NewFromPix", width, height); err != nil {
		return nil, err
	}
	if want := width * height * Channels; len(pix) != want {
		return nil, newLengthError("pixel.NewFromPix", len(pix), width, height)
	}
	return &Buffer{Width: width, Height: height, Pix: pix}, nil
}

// Clone returns a deep copy sharing no memory with the receiver.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Width:  b.Width,
		Height: b.Height,
		Pix:    make([]uint8, len(b.Pix)),
	}
	copy(out.Pix, b.Pix)
	return out
}

// PixelCount returns the number of pixels in the buffer.
func (b *Buffer) PixelCount() int {
	return b.Width * b.Height
}

// PixOffset returns the byte index of the pixel at (x, y).
func (b *Buffer) PixOffset(x, y int) int {
	return (y*b.Width + x) * Channels
}

// RGBAAt reads the pixel at (x, y).
func (b *Buffer) RGBAAt(x, y int) (r, g, blue, alpha uint8) {
	off := b.PixOffset(x, y)
	return b.Pix[off], b.Pix[off+1], b.Pix[off+2], b.Pix[off+3]
}

// SetRGBA writes the pixel at (x, y). It exists for buffer construction;
// pipeline transforms allocate new buffers instead of mutating.
func (b *Buffer) SetRGBA(x, y int, r, g, blue, alpha uint8) {
	off := b.PixOffset(x, y)
	b.Pix[off] = r
	b.Pix[off+1] = g
	b.Pix[off+2] = blue
	b.Pix[off+3] = alpha
}

// Clamp bounds v to the valid channel range [0, 255].
func Clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
