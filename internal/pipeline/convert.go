package pipeline

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// bufferFromImage converts any decoded image into a pixel buffer. Cloning
// through the imaging package normalizes every source type to NRGBA, whose
// non-premultiplied interleaved layout matches the buffer byte for byte.
func bufferFromImage(img image.Image) (*pixel.Buffer, error) {
	if img == nil {
		return nil, fmt.Errorf("pipeline: cannot convert nil image")
	}
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	return pixel.NewFromPix(bounds.Dx(), bounds.Dy(), nrgba.Pix)
}

// imageFromBuffer wraps a pixel buffer as a standard library image for
// encoding. The pixel bytes are shared, not copied.
func imageFromBuffer(buf *pixel.Buffer) (*image.NRGBA, error) {
	if err := pixel.Validate("pipeline.imageFromBuffer", buf); err != nil {
		return nil, err
	}
	return &image.NRGBA{
		Pix:    buf.Pix,
		Stride: buf.Width * pixel.Channels,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}, nil
}
