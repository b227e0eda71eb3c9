package pipeline

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/logger"
)

// Loader decodes image streams into pixel buffers. When maxDimension is
// positive, larger images are downscaled proportionally with Lanczos
// resampling before conversion.
type Loader struct {
	logger       logger.Logger
	maxDimension int
}

func NewLoader(log logger.Logger, maxDimension int) *Loader {
	return &Loader{logger: log, maxDimension: maxDimension}
}

// LoadFromReader decodes a single image stream. name is used for format
// sniffing and log context only.
func (l *Loader) LoadFromReader(r io.Reader, name string) (*ImageData, error) {
	img, decodedFormat, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", name, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if l.maxDimension > 0 && (width > l.maxDimension || height > l.maxDimension) {
		img = imaging.Fit(img, l.maxDimension, l.maxDimension, imaging.Lanczos)
		resized := img.Bounds()
		l.logger.Info("ImageLoader", "image downscaled", logger.Fields{
			"from": fmt.Sprintf("%dx%d", width, height),
			"to":   fmt.Sprintf("%dx%d", resized.Dx(), resized.Dy()),
		})
		width, height = resized.Dx(), resized.Dy()
	}

	buf, err := bufferFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("convert image %s: %w", name, err)
	}

	data := &ImageData{
		Buffer:     buf,
		Width:      width,
		Height:     height,
		Format:     determineFormat(name, decodedFormat),
		SourcePath: name,
	}

	l.logger.Info("ImageLoader", "image loaded", logger.Fields{
		"width":  data.Width,
		"height": data.Height,
		"format": data.Format,
	})

	return data, nil
}

// LoadFromFile opens and decodes path.
func (l *Loader) LoadFromFile(path string) (*ImageData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()
	return l.LoadFromReader(f, path)
}

// determineFormat prefers the file extension over the decoder's registered
// format name, so saving defaults to the format the user handed in.
func determineFormat(name, decodedFormat string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		if decodedFormat != "" {
			return decodedFormat
		}
		return "unknown"
	}
}
