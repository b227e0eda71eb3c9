package pipeline

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/logger"
)

// jpegQuality matches the export quality of mainstream editors.
const jpegQuality = 95

// Saver encodes processed buffers. PNG is the default and the only format
// here that keeps the alpha mask produced by background removal.
type Saver struct {
	logger logger.Logger
}

func NewSaver(log logger.Logger) *Saver {
	return &Saver{logger: log}
}

// SaveToWriter encodes data in the given format: "png", "jpeg", "bmp" or
// "tiff". An empty format falls back to the source format. Formats without
// an encoder, such as webp, degrade to PNG with a warning.
func (s *Saver) SaveToWriter(w io.Writer, data *ImageData, format string) error {
	if data == nil || data.Buffer == nil {
		return fmt.Errorf("no image data to save")
	}

	img, err := imageFromBuffer(data.Buffer)
	if err != nil {
		return fmt.Errorf("save image: %w", err)
	}

	saveFormat := strings.ToLower(format)
	if saveFormat == "" {
		saveFormat = data.Format
	}

	switch saveFormat {
	case "jpeg", "jpg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff", "tif":
		err = tiff.Encode(w, img, nil)
	case "png":
		err = png.Encode(w, img)
	default:
		if saveFormat != "" && saveFormat != "unknown" {
			s.logger.Warning("ImageSaver", "format not supported, using PNG", logger.Fields{
				"requested_format": saveFormat,
			})
		}
		saveFormat = "png"
		err = png.Encode(w, img)
	}

	if err != nil {
		s.logger.Error("ImageSaver", err, logger.Fields{
			"format": saveFormat,
		})
		return fmt.Errorf("encode %s image: %w", saveFormat, err)
	}

	s.logger.Info("ImageSaver", "image saved", logger.Fields{
		"format": saveFormat,
	})

	return nil
}

// SaveToFile writes data to path, deriving the format from the extension.
func (s *Saver) SaveToFile(path string, data *ImageData) error {
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".bmp":
		format = "bmp"
	case ".tiff", ".tif":
		format = "tiff"
	case ".png":
		format = "png"
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := s.SaveToWriter(f, data, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
