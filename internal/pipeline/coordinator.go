package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/logger"
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// ImageLoader decodes image sources into pixel buffers.
type ImageLoader interface {
	LoadFromReader(r io.Reader, name string) (*ImageData, error)
	LoadFromFile(path string) (*ImageData, error)
}

// ImageProcessor runs the filter pipeline over a buffer.
type ImageProcessor interface {
	Process(buf *pixel.Buffer, params Params) (*pixel.Buffer, *ProcessingMetrics, error)
	ProcessWithContext(ctx context.Context, buf *pixel.Buffer, params Params) (*pixel.Buffer, *ProcessingMetrics, error)
}

// ImageSaver encodes pixel buffers to image streams.
type ImageSaver interface {
	SaveToWriter(w io.Writer, data *ImageData, format string) error
	SaveToFile(path string, data *ImageData) error
}

// ImageData pairs a pixel buffer with its source metadata.
type ImageData struct {
	Buffer     *pixel.Buffer
	Width      int
	Height     int
	Format     string
	SourcePath string
}

// Coordinator owns the original and processed image pair and serializes
// pipeline runs over it. Safe for concurrent use; one run executes at a
// time.
type Coordinator struct {
	mu             sync.RWMutex
	originalImage  *ImageData
	processedImage *ImageData

	loader    ImageLoader
	processor ImageProcessor
	saver     ImageSaver
	logger    logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewCoordinator wires a loader, processor and saver around the shared
// logger. maxDimension caps loaded image dimensions; zero disables the cap.
func NewCoordinator(log logger.Logger, maxDimension int) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())

	coord := &Coordinator{
		loader:    NewLoader(log, maxDimension),
		processor: NewProcessor(log),
		saver:     NewSaver(log),
		logger:    log,
		ctx:       ctx,
		cancel:    cancel,
	}

	log.Debug("PipelineCoordinator", "initialized", nil)
	return coord
}

// LoadImage decodes r and replaces the held original; any previously
// processed result is dropped.
func (c *Coordinator) LoadImage(r io.Reader, name string) (*ImageData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	data, err := c.loader.LoadFromReader(r, name)
	if err != nil {
		c.logger.Error("PipelineCoordinator", err, logger.Fields{
			"operation": "load_image",
			"source":    name,
		})
		return nil, err
	}

	c.originalImage = data
	c.processedImage = nil

	c.logger.Info("PipelineCoordinator", "image loaded", logger.Fields{
		"width":     data.Width,
		"height":    data.Height,
		"format":    data.Format,
		"load_time": time.Since(start),
	})
	return data, nil
}

// LoadImageFromFile is LoadImage reading from a file path.
func (c *Coordinator) LoadImageFromFile(path string) (*ImageData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	data, err := c.loader.LoadFromFile(path)
	if err != nil {
		c.logger.Error("PipelineCoordinator", err, logger.Fields{
			"operation": "load_image",
			"source":    path,
		})
		return nil, err
	}

	c.originalImage = data
	c.processedImage = nil

	c.logger.Info("PipelineCoordinator", "image loaded", logger.Fields{
		"width":     data.Width,
		"height":    data.Height,
		"format":    data.Format,
		"load_time": time.Since(start),
	})
	return data, nil
}

// ProcessImage runs the pipeline over the held original under the
// coordinator's own context.
func (c *Coordinator) ProcessImage(params Params) (*ImageData, *ProcessingMetrics, error) {
	return c.ProcessImageWithContext(c.ctx, params)
}

// ProcessImageWithContext runs the pipeline over the held original and
// stores the result as the processed image.
func (c *Coordinator) ProcessImageWithContext(ctx context.Context, params Params) (*ImageData, *ProcessingMetrics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.originalImage == nil {
		return nil, nil, fmt.Errorf("no image loaded")
	}

	operationID := uuid.NewString()
	result, metrics, err := c.processor.ProcessWithContext(ctx, c.originalImage.Buffer, params)
	if err != nil {
		c.logger.Error("PipelineCoordinator", err, logger.Fields{
			"operation":    "process_image",
			"operation_id": operationID,
		})
		return nil, nil, err
	}

	processed := &ImageData{
		Buffer:     result,
		Width:      result.Width,
		Height:     result.Height,
		Format:     c.originalImage.Format,
		SourcePath: c.originalImage.SourcePath,
	}
	c.processedImage = processed

	c.logger.Info("PipelineCoordinator", "image processed", logger.Fields{
		"operation_id":    operationID,
		"width":           processed.Width,
		"height":          processed.Height,
		"threshold":       metrics.Threshold,
		"processing_time": metrics.Duration,
	})

	return processed, metrics, nil
}

// SaveImage encodes the processed image to w. format "" uses the source
// format.
func (c *Coordinator) SaveImage(w io.Writer, format string) error {
	c.mu.RLock()
	processed := c.processedImage
	c.mu.RUnlock()

	if processed == nil {
		return fmt.Errorf("no processed image to save")
	}

	start := time.Now()
	if err := c.saver.SaveToWriter(w, processed, format); err != nil {
		c.logger.Error("PipelineCoordinator", err, logger.Fields{
			"operation": "save_image",
			"format":    format,
		})
		return err
	}

	c.logger.Info("PipelineCoordinator", "image saved", logger.Fields{
		"format":    format,
		"save_time": time.Since(start),
	})
	return nil
}

// SaveImageToFile writes the processed image to path, deriving the format
// from the extension.
func (c *Coordinator) SaveImageToFile(path string) error {
	c.mu.RLock()
	processed := c.processedImage
	c.mu.RUnlock()

	if processed == nil {
		return fmt.Errorf("no processed image to save")
	}

	start := time.Now()
	if err := c.saver.SaveToFile(path, processed); err != nil {
		c.logger.Error("PipelineCoordinator", err, logger.Fields{
			"operation": "save_image",
			"path":      path,
		})
		return err
	}

	c.logger.Info("PipelineCoordinator", "image saved", logger.Fields{
		"path":      path,
		"save_time": time.Since(start),
	})
	return nil
}

// GetOriginalImage returns the held original, or nil.
func (c *Coordinator) GetOriginalImage() *ImageData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.originalImage
}

// GetProcessedImage returns the latest processed result, or nil.
func (c *Coordinator) GetProcessedImage() *ImageData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.processedImage
}

// Reset drops both held images.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.originalImage = nil
	c.processedImage = nil
}

// Context exposes the coordinator's lifetime context.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Cancel aborts in-flight and future coordinator-context runs.
func (c *Coordinator) Cancel() {
	c.cancel()
}
