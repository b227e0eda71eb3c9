package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/filters"
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/logger"
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

// ProcessingMetrics reports what one pipeline run did.
type ProcessingMetrics struct {
	Duration  time.Duration
	Threshold int
	Stages    []string
}

// Processor runs the fixed stage sequence over a pixel buffer: grayscale,
// optional background removal, histogram equalization, binarization, then
// brightness and contrast fine-tuning. Once the background has been
// removed, every later stage runs in alpha-preserving mode so transparent
// regions stay out of the statistics and keep their bytes.
type Processor struct {
	logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
	return &Processor{logger: log}
}

// Process runs the pipeline without cancellation.
func (p *Processor) Process(buf *pixel.Buffer, params Params) (*pixel.Buffer, *ProcessingMetrics, error) {
	return p.ProcessWithContext(context.Background(), buf, params)
}

// ProcessWithContext runs the pipeline, checking ctx between stages. The
// stages themselves are synchronous; cancellation takes effect at the next
// stage boundary.
func (p *Processor) ProcessWithContext(ctx context.Context, buf *pixel.Buffer, params Params) (*pixel.Buffer, *ProcessingMetrics, error) {
	if err := pixel.Validate("pipeline.Process", buf); err != nil {
		return nil, nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	metrics := &ProcessingMetrics{}

	current, err := filters.Grayscale(buf)
	if err != nil {
		return nil, nil, fmt.Errorf("grayscale stage: %w", err)
	}
	p.logStage("grayscale", metrics)

	preserveAlpha := false
	if params.RemoveBackground {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		current, err = filters.RemoveBackground(current, params.BackgroundSensitivity)
		if err != nil {
			return nil, nil, fmt.Errorf("background removal stage: %w", err)
		}
		preserveAlpha = true
		p.logStage("remove-background", metrics)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	current, err = filters.Equalize(current, preserveAlpha)
	if err != nil {
		return nil, nil, fmt.Errorf("equalize stage: %w", err)
	}
	p.logStage("equalize", metrics)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	threshold := params.Threshold
	if params.AutoThreshold {
		threshold, err = filters.OptimalThreshold(current, preserveAlpha)
		if err != nil {
			return nil, nil, fmt.Errorf("threshold selection: %w", err)
		}
	}
	current, err = filters.ApplyThreshold(current, threshold, preserveAlpha)
	if err != nil {
		return nil, nil, fmt.Errorf("threshold stage: %w", err)
	}
	metrics.Threshold = threshold
	p.logStage("threshold", metrics)

	if params.Brightness != 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		current, err = filters.ApplyBrightness(current, params.Brightness, preserveAlpha)
		if err != nil {
			return nil, nil, fmt.Errorf("brightness stage: %w", err)
		}
		p.logStage("brightness", metrics)
	}

	if params.Contrast != 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		current, err = filters.ApplyContrast(current, params.Contrast, preserveAlpha)
		if err != nil {
			return nil, nil, fmt.Errorf("contrast stage: %w", err)
		}
		p.logStage("contrast", metrics)
	}

	metrics.Duration = time.Since(start)

	p.logger.Info("ImageProcessor", "processing completed", logger.Fields{
		"input_size":      fmt.Sprintf("%dx%d", buf.Width, buf.Height),
		"stages":          metrics.Stages,
		"threshold":       metrics.Threshold,
		"processing_time": metrics.Duration,
	})

	return current, metrics, nil
}

func (p *Processor) logStage(stage string, metrics *ProcessingMetrics) {
	metrics.Stages = append(metrics.Stages, stage)
	p.logger.Debug("ImageProcessor", "stage completed", logger.Fields{
		"stage": stage,
	})
}
