// Command craftyprep prepares images for laser engraving. It decodes an
// image, runs the pixel pipeline over it (grayscale, optional background
// removal, histogram equalization, binarization, brightness and contrast)
// and writes the result. A glob input fans the work out to a bounded
// worker pool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"

	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/logger"
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/metrics"
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pipeline"
	"github.com/MuneroLtd/CraftyPrepEditor-sub006/internal/pixel"
)

const (
	appName    = "craftyprep"
	appVersion = "1.0.0"

	componentCLI = "CLI"

	defaultMaxWorkers = 4
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// options holds the parsed command line. setFlags records which flags were
// given explicitly so they can override preset values.
type options struct {
	input         string
	output        string
	format        string
	brightness    int
	contrast      int
	threshold     int
	removeBG      bool
	bgSensitivity int
	maxDimension  int
	presetPath    string
	savePreset    string
	referencePath string
	report        bool
	workers       int
	logLevel      string
	logJSON       bool
	showVersion   bool

	setFlags map[string]bool
}

func (o *options) isSet(name string) bool { return o.setFlags[name] }

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(exitOK)
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(exitUsage)
	}

	if opts.showVersion {
		fmt.Printf("%s %s\n", appName, appVersion)
		os.Exit(exitOK)
	}

	log := newLogger(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, opts); err != nil {
		log.Error(componentCLI, err, nil)
		os.Exit(exitError)
	}
}

func parseFlags(args []string) (*options, error) {
	opts := &options{setFlags: map[string]bool{}}

	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.StringVar(&opts.input, "in", "", "input image file or glob pattern (required)")
	fs.StringVar(&opts.output, "out", "", "output file, or directory for batch runs")
	fs.StringVar(&opts.format, "format", "", "output format for derived names: png, jpg, bmp or tiff")
	fs.IntVar(&opts.brightness, "brightness", 0, "brightness adjustment in [-100, 100]")
	fs.IntVar(&opts.contrast, "contrast", 0, "contrast adjustment in [-100, 100]")
	fs.IntVar(&opts.threshold, "threshold", -1, "binarization threshold in [0, 255], -1 selects Otsu")
	fs.BoolVar(&opts.removeBG, "remove-bg", false, "remove the background by corner flood fill")
	fs.IntVar(&opts.bgSensitivity, "bg-sensitivity", 50, "background color distance tolerance in [0, 255]")
	fs.IntVar(&opts.maxDimension, "max-dim", 0, "downscale images above this dimension, 0 keeps them as is")
	fs.StringVar(&opts.presetPath, "preset", "", "load parameters from a TOML preset file")
	fs.StringVar(&opts.savePreset, "save-preset", "", "write the effective parameters to a TOML preset file")
	fs.StringVar(&opts.referencePath, "reference", "", "score the result against a reference binary image")
	fs.BoolVar(&opts.report, "report", false, "print intensity statistics for the result")
	fs.IntVar(&opts.workers, "workers", 0, "batch worker count, 0 picks a default")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default LOG_LEVEL or info)")
	fs.BoolVar(&opts.logJSON, "log-json", false, "emit JSON logs instead of console output")
	fs.BoolVar(&opts.showVersion, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.setFlags[f.Name] = true })

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.input == "" && opts.savePreset == "" {
		return nil, errors.New("-in is required")
	}
	return opts, nil
}

func newLogger(opts *options) logger.Logger {
	levelName := opts.logLevel
	if levelName == "" {
		levelName = os.Getenv("LOG_LEVEL")
	}
	level := logger.ParseLevel(levelName)

	if opts.logJSON {
		return logger.New(os.Stderr, level)
	}
	return logger.NewConsole(level)
}

func run(ctx context.Context, log logger.Logger, opts *options) error {
	params, err := resolveParams(opts)
	if err != nil {
		return err
	}

	if opts.savePreset != "" {
		name := strings.TrimSuffix(filepath.Base(opts.savePreset), filepath.Ext(opts.savePreset))
		if err := pipeline.SavePreset(opts.savePreset, name, params); err != nil {
			return err
		}
		log.Info(componentCLI, "preset saved", logger.Fields{"path": opts.savePreset})
		if opts.input == "" {
			return nil
		}
	}

	inputs, err := expandInputs(opts.input)
	if err != nil {
		return err
	}

	if len(inputs) == 1 {
		return processOne(ctx, log, opts, params, inputs[0], outputPath(inputs[0], opts))
	}
	return processBatch(ctx, log, opts, params, inputs)
}

// resolveParams layers the parameter sources: defaults, then the preset if
// given, then any explicitly set flags.
func resolveParams(opts *options) (pipeline.Params, error) {
	params := pipeline.DefaultParams()

	if opts.presetPath != "" {
		loaded, err := pipeline.LoadPreset(opts.presetPath)
		if err != nil {
			return pipeline.Params{}, err
		}
		params = loaded
	}

	if opts.isSet("brightness") {
		params.Brightness = opts.brightness
	}
	if opts.isSet("contrast") {
		params.Contrast = opts.contrast
	}
	if opts.isSet("threshold") {
		if opts.threshold < 0 {
			params.AutoThreshold = true
			params.Threshold = pipeline.DefaultParams().Threshold
		} else {
			params.AutoThreshold = false
			params.Threshold = opts.threshold
		}
	}
	if opts.isSet("remove-bg") {
		params.RemoveBackground = opts.removeBG
	}
	if opts.isSet("bg-sensitivity") {
		params.BackgroundSensitivity = opts.bgSensitivity
	}

	if err := params.Validate(); err != nil {
		return pipeline.Params{}, err
	}
	return params, nil
}

// expandInputs resolves the input argument to concrete paths. Arguments
// without glob metacharacters pass through untouched.
func expandInputs(input string) ([]string, error) {
	if !strings.ContainsAny(input, "*?[") {
		return []string{input}, nil
	}
	matches, err := filepath.Glob(input)
	if err != nil {
		return nil, fmt.Errorf("expand input pattern %s: %w", input, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %s", input)
	}
	return matches, nil
}

// derivedName builds the output file name for an input, e.g.
// scan.png -> scan_laserprep.png.
func derivedName(input, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	ext := format
	if ext == "" {
		ext = strings.TrimPrefix(filepath.Ext(input), ".")
	}
	if ext == "" {
		ext = "png"
	}
	return base + "_laserprep." + strings.ToLower(ext)
}

// outputPath picks the destination for a single input: -out used verbatim
// when it names a file, joined with the derived name when it names a
// directory, and the input's own directory when -out is absent.
func outputPath(input string, opts *options) string {
	name := derivedName(input, opts.format)
	if opts.output == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	if info, err := os.Stat(opts.output); err == nil && info.IsDir() {
		return filepath.Join(opts.output, name)
	}
	return opts.output
}

func processOne(ctx context.Context, log logger.Logger, opts *options, params pipeline.Params, input, output string) error {
	coord := pipeline.NewCoordinator(log, opts.maxDimension)

	if _, err := coord.LoadImageFromFile(input); err != nil {
		return err
	}

	processed, runMetrics, err := coord.ProcessImageWithContext(ctx, params)
	if err != nil {
		return err
	}

	if err := coord.SaveImageToFile(output); err != nil {
		return err
	}

	log.Info(componentCLI, "image written", logger.Fields{
		"input":     input,
		"output":    output,
		"threshold": runMetrics.Threshold,
	})

	if opts.report {
		if err := printReport(os.Stdout, input, processed.Buffer, runMetrics); err != nil {
			return err
		}
	}
	if opts.referencePath != "" {
		if err := printComparison(os.Stdout, log, opts.referencePath, processed.Buffer); err != nil {
			return err
		}
	}
	return nil
}

type batchJob struct {
	input  string
	output string
}

// processBatch fans the inputs out to a worker pool and writes every result
// into the -out directory. Individual failures are collected rather than
// aborting the batch; cancellation stops workers at the next file boundary.
func processBatch(ctx context.Context, log logger.Logger, opts *options, params pipeline.Params, inputs []string) error {
	if opts.output == "" {
		return errors.New("batch mode requires -out to name an output directory")
	}
	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", opts.output, err)
	}

	workers := opts.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
		if workers > defaultMaxWorkers {
			workers = defaultMaxWorkers
		}
	}

	// Per-file reports from concurrent workers would interleave on stdout,
	// so batch runs only write images.
	fileOpts := *opts
	fileOpts.report = false
	fileOpts.referencePath = ""

	batchID := uuid.NewString()
	log.Info(componentCLI, "batch started", logger.Fields{
		"batch_id": batchID,
		"images":   len(inputs),
		"workers":  workers,
	})

	bar := pb.New(len(inputs)).
		SetTemplateString(`{{ bar . " " "━" "━" " " " "}} {{percent .}} {{rtime .}}`).
		SetWriter(os.Stderr).
		Start()
	defer bar.Finish()

	jobs := make(chan batchJob, len(inputs))
	for _, input := range inputs {
		jobs <- batchJob{
			input:  input,
			output: filepath.Join(opts.output, derivedName(input, opts.format)),
		}
	}
	close(jobs)

	var (
		waitGroup sync.WaitGroup
		mu        sync.Mutex
		failed    []string
	)
	for n := 0; n < workers; n++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					return
				}
				err := processOne(ctx, log, &fileOpts, params, job.input, job.output)
				bar.Increment()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return
					}
					log.Error(componentCLI, err, logger.Fields{"input": job.input})
					mu.Lock()
					failed = append(failed, job.input)
					mu.Unlock()
				}
			}
		}()
	}
	waitGroup.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d images failed", len(failed), len(inputs))
	}

	log.Info(componentCLI, "batch completed", logger.Fields{
		"batch_id": batchID,
		"images":   len(inputs),
	})
	return nil
}

func printReport(w io.Writer, input string, buf *pixel.Buffer, runMetrics *pipeline.ProcessingMetrics) error {
	summary, err := metrics.SummarizeIntensity(buf, true)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n", input)
	fmt.Fprintf(w, "  stages:     %s\n", strings.Join(runMetrics.Stages, " > "))
	fmt.Fprintf(w, "  threshold:  %d\n", runMetrics.Threshold)
	fmt.Fprintf(w, "  opaque px:  %d\n", summary.Count)
	fmt.Fprintf(w, "  intensity:  min %d, max %d, mean %.2f, median %.2f, stddev %.2f\n",
		summary.Min, summary.Max, summary.Mean, summary.Median, summary.StdDev)
	return nil
}

// printComparison scores the processed result against a reference binary
// image, e.g. a hand-cleaned engraving mask.
func printComparison(w io.Writer, log logger.Logger, referencePath string, result *pixel.Buffer) error {
	reference, err := pipeline.NewLoader(log, 0).LoadFromFile(referencePath)
	if err != nil {
		return err
	}

	scores, err := metrics.Compare(reference.Buffer, result)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "quality vs %s\n", referencePath)
	fmt.Fprintf(w, "  f-measure:        %.4f\n", scores.FMeasure())
	fmt.Fprintf(w, "  pseudo f-measure: %.4f\n", scores.PseudoFMeasure())
	fmt.Fprintf(w, "  nrm:              %.4f\n", scores.NRM())
	fmt.Fprintf(w, "  drd:              %.4f\n", scores.DRD())
	fmt.Fprintf(w, "  bg/fg contrast:   %.4f\n", scores.BackgroundForegroundContrast())
	return nil
}
