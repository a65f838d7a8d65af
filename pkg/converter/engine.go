package converter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hanzikit/zhconv/pkg/converter/encoding"
)

// Engine runs a batch of conversions according to its Options. Create
// one with NewEngine; a single Engine may be reused across runs (watch
// mode does this).
type Engine struct {
	opts   Options
	logger *slog.Logger
	hooks  Hooks
	proc   *processor
}

// NewEngine validates the options, applies defaults, and returns an
// engine ready to Run. Validation failures wrap ErrConfigValidation.
func NewEngine(opts Options) (*Engine, error) {
	if len(opts.InputPaths) == 0 {
		return nil, fmt.Errorf("%w: at least one input path is required", ErrConfigValidation)
	}
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("%w: output path is required", ErrConfigValidation)
	}
	if opts.Converter == nil {
		return nil, fmt.Errorf("%w: text converter is required", ErrConfigValidation)
	}
	if opts.Concurrency < 0 {
		return nil, fmt.Errorf("%w: concurrency cannot be negative", ErrConfigValidation)
	}
	switch opts.OnErrorMode {
	case "":
		opts.OnErrorMode = DefaultOnErrorMode
	case OnErrorContinue, OnErrorStop:
	default:
		return nil, fmt.Errorf("%w: unknown onError mode %q", ErrConfigValidation, opts.OnErrorMode)
	}
	switch opts.OutputFormat {
	case "":
		opts.OutputFormat = DefaultOutputFormat
	case OutputFormatText, OutputFormatJSON:
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", ErrConfigValidation, opts.OutputFormat)
	}
	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	if opts.Encoding == nil {
		opts.Encoding = encoding.NewHandler(opts.DefaultEncoding)
	}
	if opts.Logger == nil {
		opts.Logger = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
	}

	logger := slog.New(opts.Logger).With("component", "engine")
	e := &Engine{
		opts:   opts,
		logger: logger,
		hooks:  opts.EventHooks,
	}
	e.proc = newProcessor(&e.opts, slog.New(opts.Logger))
	return e, nil
}

// Run executes the batch. The returned Report always contains one
// result per discovered item, in input order. A non-nil error is
// returned only for fatal setup failures (output directory, input
// scanning) or when ctx was cancelled; per-item failures are recorded
// in the report, never returned.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	startTime := time.Now()
	report := Report{
		Summary: ReportSummary{
			Config:     e.opts.Converter.Config(),
			Timestamp:  startTime.UTC(),
			AppVersion: e.opts.AppVersion,
			OutputPath: e.opts.OutputPath,
		},
	}

	if err := os.MkdirAll(e.opts.OutputPath, 0o755); err != nil {
		fatal := fmt.Errorf("%w: creating output directory %q: %v", ErrConfigValidation, e.opts.OutputPath, err)
		report.Summary.FatalErrors = append(report.Summary.FatalErrors, fatal.Error())
		report.Summary.DurationMs = time.Since(startTime).Milliseconds()
		return report, fatal
	}

	items, err := expandInputs(&e.opts, e.logger)
	if err != nil {
		report.Summary.FatalErrors = append(report.Summary.FatalErrors, err.Error())
		report.Summary.DurationMs = time.Since(startTime).Milliseconds()
		return report, err
	}
	report.Summary.InputCount = len(items)
	e.logger.Debug("Batch expanded", "items", len(items))

	for _, item := range items {
		if hookErr := e.hooks.OnItemDiscovered(item.Path); hookErr != nil {
			e.logger.Warn("Discovery hook failed", "path", item.Path, "error", hookErr)
		}
	}

	concurrency := e.opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if concurrency > len(items) && len(items) > 0 {
		concurrency = len(items)
	}
	report.Summary.Concurrency = concurrency

	results := make([]ItemResult, len(items))
	workChan := make(chan InputItem)
	var wg sync.WaitGroup
	var stopFlag atomic.Bool

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workChan {
				// Items handed out before a failure flipped the stop
				// flag are dropped here and reported as skipped.
				if ctx.Err() != nil || stopFlag.Load() {
					continue
				}
				results[item.Index] = e.processItem(ctx, item, &stopFlag)
			}
		}()
	}

dispatch:
	for _, item := range items {
		// Cancellation and stop-on-error are honored between items;
		// whatever is already in flight runs to completion.
		if ctx.Err() != nil || stopFlag.Load() {
			break dispatch
		}
		select {
		case workChan <- item:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(workChan)
	wg.Wait()

	cancelled := ctx.Err() != nil
	for i := range results {
		if results[i].Status == "" {
			reason := "run cancelled"
			if !cancelled {
				reason = "stopped after earlier failure"
			}
			results[i] = ItemResult{
				Path:   items[i].Path,
				Kind:   items[i].Kind,
				Status: StatusSkipped,
				Error:  reason,
			}
		}
	}
	report.Items = results

	for _, res := range results {
		switch res.Status {
		case StatusSuccess:
			report.Summary.Succeeded++
		case StatusFailed:
			report.Summary.Failed++
		}
	}
	report.Summary.Cancelled = cancelled
	report.Summary.DurationMs = time.Since(startTime).Milliseconds()

	if hookErr := e.hooks.OnRunComplete(report); hookErr != nil {
		e.logger.Warn("Completion hook failed", "error", hookErr)
	}
	e.logger.Info("Batch complete",
		"items", len(items),
		"succeeded", report.Summary.Succeeded,
		"failed", report.Summary.Failed,
		"duration", time.Since(startTime))

	if cancelled {
		return report, ctx.Err()
	}
	return report, nil
}

// processItem wraps the processor with hooks, timing and panic
// recovery so a misbehaving item cannot take down the pool.
func (e *Engine) processItem(ctx context.Context, item InputItem, stopFlag *atomic.Bool) (res ItemResult) {
	itemStart := time.Now()
	e.notify(item.Path, StatusProcessing, "", 0)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Panic while processing item", "path", item.Path, "panic", r)
			res = ItemResult{
				Path:   item.Path,
				Kind:   item.Kind,
				Status: StatusFailed,
				Error:  fmt.Sprintf("internal error: %v", r),
			}
		}
		res.Duration = time.Since(itemStart)
		res.DurationMs = res.Duration.Milliseconds()
		if res.Status == StatusFailed && e.opts.OnErrorMode == OnErrorStop {
			stopFlag.Store(true)
		}
		e.notify(item.Path, res.Status, res.Error, res.Duration)
	}()

	res = e.proc.process(ctx, item)
	return res
}

func (e *Engine) notify(path string, status Status, message string, duration time.Duration) {
	if err := e.hooks.OnItemStatusUpdate(path, status, message, duration); err != nil {
		e.logger.Warn("Status hook failed", "path", path, "error", err)
	}
}
