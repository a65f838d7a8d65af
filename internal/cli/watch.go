package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hanzikit/zhconv/pkg/converter"
)

// runWatch runs an initial batch, then re-runs it whenever a watched
// input changes. Events are debounced so a burst of writes triggers a
// single re-run. The TUI is disabled in watch mode; each pass logs and
// prints its own report.
func runWatch(ctx context.Context, opts converter.Options, logger *slog.Logger) error {
	opts.TuiEnabled = false

	debounce := time.Duration(converter.DefaultWatchDebounceMs) * time.Millisecond
	if opts.WatchConfig.Debounce != "" {
		if d, err := time.ParseDuration(opts.WatchConfig.Debounce); err == nil {
			debounce = d
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	outputAbs, _ := filepath.Abs(opts.OutputPath)
	for _, input := range opts.InputPaths {
		if err := addWatchTargets(watcher, input, opts.Recursive); err != nil {
			return err
		}
	}

	if err := runOnce(ctx, opts, logger); err != nil {
		// A failed pass keeps the watcher alive; the next change may
		// fix it.
		logger.Warn("Initial pass finished with errors", "error", err)
	}
	logger.Info("Watching for changes", "paths", opts.InputPaths, "debounce", debounce)

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event, outputAbs) {
				continue
			}
			logger.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "error", err)
		case <-timerC:
			timer, timerC = nil, nil
			if err := runOnce(ctx, opts, logger); err != nil {
				logger.Warn("Pass finished with errors", "error", err)
			}
			logger.Info("Watching for changes", "paths", opts.InputPaths)
		}
	}
}

func addWatchTargets(watcher *fsnotify.Watcher, input string, recursive bool) error {
	abs, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		// Watch the parent so atomic-rename editors are seen.
		return watcher.Add(filepath.Dir(abs))
	}
	if err := watcher.Add(abs); err != nil {
		return err
	}
	if !recursive {
		return nil
	}
	return filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() || path == abs {
			return err
		}
		return watcher.Add(path)
	})
}

// relevantEvent filters out our own outputs and temp files.
func relevantEvent(event fsnotify.Event, outputAbs string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if outputAbs != "" && (abs == outputAbs || strings.HasPrefix(abs, outputAbs+string(filepath.Separator))) {
		return false
	}
	return !strings.HasPrefix(filepath.Base(abs), converter.TempFilePrefix)
}
