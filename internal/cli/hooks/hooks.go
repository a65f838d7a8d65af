// Package hooks bridges engine events to the CLI's presentation layer:
// the bubbletea TUI, the progress bar, or plain logging.
package hooks

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hanzikit/zhconv/pkg/converter"
)

// ItemDiscoveredMsg signals that an input file joined the batch.
type ItemDiscoveredMsg struct{ Path string }

// ItemStatusUpdateMsg signals a change in an item's processing status.
type ItemStatusUpdateMsg struct {
	Path     string
	Status   converter.Status
	Message  string
	Duration time.Duration
}

// RunCompleteMsg signals the end of a batch run.
type RunCompleteMsg struct{ Report converter.Report }

// TUIProgram is the slice of *tea.Program the hooks need.
type TUIProgram interface {
	Send(msg tea.Msg)
}

// ProgressBar is the slice of *progressbar.ProgressBar the hooks need.
type ProgressBar interface {
	Add(num int) error
	Describe(description string)
	Close() error
}

// CLIHooks implements converter.Hooks. Exactly one sink is active per
// run: the TUI when attached, otherwise the progress bar, otherwise the
// logger.
type CLIHooks struct {
	logger      *slog.Logger
	verbose     bool
	tuiProgram  TUIProgram
	progressBar ProgressBar
	mu          sync.Mutex
}

// New creates hooks for a run. Pass nil for the sinks that are not in
// use.
func New(logger *slog.Logger, verbose bool, tuiProgram TUIProgram, progressBar ProgressBar) *CLIHooks {
	return &CLIHooks{
		logger:      logger,
		verbose:     verbose,
		tuiProgram:  tuiProgram,
		progressBar: progressBar,
	}
}

func (h *CLIHooks) OnItemDiscovered(path string) error {
	if h.tuiProgram != nil {
		h.tuiProgram.Send(ItemDiscoveredMsg{Path: path})
	} else if h.verbose {
		h.logger.Debug("Item discovered", "path", path)
	}
	return nil
}

// OnItemStatusUpdate is called concurrently from engine workers.
func (h *CLIHooks) OnItemStatusUpdate(path string, status converter.Status, message string, duration time.Duration) error {
	if h.tuiProgram != nil {
		h.tuiProgram.Send(ItemStatusUpdateMsg{Path: path, Status: status, Message: message, Duration: duration})
		return nil
	}

	final := status == converter.StatusSuccess || status == converter.StatusFailed || status == converter.StatusSkipped

	if h.progressBar != nil && final {
		h.mu.Lock()
		_ = h.progressBar.Add(1)
		h.mu.Unlock()
	}

	switch {
	case status == converter.StatusFailed:
		h.logger.Error("Item failed", "path", path, "error", message)
	case h.verbose && final:
		h.logger.Info("Item done", "path", path, "status", string(status), "duration", duration)
	case h.verbose:
		h.logger.Debug("Item status", "path", path, "status", string(status))
	}
	return nil
}

func (h *CLIHooks) OnRunComplete(report converter.Report) error {
	if h.tuiProgram != nil {
		h.tuiProgram.Send(RunCompleteMsg{Report: report})
		return nil
	}
	if h.progressBar != nil {
		h.mu.Lock()
		_ = h.progressBar.Close()
		h.mu.Unlock()
		// Move past the bar so the summary starts on its own line.
		fmt.Fprintln(os.Stderr)
	}
	return nil
}
