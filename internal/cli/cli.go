// Package cli wires the conversion engine to its terminal front-ends:
// the bubbletea TUI on interactive terminals, a progress bar on dumb
// ones, and plain logs otherwise. It also owns watch mode and the final
// report rendering.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/hanzikit/zhconv/internal/cli/hooks"
	"github.com/hanzikit/zhconv/internal/cli/ui"
	"github.com/hanzikit/zhconv/pkg/converter"
	"github.com/hanzikit/zhconv/pkg/converter/opencc"
)

// Run executes the CLI according to opts. It returns an error when the
// run could not start, was cancelled, or finished with failed items, so
// the process exits nonzero in every case a script would care about.
func Run(ctx context.Context, opts converter.Options, logger *slog.Logger) error {
	conv, err := opencc.New(opts.Config, opts.Punctuation)
	if err != nil {
		return fmt.Errorf("%w: %v", converter.ErrConfigValidation, err)
	}
	opts.Converter = conv
	// The engine logs through the handler on Options; hand it the same
	// one the CLI logger was built with so --verbose reaches it.
	opts.Logger = logger.Handler()

	if opts.WatchMode {
		return runWatch(ctx, opts, logger)
	}
	return runOnce(ctx, opts, logger)
}

func runOnce(ctx context.Context, opts converter.Options, logger *slog.Logger) error {
	interactive := term.IsTerminal(int(os.Stderr.Fd())) && !opts.Verbose

	var program *tea.Program
	var tuiDone chan struct{}
	var bar *progressbar.ProgressBar

	switch {
	case opts.TuiEnabled && interactive:
		model := ui.NewModel(opts.AppVersion, opts.Config)
		program = tea.NewProgram(model, tea.WithOutput(os.Stderr))
		opts.EventHooks = hooks.New(logger, opts.Verbose, program, nil)
		tuiDone = make(chan struct{})
		go func() {
			defer close(tuiDone)
			if _, err := program.Run(); err != nil {
				logger.Error("Terminal UI failed", "error", err)
			}
		}()
	case interactive:
		bar = progressbar.NewOptions64(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)
		opts.EventHooks = hooks.New(logger, opts.Verbose, nil, bar)
	default:
		opts.EventHooks = hooks.New(logger, opts.Verbose, nil, nil)
	}

	engine, err := converter.NewEngine(opts)
	if err != nil {
		if program != nil {
			program.Quit()
			<-tuiDone
		}
		return err
	}

	report, runErr := engine.Run(ctx)
	if program != nil {
		program.Quit()
		<-tuiDone
	}

	if err := PrintReport(os.Stdout, report, opts.OutputFormat); err != nil {
		logger.Error("Failed to render report", "error", err)
	}

	if runErr != nil {
		return runErr
	}
	if report.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d item(s) failed", report.Summary.Failed, report.Summary.InputCount)
	}
	return nil
}

// PrintReport renders the final report to w in the configured format.
func PrintReport(w io.Writer, report converter.Report, format converter.OutputFormat) error {
	if format == converter.OutputFormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, item := range report.Items {
		switch item.Status {
		case converter.StatusSuccess:
			fmt.Fprintf(w, "ok\t%s -> %s\n", item.Path, item.OutputPath)
		case converter.StatusFailed:
			fmt.Fprintf(w, "fail\t%s: %s\n", item.Path, item.Error)
		case converter.StatusSkipped:
			fmt.Fprintf(w, "skip\t%s: %s\n", item.Path, item.Error)
		}
	}
	s := report.Summary
	fmt.Fprintf(w, "\n%s: %d converted, %d failed of %d (%dms)\n",
		s.Config, s.Succeeded, s.Failed, s.InputCount, s.DurationMs)
	for _, fatal := range s.FatalErrors {
		fmt.Fprintf(w, "fatal: %s\n", fatal)
	}
	return nil
}
