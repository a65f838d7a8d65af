package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hanzikit/zhconv/internal/cli"
	"github.com/hanzikit/zhconv/internal/cli/config"
	"github.com/hanzikit/zhconv/pkg/converter"
	"github.com/hanzikit/zhconv/pkg/converter/opencc"
)

var (
	// Set at build time via -ldflags.
	version = "dev"
	commit  = "none"
	date    = "unknown"

	cfgFile     string
	profileName string
	listConfigs bool
	noTui       bool
	watchMode   bool
)

var rootCmd = &cobra.Command{
	Use:   "zhconv [flags] <input>...",
	Short: "Batch Simplified/Traditional Chinese conversion for text and documents.",
	Long: `zhconv converts files between Chinese script variants using OpenCC
dictionaries. It handles plain text in any common charset as well as
Zip-based documents (docx, xlsx, pptx, odt, ods, odp, epub), rewriting
only the text inside them and leaving everything else byte-identical.

Inputs are files or directories; each item is converted independently,
so one broken file never stops the batch.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listConfigs {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(opencc.Configs, "\n"))
			return nil
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		opts, logger, err := config.LoadAndValidate(cfgFile, profileName, version, cmd.Flags())
		if err != nil {
			return err
		}
		opts.InputPaths = append(opts.InputPaths, args...)
		if len(opts.InputPaths) == 0 {
			return fmt.Errorf("%w: no input files or directories given", converter.ErrConfigValidation)
		}
		opts.WatchMode = watchMode
		opts.TuiEnabled = !noTui && !opts.Verbose && !watchMode &&
			term.IsTerminal(int(os.Stderr.Fd()))

		return cli.Run(ctx, opts, logger)
	},
}

// Execute runs the root command; cobra prints the error and the process
// exits nonzero when RunE fails.
func Execute() {
	rootCmd.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Configuration file path (default: search ./zhconv.yaml and $HOME/.config/zhconv/)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Configuration profile to apply")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose (debug) logging, disables the TUI")

	rootCmd.Flags().StringSliceP("input", "i", nil, "Input file or directory (repeatable, positional arguments also accepted)")
	rootCmd.Flags().StringP("output", "o", "out", "Output directory for converted files")
	rootCmd.Flags().StringP("config", "c", converter.DefaultConfig, "Conversion configuration (see --list-configs)")
	rootCmd.Flags().BoolVar(&listConfigs, "list-configs", false, "Print the supported conversion configurations and exit")

	rootCmd.Flags().Bool("punctuation", false, "Also convert quotation punctuation between script styles")
	rootCmd.Flags().Bool("sanitize", true, "Strip zero-width and BOM characters from plain text before converting")
	rootCmd.Flags().Bool("convert-filename", false, "Convert output file names with the same configuration")
	rootCmd.Flags().String("suffix", "", "Suffix appended to output base names, e.g. \"_s2t\"")

	rootCmd.Flags().BoolP("recursive", "r", false, "Descend into subdirectories of directory inputs")
	rootCmd.Flags().StringArray("ignore", []string{}, "Glob patterns to exclude during directory expansion (repeatable)")

	rootCmd.Flags().Int("concurrency", converter.DefaultConcurrency, "Parallel workers (0 = number of CPUs)")
	rootCmd.Flags().String("on-error", string(converter.DefaultOnErrorMode), `Behavior after a failed item ("continue" or "stop")`)
	rootCmd.Flags().String("default-encoding", "", `Charset assumed when detection is uncertain (e.g. "gbk", "big5")`)

	rootCmd.Flags().String("output-format", string(converter.DefaultOutputFormat), `Final report format ("text" or "json")`)
	rootCmd.Flags().BoolVar(&noTui, "no-tui", false, "Disable the interactive terminal UI even on a TTY")

	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-run the batch when watched inputs change")
	rootCmd.Flags().String("watch-debounce", fmt.Sprintf("%dms", converter.DefaultWatchDebounceMs), "Debounce window for watch mode re-runs")
}
