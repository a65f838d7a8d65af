// Package config merges CLI flags, environment variables, an optional
// .env file and an optional YAML config file (with named profiles) into
// a validated converter.Options.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hanzikit/zhconv/pkg/converter"
	"github.com/hanzikit/zhconv/pkg/converter/opencc"
)

const (
	// EnvPrefix scopes environment overrides, e.g. ZHCONV_CONFIG=t2s.
	EnvPrefix = "ZHCONV"
	// DefaultConfigName is the base name of the YAML config file
	// (zhconv.yaml) searched in the working directory and under the
	// user's config directories.
	DefaultConfigName = "zhconv"
)

// flagBindings maps viper keys to the flag names that override them.
var flagBindings = map[string]string{
	"input":           "input",
	"output":          "output",
	"config":          "config",
	"punctuation":     "punctuation",
	"sanitize":        "sanitize",
	"convertFilename": "convert-filename",
	"suffix":          "suffix",
	"recursive":       "recursive",
	"ignore":          "ignore",
	"concurrency":     "concurrency",
	"onError":         "on-error",
	"defaultEncoding": "default-encoding",
	"outputFormat":    "output-format",
	"verbose":         "verbose",
	"watch.debounce":  "watch-debounce",
}

// LoadAndValidate builds Options from every configuration source in
// priority order: flags, environment, profile, config file, defaults.
// It returns the options together with the logger the rest of the run
// should use.
func LoadAndValidate(cfgFile, profileName, appVersion string, flags *pflag.FlagSet) (converter.Options, *slog.Logger, error) {
	var opts converter.Options

	// A .env next to the invocation can seed ZHCONV_* variables; a
	// missing file is the normal case.
	_ = godotenv.Load()

	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
			v.AddConfigPath(filepath.Join(home, "."+DefaultConfigName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags")
		} else {
			used := cfgFile
			if used == "" {
				used = fmt.Sprintf("searched locations for %s.yaml", DefaultConfigName)
			}
			return opts, tempLogger, fmt.Errorf("%w: reading config file %s: %v", converter.ErrConfigValidation, used, err)
		}
	}

	if profileName != "" {
		profileKey := "profiles." + profileName
		if !v.IsSet(profileKey) {
			return opts, tempLogger, fmt.Errorf("%w: profile %q not found in %q", converter.ErrConfigValidation, profileName, v.ConfigFileUsed())
		}
		profile := v.Sub(profileKey)
		if profile == nil {
			return opts, tempLogger, fmt.Errorf("%w: profile %q is not a settings map", converter.ErrConfigValidation, profileName)
		}
		if err := v.MergeConfigMap(profile.AllSettings()); err != nil {
			return opts, tempLogger, fmt.Errorf("%w: merging profile %q: %v", converter.ErrConfigValidation, profileName, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, flagName := range flagBindings {
			if f := flags.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return opts, tempLogger, fmt.Errorf("%w: binding flag %q: %v", converter.ErrConfigValidation, flagName, err)
				}
			}
		}
	}

	if err := v.Unmarshal(&opts); err != nil {
		return opts, tempLogger, fmt.Errorf("%w: %v", converter.ErrConfigValidation, err)
	}
	opts.AppVersion = appVersion

	logger := buildLogger(opts.Verbose)
	if err := validate(&opts); err != nil {
		return opts, logger, err
	}
	return opts, logger, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config", converter.DefaultConfig)
	v.SetDefault("punctuation", false)
	v.SetDefault("sanitize", true)
	v.SetDefault("convertFilename", false)
	v.SetDefault("suffix", "")
	v.SetDefault("recursive", false)
	v.SetDefault("ignore", []string{})
	v.SetDefault("concurrency", converter.DefaultConcurrency)
	v.SetDefault("onError", string(converter.DefaultOnErrorMode))
	v.SetDefault("defaultEncoding", "")
	v.SetDefault("outputFormat", string(converter.DefaultOutputFormat))
	v.SetDefault("verbose", false)
	v.SetDefault("watch.debounce", fmt.Sprintf("%dms", converter.DefaultWatchDebounceMs))
}

func buildLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func validate(opts *converter.Options) error {
	if !opencc.IsValidConfig(opts.Config) {
		return fmt.Errorf("%w: unknown conversion config %q (supported: %s)",
			converter.ErrConfigValidation, opts.Config, strings.Join(opencc.Configs, " "))
	}
	switch opts.OnErrorMode {
	case converter.OnErrorContinue, converter.OnErrorStop:
	default:
		return fmt.Errorf("%w: onError must be %q or %q", converter.ErrConfigValidation, converter.OnErrorContinue, converter.OnErrorStop)
	}
	switch opts.OutputFormat {
	case converter.OutputFormatText, converter.OutputFormatJSON:
	default:
		return fmt.Errorf("%w: outputFormat must be %q or %q", converter.ErrConfigValidation, converter.OutputFormatText, converter.OutputFormatJSON)
	}
	if opts.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency cannot be negative", converter.ErrConfigValidation)
	}
	if opts.WatchConfig.Debounce != "" {
		if _, err := time.ParseDuration(opts.WatchConfig.Debounce); err != nil {
			return fmt.Errorf("%w: invalid watch debounce %q: %v", converter.ErrConfigValidation, opts.WatchConfig.Debounce, err)
		}
	}
	if opts.DefaultEncoding != "" {
		// The encoding handler validates the name at run time; catch
		// obviously broken values early.
		if strings.ContainsAny(opts.DefaultEncoding, " \t") {
			return fmt.Errorf("%w: invalid default encoding %q", converter.ErrConfigValidation, opts.DefaultEncoding)
		}
	}
	return nil
}
