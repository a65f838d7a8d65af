package converter

import (
	"log/slog"
	"time"
)

// TextConverter performs Simplified/Traditional Chinese conversion on a
// UTF-8 string. Implementations MUST be safe for concurrent use; one
// converter instance is shared by all workers.
type TextConverter interface {
	// Convert returns the converted text. Input and output are UTF-8.
	Convert(text string) (string, error)
	// Config reports the conversion configuration name (e.g. "s2t").
	Config() string
}

// EncodingHandler detects the charset of raw bytes, decodes them to
// UTF-8, and encodes UTF-8 back into a named charset.
type EncodingHandler interface {
	// DetectAndDecode returns the UTF-8 text, the canonical name of the
	// charset it decoded from, and certainty of the detection.
	DetectAndDecode(content []byte) (text string, encodingName string, certain bool, err error)
	// Encode converts UTF-8 text into the named charset. It fails when
	// the charset is unknown or cannot represent the text.
	Encode(text string, encodingName string) ([]byte, error)
}

// Hooks defines callbacks for status updates during a batch run.
// Implementations MUST be thread-safe as methods may be called
// concurrently from worker goroutines.
type Hooks interface {
	OnItemDiscovered(path string) error
	OnItemStatusUpdate(path string, status Status, message string, duration time.Duration) error
	OnRunComplete(report Report) error
}

// NoOpHooks is the default, do-nothing Hooks implementation.
type NoOpHooks struct{}

func (h *NoOpHooks) OnItemDiscovered(path string) error { return nil }

func (h *NoOpHooks) OnItemStatusUpdate(path string, status Status, message string, duration time.Duration) error {
	return nil
}

func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	Debounce string `mapstructure:"debounce"`
}

// Options carries everything a batch run needs. The CLI layer populates
// it from flags, config file and environment; library embedders fill it
// directly. NewEngine validates it and applies defaults.
type Options struct {
	// InputPaths are the files and directories to convert.
	InputPaths []string `mapstructure:"input"`
	// OutputPath is the directory converted files are written into.
	OutputPath string `mapstructure:"output"`

	// Config is the conversion configuration name (see opencc.Configs).
	Config string `mapstructure:"config"`
	// Punctuation also converts quotation punctuation between the
	// Western and CJK bracket styles.
	Punctuation bool `mapstructure:"punctuation"`
	// Sanitize strips zero-width and BOM characters from plain text
	// before conversion.
	Sanitize bool `mapstructure:"sanitize"`
	// ConvertFilename runs output base names through the converter.
	ConvertFilename bool `mapstructure:"convertFilename"`
	// Suffix is appended to the output base name before the extension.
	Suffix string `mapstructure:"suffix"`

	// Recursive descends into subdirectories of directory inputs.
	Recursive bool `mapstructure:"recursive"`
	// IgnorePatterns are gitignore-style globs excluded during
	// directory expansion.
	IgnorePatterns []string `mapstructure:"ignore"`

	Concurrency  int         `mapstructure:"concurrency"`
	OnErrorMode  OnErrorMode `mapstructure:"onError"`
	// DefaultEncoding is the charset assumed for plain text when
	// detection is uncertain (IANA name, e.g. "gbk").
	DefaultEncoding string `mapstructure:"defaultEncoding"`

	OutputFormat OutputFormat `mapstructure:"outputFormat"`
	Verbose      bool         `mapstructure:"verbose"`
	TuiEnabled   bool         `mapstructure:"-"`

	WatchMode   bool        `mapstructure:"-"`
	WatchConfig WatchConfig `mapstructure:"watch"`

	// EventHooks receives progress callbacks; nil means NoOpHooks.
	EventHooks Hooks `mapstructure:"-"`
	// Logger is the slog handler for engine logging; nil discards.
	Logger slog.Handler `mapstructure:"-"`

	// Converter performs the text conversion. The CLI builds one from
	// Config via the opencc package; tests inject fakes.
	Converter TextConverter `mapstructure:"-"`
	// Encoding handles charset detection and re-encoding; nil selects
	// the default handler.
	Encoding EncodingHandler `mapstructure:"-"`

	AppVersion string `mapstructure:"-"`
}
