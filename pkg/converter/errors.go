package converter

import "errors"

// Sentinel errors returned by the engine and its collaborators. Callers
// classify failures with errors.Is; wrapped errors carry the detail.
var (
	// ErrUnsupportedType marks an input whose format is known to carry
	// no convertible text (compiled binaries, images, media).
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrCorruptArchive marks a container document that could not be
	// opened as a Zip archive, whose structure could not be resolved, or
	// whose text entries are not well-formed XML.
	ErrCorruptArchive = errors.New("corrupt or unreadable archive")

	// ErrEncoding marks a plain-text input whose bytes could not be
	// decoded to UTF-8 with the detected or configured charset.
	ErrEncoding = errors.New("encoding detection or decoding failed")

	// ErrReadFailed marks an I/O failure while reading an input.
	ErrReadFailed = errors.New("failed to read input file")

	// ErrWriteFailed marks an I/O failure while writing an output.
	ErrWriteFailed = errors.New("failed to write output file")

	// ErrConfigValidation marks invalid options detected before the
	// batch starts, including an output directory that cannot be
	// created. It is the only error that aborts a run as a whole.
	ErrConfigValidation = errors.New("configuration validation failed")
)
