package converter

// Defaults applied by Options normalization and the CLI layer.
const (
	DefaultConfig          = "s2t"
	DefaultOnErrorMode     = OnErrorContinue
	DefaultOutputFormat    = OutputFormatText
	DefaultWatchDebounceMs = 300

	// DefaultConcurrency of 0 means runtime.NumCPU at run time.
	DefaultConcurrency = 0

	// TempFilePrefix and TempFilePattern name the intermediate files of
	// the write-then-rename output step. Directory expansion skips them
	// so a watch-mode rerun never picks up its own leftovers.
	TempFilePrefix  = ".zhconv-"
	TempFilePattern = ".zhconv-*.tmp"
)

// containerExtensions are the Zip-based document formats the engine
// rewrites entry by entry.
var containerExtensions = map[string]struct{}{
	".docx": {},
	".xlsx": {},
	".pptx": {},
	".odt":  {},
	".ods":  {},
	".odp":  {},
	".epub": {},
}

// unsupportedExtensions are formats known to carry no convertible text.
// Everything outside this list and containerExtensions is treated as
// plain text.
var unsupportedExtensions = map[string]struct{}{
	".exe":    {},
	".dll":    {},
	".so":     {},
	".dylib":  {},
	".bin":    {},
	".o":      {},
	".a":      {},
	".zip":    {},
	".gz":     {},
	".tar":    {},
	".bz2":    {},
	".xz":     {},
	".7z":     {},
	".rar":    {},
	".jpg":    {},
	".jpeg":   {},
	".png":    {},
	".gif":    {},
	".bmp":    {},
	".webp":   {},
	".ico":    {},
	".tif":    {},
	".tiff":   {},
	".pdf":    {},
	".mp3":    {},
	".mp4":    {},
	".mkv":    {},
	".avi":    {},
	".mov":    {},
	".flac":   {},
	".wav":    {},
	".ogg":    {},
	".woff":   {},
	".woff2":  {},
	".ttf":    {},
	".otf":    {},
	".class":  {},
	".pyc":    {},
	".wasm":   {},
	".db":     {},
	".sqlite": {},
}
