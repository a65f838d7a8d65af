package converter

// Status is the lifecycle state of one batch item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	// StatusSkipped marks items that never started because the run was
	// cancelled or stopped after an earlier failure.
	StatusSkipped Status = "skipped"
)

// Kind classifies an input path for dispatch.
type Kind string

const (
	// KindText is the permissive default: anything not recognized as a
	// container document or a known binary type is treated as plain text.
	KindText Kind = "text"
	// KindContainer marks Zip-based document formats (Office Open XML,
	// OpenDocument, EPUB) whose text lives in internal archive entries.
	KindContainer Kind = "container"
	// KindUnsupported marks known binary formats that carry no
	// convertible text.
	KindUnsupported Kind = "unsupported"
)

// OnErrorMode selects batch behavior after an item fails.
type OnErrorMode string

const (
	// OnErrorContinue records the failure and proceeds with the rest of
	// the batch. This is the default.
	OnErrorContinue OnErrorMode = "continue"
	// OnErrorStop cancels items that have not started yet after the
	// first failure. In-flight items run to completion.
	OnErrorStop OnErrorMode = "stop"
)

// OutputFormat selects the final report rendering.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// InputItem is one unit of work in a batch. Items keep the index they
// were submitted with so results can be assembled in input order no
// matter which worker finishes first.
type InputItem struct {
	Index   int
	Path    string // absolute source path
	RelPath string // slash-separated path relative to the batch root
	Kind    Kind
}
