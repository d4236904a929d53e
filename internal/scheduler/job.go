package scheduler

import (
	"errors"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"scribe/internal/segments"
)

// Kind selects the work the external transcriber performs for a job.
type Kind string

const (
	KindTranscribe     Kind = "transcribe"
	KindDetectLanguage Kind = "detect_language"
)

// ParseKind converts a wire string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindTranscribe:
		return KindTranscribe, true
	case KindDetectLanguage:
		return KindDetectLanguage, true
	default:
		return "", false
	}
}

// Outcome is the final result delivered to a job's continuation.
type Outcome struct {
	JobID     string
	InputPath string
	Kind      Kind
	Model     string
	Segments  []segments.Segment
	Language  string
	Err       error
}

// Continuation receives a job's outcome exactly once.
type Continuation func(Outcome)

// Request is one externally-submitted batch of work. Options are opaque to
// the scheduler and flow through to the transcriber command line.
type Request struct {
	Kind       Kind
	InputPaths []string
	Options    map[string]string
	Callback   Continuation
}

// ErrEmptyRequest is returned when a request carries no input paths.
var ErrEmptyRequest = errors.New("request contains no input paths")

// Job is one unit of work tied to one input artifact. Immutable once
// enqueued.
type Job struct {
	ID        string
	InputPath string
	Kind      Kind
	Options   map[string]string

	callback Continuation
}

// dedupKey normalizes an input path for first-occurrence-wins
// deduplication inside a single request. Unicode is NFC-normalized so the
// same file named via different codepoint sequences collapses to one job.
func dedupKey(path string) string {
	return norm.NFC.String(filepath.Clean(strings.TrimSpace(path)))
}
