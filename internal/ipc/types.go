package ipc

import (
	"time"

	"scribe/internal/segments"
)

// SubmitRequest enqueues transcription or language-detection jobs.
type SubmitRequest struct {
	Kind       string            `json:"kind"`
	InputPaths []string          `json:"input_paths"`
	Options    map[string]string `json:"options,omitempty"`
}

// SubmitResponse reports how many jobs survived deduplication.
type SubmitResponse struct {
	Enqueued int `json:"enqueued"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// CheckResult mirrors one preflight check outcome.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// QueueStatus is the wire view of the scheduler snapshot.
type QueueStatus struct {
	PendingPaths []string  `json:"pending_paths"`
	ActivePath   string    `json:"active_path"`
	ActiveSince  time.Time `json:"active_since"`
	Completed    int       `json:"completed"`
	Total        int       `json:"total"`
	Progress     *float64  `json:"progress"`
}

// StatusResponse represents combined daemon/queue status information.
type StatusResponse struct {
	Running      bool          `json:"running"`
	PID          int           `json:"pid"`
	LockPath     string        `json:"lock_path"`
	DatabasePath string        `json:"database_path"`
	Queue        QueueStatus   `json:"queue"`
	Checks       []CheckResult `json:"checks"`
}

// CancelRequest clears the queue and drops the active job reference.
type CancelRequest struct{}

// CancelResponse reports the number of dropped jobs.
type CancelResponse struct {
	Dropped int `json:"dropped"`
}

// StopRequest halts the daemon tick loop.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// TranscriptSummary is the wire view of one archived transcript.
type TranscriptSummary struct {
	ID           int64     `json:"id"`
	InputPath    string    `json:"input_path"`
	Kind         string    `json:"kind"`
	Model        string    `json:"model"`
	Language     string    `json:"language"`
	CreatedAt    time.Time `json:"created_at"`
	SegmentCount int       `json:"segment_count"`
}

// TranscriptListRequest lists archived transcripts.
type TranscriptListRequest struct{}

// TranscriptListResponse contains transcript summaries, newest first.
type TranscriptListResponse struct {
	Transcripts []TranscriptSummary `json:"transcripts"`
}

// TranscriptGetRequest fetches one transcript with segments.
type TranscriptGetRequest struct {
	ID int64 `json:"id"`
}

// TranscriptGetResponse contains one full transcript.
type TranscriptGetResponse struct {
	Transcript TranscriptSummary  `json:"transcript"`
	Segments   []segments.Segment `json:"segments"`
}
