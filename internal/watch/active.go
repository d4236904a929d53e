package watch

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"scribe/internal/logging"
	"scribe/internal/segments"
	"scribe/internal/tmpfiles"
)

// Status is the lifecycle of one active process. Running is initial;
// Complete and Failed are terminal and never transition again.
type Status string

const (
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// errorToken prefixes side-channel lines that classify a run as failed.
const errorToken = "ERROR:"

// ActiveProcess tracks the single currently-executing job between launch
// and dispatch. Mutated only through Poll.
type ActiveProcess struct {
	arts      *tmpfiles.Artifacts
	logger    *slog.Logger
	estimator *Estimator
	startedAt time.Time

	status     Status
	results    []segments.Segment
	errMessage string
	readCursor int64

	now func() time.Time
}

// NewActiveProcess begins watching the given artifact set. The estimator
// may be nil, in which case progress reports the fixed midpoint.
func NewActiveProcess(arts *tmpfiles.Artifacts, estimator *Estimator, logger *slog.Logger) *ActiveProcess {
	if logger == nil {
		logger = logging.NewNop()
	}
	now := time.Now
	return &ActiveProcess{
		arts:      arts,
		logger:    logger,
		estimator: estimator,
		startedAt: now().UTC(),
		status:    StatusRunning,
		now:       now,
	}
}

// Status returns the current lifecycle state without advancing it.
func (a *ActiveProcess) Status() Status {
	return a.status
}

// Results returns the extracted records of a complete process.
func (a *ActiveProcess) Results() []segments.Segment {
	return a.results
}

// ErrMessage returns the failure message of a failed process.
func (a *ActiveProcess) ErrMessage() string {
	return a.errMessage
}

// StartedAt returns the launch timestamp.
func (a *ActiveProcess) StartedAt() time.Time {
	return a.startedAt
}

// Poll advances the state machine by one step. It is cheap while the job
// runs: one stat of the marker (or the output artifact). On the poll that
// detects completion it reads the side channel once to classify the
// outcome, extracts results on success, and removes the temp artifacts.
func (a *ActiveProcess) Poll() Status {
	if a.status != StatusRunning {
		return a.status
	}
	if !a.completionSignalled() {
		return StatusRunning
	}

	if msg, failed := a.classifySideChannel(); failed {
		a.fail(msg)
	} else {
		a.extract()
	}

	if err := a.arts.Remove(); err != nil {
		a.logger.Warn("temp artifact cleanup failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "artifact_cleanup_failed"),
		)
	}
	return a.status
}

// Progress reports the job's fractional progress in [0,1]. Terminal states
// always report 1.
func (a *ActiveProcess) Progress() float64 {
	if a.status != StatusRunning {
		return 1
	}
	if a.estimator == nil {
		return fixedMidpoint
	}
	return a.estimator.Fraction(a.now())
}

// Abandon removes the temp artifacts of a job that is being dropped
// without completing. The underlying OS process keeps running; there is no
// inter-process cancellation, only reference cleanup.
func (a *ActiveProcess) Abandon() {
	if a == nil {
		return
	}
	if err := a.arts.Remove(); err != nil {
		a.logger.Warn("temp artifact cleanup failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "artifact_cleanup_failed"),
		)
	}
}

// completionSignalled applies the detection predicate: marker existence
// when a marker path was allocated, nonzero output size otherwise.
func (a *ActiveProcess) completionSignalled() bool {
	if a.arts.Marker != "" {
		_, err := os.Stat(a.arts.Marker)
		return err == nil
	}
	info, err := os.Stat(a.arts.Output)
	return err == nil && info.Size() > 0
}

// classifySideChannel reads the diagnostic artifact once and reports the
// first ERROR: line, if any.
func (a *ActiveProcess) classifySideChannel() (string, bool) {
	file, err := os.Open(a.arts.SideChannel)
	if err != nil {
		// Missing side channel is not a failure; the process may not have
		// written diagnostics at all.
		return "", false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, errorToken) {
			return strings.TrimSpace(strings.TrimPrefix(line, errorToken)), true
		}
	}
	return "", false
}

func (a *ActiveProcess) extract() {
	if a.readCursor > 0 {
		// Already extracted; result lines are never parsed twice.
		return
	}
	segs, n, err := segments.ExtractFile(a.arts.Output)
	if err != nil {
		a.fail(fmt.Sprintf("read transcriber output: %v", err))
		return
	}
	a.readCursor = n
	a.results = segs
	a.status = StatusComplete
}

func (a *ActiveProcess) fail(message string) {
	if message == "" {
		message = "transcriber reported an error"
	}
	a.errMessage = message
	a.status = StatusFailed
}
