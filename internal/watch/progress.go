package watch

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// fixedMidpoint is reported for an active job with no richer signal.
// Deliberately coarse: true sub-job progress would require reading streams
// the process is still writing.
const fixedMidpoint = 0.5

// runningCeiling caps estimates while the job runs; 1.0 is reserved for
// detected completion.
const runningCeiling = 0.99

// Estimator derives fractional progress from an optional small progress
// artifact the transcriber rewrites between chunks. The artifact is read at
// most once per poll interval, and reported fractions never decrease for
// the lifetime of one job.
type Estimator struct {
	path      string
	pollEvery time.Duration

	lastRead time.Time
	fraction float64
	sampled  bool
	// reported floors every return value so callers see a non-decreasing
	// sequence even when the artifact signal starts below the midpoint
	// fallback.
	reported float64
}

// NewEstimator builds an estimator for the given progress artifact path.
// An empty path means no signal is available and callers should use the
// fixed midpoint instead.
func NewEstimator(path string, pollEvery time.Duration) *Estimator {
	if path == "" {
		return nil
	}
	if pollEvery < 2*time.Second {
		pollEvery = 2 * time.Second
	}
	return &Estimator{path: path, pollEvery: pollEvery}
}

// Fraction returns the best known estimate in [0, 0.99] as of now.
func (e *Estimator) Fraction(now time.Time) float64 {
	if e == nil {
		return fixedMidpoint
	}
	if e.lastRead.IsZero() || now.Sub(e.lastRead) >= e.pollEvery {
		e.lastRead = now
		e.sample()
	}
	return e.report()
}

// sample reads the progress artifact and folds the parsed fraction into
// the running maximum. Read failures leave the previous estimate intact.
func (e *Estimator) sample() {
	raw, err := os.ReadFile(e.path)
	if err != nil {
		return
	}
	current, total, ok := parseChunkProgress(string(raw))
	if !ok || total <= 0 {
		return
	}

	fraction := float64(current) / float64(total)
	if fraction > runningCeiling {
		fraction = runningCeiling
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > e.fraction {
		e.fraction = fraction
	}
	e.sampled = true
}

// report returns the sampled fraction, falling back to the midpoint until
// the artifact yields a first value, and never less than a previous call.
func (e *Estimator) report() float64 {
	value := fixedMidpoint
	if e.sampled {
		value = e.fraction
	}
	if value < e.reported {
		value = e.reported
	}
	e.reported = value
	return value
}

// parseChunkProgress accepts "current/total" or "chunk current of total",
// using the last non-empty line of the artifact.
func parseChunkProgress(raw string) (current, total int, ok bool) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	var line string
	for i := len(lines) - 1; i >= 0; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			line = trimmed
			break
		}
	}
	if line == "" {
		return 0, 0, false
	}

	if before, after, found := strings.Cut(line, "/"); found {
		current, err1 := strconv.Atoi(strings.TrimSpace(before))
		total, err2 := strconv.Atoi(strings.TrimSpace(after))
		if err1 == nil && err2 == nil {
			return current, total, true
		}
	}

	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 4 && fields[0] == "chunk" && fields[2] == "of" {
		current, err1 := strconv.Atoi(fields[1])
		total, err2 := strconv.Atoi(fields[3])
		if err1 == nil && err2 == nil {
			return current, total, true
		}
	}
	return 0, 0, false
}
