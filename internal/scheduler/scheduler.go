package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/proc"
	"scribe/internal/segments"
	"scribe/internal/tmpfiles"
	"scribe/internal/watch"
)

// Scheduler owns the FIFO queue of pending jobs and the single active
// process slot.
type Scheduler struct {
	cfg      *config.Config
	launcher proc.Launcher
	namer    *tmpfiles.Namer
	logger   *slog.Logger

	pending   []*Job
	active    *watch.ActiveProcess
	activeJob *Job
	completed int
	total     int
}

// New constructs a scheduler. A nil launcher defaults to real OS process
// execution.
func New(cfg *config.Config, launcher proc.Launcher, logger *slog.Logger) *Scheduler {
	if launcher == nil {
		launcher = proc.OSLauncher{}
	}
	return &Scheduler{
		cfg:      cfg,
		launcher: launcher,
		namer:    tmpfiles.NewNamer(cfg.Paths.WorkDir),
		logger:   logging.NewComponentLogger(logger, "scheduler"),
	}
}

// Submit expands a request into one job per distinct input path (first
// occurrence wins) and enqueues them in submission order. It returns the
// number of jobs enqueued.
func (s *Scheduler) Submit(req Request) (int, error) {
	if len(req.InputPaths) == 0 {
		return 0, ErrEmptyRequest
	}
	kind := req.Kind
	if kind == "" {
		kind = KindTranscribe
	}

	seen := make(map[string]struct{}, len(req.InputPaths))
	added := 0
	for _, path := range req.InputPaths {
		key := dedupKey(path)
		if key == "" || key == "." {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		job := &Job{
			ID:        uuid.NewString(),
			InputPath: path,
			Kind:      kind,
			Options:   req.Options,
			callback:  req.Callback,
		}
		s.pending = append(s.pending, job)
		added++

		s.logger.Info("job enqueued",
			logging.String(logging.FieldEventType, "job_enqueued"),
			logging.String(logging.FieldJobID, job.ID),
			logging.String(logging.FieldInputPath, job.InputPath),
			logging.String("kind", string(job.Kind)),
		)
	}
	if added == 0 {
		return 0, ErrEmptyRequest
	}

	s.total += added
	return added, nil
}

// Tick advances scheduling by one step. It is cadence-independent: each
// call either polls the active job, promotes the next pending job, or
// resets the batch counters to idle.
func (s *Scheduler) Tick() {
	switch {
	case s.active != nil:
		s.pollActive()
	case len(s.pending) > 0:
		s.promoteNext()
	case s.total != 0:
		s.logger.Info("batch complete",
			logging.String(logging.FieldEventType, "batch_complete"),
			logging.Int("jobs", s.total),
		)
		s.total = 0
		s.completed = 0
	}
}

// Progress returns nil when idle, otherwise the batch fraction in [0,1]:
// completed jobs plus the active job's fractional estimate, over the batch
// total.
func (s *Scheduler) Progress() *float64 {
	if s.total == 0 {
		return nil
	}
	fraction := float64(s.completed)
	if s.active != nil {
		fraction += s.active.Progress()
	}
	value := fraction / float64(s.total)
	return &value
}

// Cancel clears the pending queue and drops the active-job reference,
// removing its temp artifacts. The OS process of an active job is NOT
// terminated; it runs to completion unobserved (known limitation). No
// continuations fire for cancelled jobs. Returns the number of jobs
// dropped.
func (s *Scheduler) Cancel() int {
	dropped := len(s.pending)
	s.pending = nil

	if s.active != nil {
		s.active.Abandon()
		s.active = nil
		s.activeJob = nil
		dropped++
	}

	s.total = 0
	s.completed = 0

	if dropped > 0 {
		s.logger.Info("batch cancelled",
			logging.String(logging.FieldEventType, "batch_cancelled"),
			logging.Int("dropped", dropped),
		)
	}
	return dropped
}

// Snapshot reports queue state for status surfaces.
type Snapshot struct {
	PendingPaths []string
	ActivePath   string
	ActiveSince  time.Time
	Completed    int
	Total        int
	Progress     *float64
}

// Status returns a point-in-time view of the scheduler.
func (s *Scheduler) Status() Snapshot {
	snap := Snapshot{
		Completed: s.completed,
		Total:     s.total,
		Progress:  s.Progress(),
	}
	for _, job := range s.pending {
		snap.PendingPaths = append(snap.PendingPaths, job.InputPath)
	}
	if s.activeJob != nil {
		snap.ActivePath = s.activeJob.InputPath
		snap.ActiveSince = s.active.StartedAt()
	}
	return snap
}

func (s *Scheduler) pollActive() {
	job := s.activeJob
	switch s.active.Poll() {
	case watch.StatusRunning:
		return
	case watch.StatusComplete:
		s.dispatch(job, s.active.Results(), nil)
	case watch.StatusFailed:
		s.dispatch(job, nil, errors.New(s.active.ErrMessage()))
	}
	s.active = nil
	s.activeJob = nil
	s.completed++
}

func (s *Scheduler) promoteNext() {
	job := s.pending[0]
	s.pending = s.pending[1:]

	active, err := s.launch(job)
	if err != nil {
		// Launch failures surface immediately; the job never occupies the
		// active slot.
		s.logger.Error("transcriber launch failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "launch_failed"),
			logging.String(logging.FieldJobID, job.ID),
			logging.String(logging.FieldInputPath, job.InputPath),
			logging.String(logging.FieldErrorHint, "check transcriber.executable in config"),
		)
		s.dispatch(job, nil, err)
		s.completed++
		return
	}

	s.active = active
	s.activeJob = job
	s.logger.Info("job launched",
		logging.String(logging.FieldEventType, "job_launched"),
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldInputPath, job.InputPath),
	)
}

func (s *Scheduler) launch(job *Job) (*watch.ActiveProcess, error) {
	arts, err := s.namer.Allocate(
		s.cfg.Transcriber.UseCompletionMarker,
		s.cfg.Transcriber.EnableProgressFile,
	)
	if err != nil {
		return nil, fmt.Errorf("allocate artifacts: %w", err)
	}

	spec := proc.Spec{
		Executable:     s.cfg.Transcriber.Executable,
		InputPath:      job.InputPath,
		Model:          s.resolveModel(job),
		DetectLanguage: job.Kind == KindDetectLanguage,
		MarkerPath:     arts.Marker,
		ProgressPath:   arts.Progress,
		Options:        job.Options,
	}
	if err := s.launcher.Launch(spec, arts.Output, arts.SideChannel); err != nil {
		_ = arts.Remove()
		return nil, fmt.Errorf("launch transcriber: %w", err)
	}

	estimator := watch.NewEstimator(
		arts.Progress,
		time.Duration(s.cfg.Workflow.ProgressPollSeconds)*time.Second,
	)
	return watch.NewActiveProcess(arts, estimator, s.logger), nil
}

// resolveModel applies the per-job model override over the configured
// default.
func (s *Scheduler) resolveModel(job *Job) string {
	if override, ok := job.Options["model"]; ok && override != "" {
		return override
	}
	return s.cfg.Transcriber.Model
}

// dispatch invokes the job's continuation exactly once.
func (s *Scheduler) dispatch(job *Job, segs []segments.Segment, jobErr error) {
	outcome := Outcome{
		JobID:     job.ID,
		InputPath: job.InputPath,
		Kind:      job.Kind,
		Model:     s.resolveModel(job),
		Segments:  segs,
		Language:  segments.Language(segs),
		Err:       jobErr,
	}

	if jobErr != nil {
		s.logger.Error("job failed",
			logging.Error(jobErr),
			logging.String(logging.FieldEventType, "job_failed"),
			logging.String(logging.FieldJobID, job.ID),
			logging.String(logging.FieldInputPath, job.InputPath),
		)
	} else {
		s.logger.Info("job complete",
			logging.String(logging.FieldEventType, "job_complete"),
			logging.String(logging.FieldJobID, job.ID),
			logging.String(logging.FieldInputPath, job.InputPath),
			logging.Int("segments", len(segs)),
		)
	}

	if job.callback != nil {
		job.callback(outcome)
	}
}
