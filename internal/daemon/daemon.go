package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/preflight"
	"scribe/internal/proc"
	"scribe/internal/scheduler"
	"scribe/internal/store"
)

// Daemon coordinates the scheduler tick loop and enforces single-instance
// execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store

	mu    sync.Mutex
	sched *scheduler.Scheduler

	lockPath string
	lock     *flock.Flock

	checks []preflight.Result

	running  atomic.Bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	LockFilePath string
	DatabasePath string
	Queue        scheduler.Snapshot
	Checks       []preflight.Result
}

// New constructs a daemon with initialized dependencies. A nil launcher
// defaults to real OS process execution.
func New(cfg *config.Config, archive *store.Store, launcher proc.Launcher, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || archive == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    archive,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
		stopped:  make(chan struct{}),
	}
	d.sched = scheduler.New(cfg, launcher, logger)
	return d, nil
}

// Start acquires the daemon lock, runs preflight checks, and begins the
// tick loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another scribed instance is already running")
	}

	d.checks = preflight.Run(d.cfg)
	for _, check := range d.checks {
		if check.Passed {
			continue
		}
		d.logger.Warn("preflight check failed",
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String("check", check.Name),
			logging.String("detail", check.Detail),
			logging.String(logging.FieldErrorHint, "jobs submitted now will fail at launch"),
		)
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running.Store(true)

	d.wg.Add(1)
	go d.tickLoop(runCtx)

	d.logger.Info("scribed started",
		logging.String("lock", d.lockPath),
		logging.Duration("tick_interval", d.tickInterval()),
	)
	return nil
}

// Stop halts the tick loop and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.cancel()
	d.wg.Wait()
	d.running.Store(false)
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release lock failed", logging.Error(err))
	}
	d.stopOnce.Do(func() { close(d.stopped) })
	d.logger.Info("scribed stopped")
}

// Stopped is closed once the daemon has shut down, whether via Stop or an
// IPC stop request.
func (d *Daemon) Stopped() <-chan struct{} {
	return d.stopped
}

// Close releases daemon resources.
func (d *Daemon) Close() {
	d.Stop()
}

// Submit enqueues a transcription or language-detection request. The
// daemon supplies the continuation: successful transcripts are archived,
// failures are logged. It returns the number of jobs enqueued after
// deduplication.
func (d *Daemon) Submit(kind scheduler.Kind, paths []string, options map[string]string) (int, error) {
	req := scheduler.Request{
		Kind:       kind,
		InputPaths: paths,
		Options:    options,
		Callback:   d.archive,
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sched.Submit(req)
}

// Cancel clears pending jobs and drops the active reference. The active
// OS process keeps running; this is reference cleanup only.
func (d *Daemon) Cancel() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sched.Cancel()
}

// Status returns a point-in-time view of the daemon and its queue.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	queue := d.sched.Status()
	d.mu.Unlock()

	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		LockFilePath: d.lockPath,
		DatabasePath: d.cfg.DatabasePath(),
		Queue:        queue,
		Checks:       d.checks,
	}
}

// Store exposes the transcript archive for IPC handlers.
func (d *Daemon) Store() *store.Store {
	return d.store
}

func (d *Daemon) tickInterval() time.Duration {
	return time.Duration(d.cfg.Workflow.TickIntervalMS) * time.Millisecond
}

func (d *Daemon) tickLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.mu.Lock()
			d.sched.Tick()
			d.mu.Unlock()
		}
	}
}

// archive is the continuation attached to every daemon-submitted job.
func (d *Daemon) archive(outcome scheduler.Outcome) {
	if outcome.Err != nil {
		return
	}
	if outcome.Kind == scheduler.KindDetectLanguage {
		d.logger.Info("language detected",
			logging.String(logging.FieldInputPath, outcome.InputPath),
			logging.String("language", outcome.Language),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	transcript, err := d.store.Save(ctx, outcome.InputPath, string(outcome.Kind), outcome.Model, outcome.Language, outcome.Segments)
	if err != nil {
		d.logger.Error("archive transcript failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "archive_failed"),
			logging.String(logging.FieldInputPath, outcome.InputPath),
		)
		return
	}
	d.logger.Info("transcript archived",
		logging.Int64("transcript_id", transcript.ID),
		logging.String(logging.FieldInputPath, outcome.InputPath),
		logging.Int("segments", transcript.SegmentCount),
	)
}
