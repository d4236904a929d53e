package scheduler_test

import (
	"errors"
	"os"
	"testing"

	"scribe/internal/proc"
	"scribe/internal/scheduler"
	"scribe/internal/testsupport"
)

// fakeLauncher satisfies the launcher contract by writing artifact files
// directly instead of spawning a process.
type fakeLauncher struct {
	launches []proc.Spec

	failWith    error
	lines       []string
	sideChannel string
	// holdOpen leaves the marker unwritten so the job stays running.
	holdOpen bool
}

func (f *fakeLauncher) Launch(spec proc.Spec, stdoutPath, stderrPath string) error {
	f.launches = append(f.launches, spec)
	if f.failWith != nil {
		return f.failWith
	}

	var out string
	for _, line := range f.lines {
		out += line + "\n"
	}
	if err := os.WriteFile(stdoutPath, []byte(out), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(stderrPath, []byte(f.sideChannel), 0o644); err != nil {
		return err
	}
	if spec.MarkerPath != "" && !f.holdOpen {
		return os.WriteFile(spec.MarkerPath, []byte("done\n"), 0o644)
	}
	return nil
}

func collectOutcomes(sink *[]scheduler.Outcome) scheduler.Continuation {
	return func(outcome scheduler.Outcome) {
		*sink = append(*sink, outcome)
	}
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		raw  string
		want scheduler.Kind
		ok   bool
	}{
		{"transcribe", scheduler.KindTranscribe, true},
		{" Detect_Language ", scheduler.KindDetectLanguage, true},
		{"translate", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := scheduler.ParseKind(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseKind(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestJobsRunFIFOWithExactlyOneContinuationEach(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	launcher := &fakeLauncher{lines: []string{`{"start": 0, "end": 1, "text": "hi"}`}}
	sched := scheduler.New(cfg, launcher, nil)

	var outcomes []scheduler.Outcome
	added, err := sched.Submit(scheduler.Request{
		InputPaths: []string{"/audio/a.wav", "/audio/b.wav", "/audio/c.wav"},
		Callback:   collectOutcomes(&outcomes),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if added != 3 {
		t.Fatalf("expected 3 jobs enqueued, got %d", added)
	}

	// Each job needs one tick to launch and one to complete; one more tick
	// resets the batch.
	for i := 0; i < 7; i++ {
		sched.Tick()
	}

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 continuations, got %d", len(outcomes))
	}
	wantOrder := []string{"/audio/a.wav", "/audio/b.wav", "/audio/c.wav"}
	for i, want := range wantOrder {
		if outcomes[i].InputPath != want {
			t.Fatalf("outcome %d: got %q, want %q", i, outcomes[i].InputPath, want)
		}
		if outcomes[i].Err != nil {
			t.Fatalf("outcome %d: unexpected error %v", i, outcomes[i].Err)
		}
		if len(outcomes[i].Segments) != 1 {
			t.Fatalf("outcome %d: expected 1 segment, got %d", i, len(outcomes[i].Segments))
		}
	}
	if sched.Progress() != nil {
		t.Fatal("expected nil progress after batch reset")
	}
}

func TestSubmitDeduplicatesWithinRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sched := scheduler.New(cfg, &fakeLauncher{}, nil)

	added, err := sched.Submit(scheduler.Request{
		InputPaths: []string{"/audio/a.wav", "/audio/a.wav", "/audio/b.wav", "/audio/./a.wav"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 jobs after dedup, got %d", added)
	}

	snap := sched.Status()
	if len(snap.PendingPaths) != 2 {
		t.Fatalf("expected 2 pending paths, got %v", snap.PendingPaths)
	}
	if snap.PendingPaths[0] != "/audio/a.wav" || snap.PendingPaths[1] != "/audio/b.wav" {
		t.Fatalf("unexpected pending order: %v", snap.PendingPaths)
	}
}

func TestSubmitRejectsEmptyRequests(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sched := scheduler.New(cfg, &fakeLauncher{}, nil)

	if _, err := sched.Submit(scheduler.Request{}); !errors.Is(err, scheduler.ErrEmptyRequest) {
		t.Fatalf("expected ErrEmptyRequest, got %v", err)
	}
	if _, err := sched.Submit(scheduler.Request{InputPaths: []string{"   ", ""}}); !errors.Is(err, scheduler.ErrEmptyRequest) {
		t.Fatalf("expected ErrEmptyRequest for blank paths, got %v", err)
	}
}

func TestCancelDropsPendingAndActiveWithoutContinuations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	launcher := &fakeLauncher{holdOpen: true}
	sched := scheduler.New(cfg, launcher, nil)

	var outcomes []scheduler.Outcome
	if _, err := sched.Submit(scheduler.Request{
		InputPaths: []string{"/audio/a.wav", "/audio/b.wav", "/audio/c.wav"},
		Callback:   collectOutcomes(&outcomes),
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	sched.Tick() // promotes a.wav, which never completes
	snap := sched.Status()
	if snap.ActivePath != "/audio/a.wav" {
		t.Fatalf("expected a.wav active, got %q", snap.ActivePath)
	}

	if dropped := sched.Cancel(); dropped != 3 {
		t.Fatalf("expected 3 dropped jobs, got %d", dropped)
	}
	if len(outcomes) != 0 {
		t.Fatalf("cancelled jobs must not fire continuations, got %d", len(outcomes))
	}

	snap = sched.Status()
	if snap.ActivePath != "" || len(snap.PendingPaths) != 0 || snap.Total != 0 {
		t.Fatalf("expected empty queue after cancel, got %+v", snap)
	}
	if sched.Progress() != nil {
		t.Fatal("expected nil progress after cancel")
	}

	// The scheduler keeps ticking safely after a cancel.
	sched.Tick()
	if len(outcomes) != 0 {
		t.Fatal("tick after cancel fired a continuation")
	}
}

func TestCancelOnIdleSchedulerDropsNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sched := scheduler.New(cfg, &fakeLauncher{}, nil)

	if dropped := sched.Cancel(); dropped != 0 {
		t.Fatalf("expected 0 dropped jobs, got %d", dropped)
	}
}

func TestLaunchFailureDispatchesErrorImmediately(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	launcher := &fakeLauncher{failWith: errors.New("executable not found")}
	sched := scheduler.New(cfg, launcher, nil)

	var outcomes []scheduler.Outcome
	if _, err := sched.Submit(scheduler.Request{
		InputPaths: []string{"/audio/a.wav"},
		Callback:   collectOutcomes(&outcomes),
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	sched.Tick()
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 continuation, got %d", len(outcomes))
	}
	if outcomes[0].Err == nil {
		t.Fatal("expected error outcome for failed launch")
	}
	if snap := sched.Status(); snap.ActivePath != "" {
		t.Fatalf("failed launch must not occupy the active slot, got %q", snap.ActivePath)
	}
}

func TestFailedJobCarriesSideChannelMessage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	launcher := &fakeLauncher{sideChannel: "ERROR: model not found\n"}
	sched := scheduler.New(cfg, launcher, nil)

	var outcomes []scheduler.Outcome
	if _, err := sched.Submit(scheduler.Request{
		InputPaths: []string{"/audio/a.wav"},
		Callback:   collectOutcomes(&outcomes),
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	sched.Tick() // launch
	sched.Tick() // poll detects marker, classifies failure

	if len(outcomes) != 1 {
		t.Fatalf("expected 1 continuation, got %d", len(outcomes))
	}
	if outcomes[0].Err == nil || outcomes[0].Err.Error() != "model not found" {
		t.Fatalf("unexpected outcome error: %v", outcomes[0].Err)
	}
}

func TestProgressBlendsCompletedAndActiveFractions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	launcher := &fakeLauncher{holdOpen: true}
	sched := scheduler.New(cfg, launcher, nil)

	if sched.Progress() != nil {
		t.Fatal("expected nil progress while idle")
	}

	if _, err := sched.Submit(scheduler.Request{
		InputPaths: []string{"/audio/a.wav", "/audio/b.wav"},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	progress := sched.Progress()
	if progress == nil || *progress != 0 {
		t.Fatalf("expected 0 progress before first launch, got %v", progress)
	}

	sched.Tick() // a.wav becomes active with the fixed midpoint estimate
	progress = sched.Progress()
	if progress == nil || *progress != 0.25 {
		t.Fatalf("expected 0.25 progress with one of two jobs at midpoint, got %v", progress)
	}
}

func TestModelOverrideFlowsToLaunchAndOutcome(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	launcher := &fakeLauncher{lines: []string{`{"start": 0, "end": 1, "text": "hi"}`}}
	sched := scheduler.New(cfg, launcher, nil)

	var outcomes []scheduler.Outcome
	if _, err := sched.Submit(scheduler.Request{
		InputPaths: []string{"/audio/a.wav"},
		Options:    map[string]string{"model": "custom-model"},
		Callback:   collectOutcomes(&outcomes),
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	sched.Tick()
	sched.Tick()

	if len(launcher.launches) != 1 {
		t.Fatalf("expected 1 launch, got %d", len(launcher.launches))
	}
	if launcher.launches[0].Model != "custom-model" {
		t.Fatalf("launch model = %q, want custom-model", launcher.launches[0].Model)
	}
	if len(outcomes) != 1 || outcomes[0].Model != "custom-model" {
		t.Fatalf("unexpected outcomes: %+v", outcomes)
	}
}

func TestDetectLanguageKindFlowsToLaunch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	launcher := &fakeLauncher{lines: []string{`{"language": "de"}`}}
	sched := scheduler.New(cfg, launcher, nil)

	var outcomes []scheduler.Outcome
	if _, err := sched.Submit(scheduler.Request{
		Kind:       scheduler.KindDetectLanguage,
		InputPaths: []string{"/audio/a.wav"},
		Callback:   collectOutcomes(&outcomes),
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	sched.Tick()
	sched.Tick()

	if len(launcher.launches) != 1 || !launcher.launches[0].DetectLanguage {
		t.Fatalf("expected a detect-language launch, got %+v", launcher.launches)
	}
	if len(outcomes) != 1 || outcomes[0].Language != "de" {
		t.Fatalf("unexpected outcomes: %+v", outcomes)
	}
}
