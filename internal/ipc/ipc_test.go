package ipc_test

import (
	"context"
	"testing"
	"time"

	"scribe/internal/config"
	"scribe/internal/daemon"
	"scribe/internal/ipc"
	"scribe/internal/store"
	"scribe/internal/testsupport"
)

func startDaemon(t *testing.T, cfg *config.Config) (*daemon.Daemon, *ipc.Client) {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	archive, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = archive.Close() })

	d, err := daemon.New(cfg, archive, nil, nil)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start daemon: %v", err)
	}
	t.Cleanup(d.Stop)

	server, err := ipc.NewServer(context.Background(), cfg.SocketPath(), d, nil)
	if err != nil {
		t.Fatalf("start ipc server: %v", err)
	}
	t.Cleanup(server.Close)

	client, err := ipc.Dial(cfg.SocketPath())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return d, client
}

func TestSubmitStatusRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Transcriber.Executable = testsupport.WriteStubTranscriber(t, testsupport.StubBehavior{
		Lines: []string{`{"start": 0, "end": 1, "text": "hello"}`},
	})
	_, client := startDaemon(t, cfg)

	resp, err := client.Submit(ipc.SubmitRequest{
		InputPaths: []string{"/audio/a.wav", "/audio/a.wav"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Enqueued != 1 {
		t.Fatalf("expected 1 enqueued after dedup, got %d", resp.Enqueued)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Running {
		t.Fatal("expected running daemon")
	}
	if len(status.Checks) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(status.Checks))
	}

	waitForArchivedTranscript(t, client)
}

func TestSubmitRejectsUnknownKind(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_, client := startDaemon(t, cfg)

	_, err := client.Submit(ipc.SubmitRequest{
		Kind:       "translate",
		InputPaths: []string{"/audio/a.wav"},
	})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestCancelOverIPC(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// Executable that does not exist: jobs fail at launch one per tick, so
	// enqueue enough to leave some pending when cancel lands.
	cfg.Transcriber.Executable = "/nonexistent/transcriber"
	_, client := startDaemon(t, cfg)

	if _, err := client.Submit(ipc.SubmitRequest{
		InputPaths: []string{"/audio/a.wav", "/audio/b.wav", "/audio/c.wav"},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := client.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(status.Queue.PendingPaths) != 0 {
		t.Fatalf("expected empty queue after cancel, got %v", status.Queue.PendingPaths)
	}
}

func TestTranscriptListAndGetOverIPC(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Transcriber.Executable = testsupport.WriteStubTranscriber(t, testsupport.StubBehavior{
		Lines: []string{
			`{"start": 0, "end": 1, "text": "first"}`,
			`{"start": 1, "end": 2, "text": "second"}`,
		},
	})
	_, client := startDaemon(t, cfg)

	if _, err := client.Submit(ipc.SubmitRequest{InputPaths: []string{"/audio/a.wav"}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	summary := waitForArchivedTranscript(t, client)

	full, err := client.TranscriptGet(summary.ID)
	if err != nil {
		t.Fatalf("get transcript: %v", err)
	}
	if len(full.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(full.Segments))
	}
	if full.Segments[0].Text != "first" || full.Segments[1].Text != "second" {
		t.Fatalf("unexpected segment order: %+v", full.Segments)
	}
}

func waitForArchivedTranscript(t *testing.T, client *ipc.Client) ipc.TranscriptSummary {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.TranscriptList()
		if err != nil {
			t.Fatalf("list transcripts: %v", err)
		}
		if len(resp.Transcripts) > 0 {
			return resp.Transcripts[0]
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("timed out waiting for archived transcript")
	return ipc.TranscriptSummary{}
}
