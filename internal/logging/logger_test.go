package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/logging"
)

func TestConsoleFormatFoldsComponentIntoPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scribed.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	component := logging.NewComponentLogger(logger, "scheduler")
	component.Info("job enqueued",
		logging.String(logging.FieldJobID, "abc-123"),
		logging.String(logging.FieldInputPath, "/audio/a b.wav"),
	)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(string(raw))
	if !strings.Contains(line, " INFO scheduler: job enqueued") {
		t.Fatalf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, "job_id=abc-123") {
		t.Fatalf("missing job_id attr: %q", line)
	}
	if !strings.Contains(line, `input_path="/audio/a b.wav"`) {
		t.Fatalf("attr with spaces not quoted: %q", line)
	}
}

func TestConsoleFormatFiltersBelowLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scribed.log")
	logger, err := logging.New(logging.Options{
		Level:       "warn",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("kept")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(raw)
	if strings.Contains(content, "suppressed") {
		t.Fatalf("info line leaked through warn level: %q", content)
	}
	if !strings.Contains(content, "WARN kept") {
		t.Fatalf("warn line missing: %q", content)
	}
}

func TestJSONFormatUsesStableKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scribed.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("job complete", logging.Int("segments", 4))

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "job complete" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["level"] != "info" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatal("missing ts key")
	}
	if entry["segments"] != float64(4) {
		t.Fatalf("unexpected segments attr: %v", entry["segments"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewNopDiscardsEverything(t *testing.T) {
	logger := logging.NewNop()
	// Must not panic or write anywhere.
	logger.Error("discarded", logging.Error(nil))
}
