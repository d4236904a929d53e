package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// StubBehavior controls what a stub transcriber emits.
type StubBehavior struct {
	// Lines are written verbatim to stdout before the marker.
	Lines []string
	// ErrorMessage, when set, is written to stderr as an ERROR: line.
	ErrorMessage string
	// Diagnostics are written to stderr before any error line.
	Diagnostics []string
}

// WriteStubTranscriber writes an executable shell script implementing the
// external CLI contract: JSON result lines to stdout, diagnostics to
// stderr, and a completion marker written only after stdout is flushed.
// It returns the script path.
func WriteStubTranscriber(t testing.TB, behavior StubBehavior) string {
	t.Helper()

	script := "#!/bin/sh\n"
	script += "marker=\"\"\n"
	script += "while [ $# -gt 0 ]; do\n"
	script += "  case \"$1\" in\n"
	script += "    --completion-marker) marker=\"$2\"; shift 2 ;;\n"
	script += "    *) shift ;;\n"
	script += "  esac\n"
	script += "done\n"
	for _, line := range behavior.Diagnostics {
		script += fmt.Sprintf("echo %q >&2\n", line)
	}
	for _, line := range behavior.Lines {
		script += fmt.Sprintf("echo %q\n", line)
	}
	if behavior.ErrorMessage != "" {
		script += fmt.Sprintf("echo %q >&2\n", "ERROR: "+behavior.ErrorMessage)
	}
	script += "if [ -n \"$marker\" ]; then echo done > \"$marker\"; fi\n"

	path := filepath.Join(t.TempDir(), "stub-transcriber")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub transcriber: %v", err)
	}
	return path
}
