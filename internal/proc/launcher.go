package proc

import (
	"fmt"
	"os"
	"os/exec"
)

// Launcher starts a transcriber process without blocking the caller.
// Implementations report only whether the OS accepted the launch request.
type Launcher interface {
	Launch(spec Spec, stdoutPath, stderrPath string) error
}

// OSLauncher launches real processes via os/exec.
type OSLauncher struct{}

// Launch starts the process in the background with its stdout and stderr
// redirected to the given artifact paths, then releases the handle. The
// caller never learns the exit status; completion is detected from the
// artifacts alone.
func (OSLauncher) Launch(spec Spec, stdoutPath, stderrPath string) error {
	stdout, err := os.OpenFile(stdoutPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open output artifact: %w", err)
	}
	defer stdout.Close()

	stderr, err := os.OpenFile(stderrPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open side-channel artifact: %w", err)
	}
	defer stderr.Close()

	cmd := exec.Command(spec.Executable, spec.Args()...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.SysProcAttr = detachAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start transcriber: %w", err)
	}

	// The child owns its lifetime from here; reap-avoidance only.
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("release transcriber process: %w", err)
	}
	return nil
}
