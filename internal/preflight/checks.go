package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"scribe/internal/config"
)

// Result describes one preflight check outcome.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckTranscriber verifies the external executable resolves and is
// executable. A bare name is resolved via PATH.
func CheckTranscriber(executable string) Result {
	const name = "Transcriber"

	trimmed := strings.TrimSpace(executable)
	if trimmed == "" {
		return Result{Name: name, Detail: "transcriber.executable is not set"}
	}

	resolved := trimmed
	if !strings.ContainsRune(trimmed, os.PathSeparator) {
		path, err := exec.LookPath(trimmed)
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: not found in PATH)", trimmed)}
		}
		resolved = path
	} else if _, err := os.Stat(resolved); err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", resolved)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", resolved, err)}
	}

	if err := unix.Access(resolved, unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not executable: %v)", resolved, err)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckWorkDir verifies that the work directory exists and is readable and
// writable.
func CheckWorkDir(path string) Result {
	const name = "Work directory"

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minGiB
// available for temp artifacts.
func CheckFreeSpace(path string, minGiB int) Result {
	const name = "Free space"

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}

	availGiB := float64(stat.Bavail) * float64(stat.Bsize) / (1 << 30)
	detail := fmt.Sprintf("%.1f GiB available in %s", availGiB, path)
	if availGiB < float64(minGiB) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (below %d GiB minimum)", detail, minGiB)}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// Run evaluates every check for the given config.
func Run(cfg *config.Config) []Result {
	return []Result{
		CheckTranscriber(cfg.Transcriber.Executable),
		CheckWorkDir(cfg.Paths.WorkDir),
		CheckFreeSpace(cfg.Paths.WorkDir, cfg.Transcriber.MinFreeSpaceGiB),
	}
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
