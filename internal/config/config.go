package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
}

// Transcriber describes the external transcription executable contract.
type Transcriber struct {
	Executable string `toml:"executable"`
	Model      string `toml:"model"`
	// UseCompletionMarker selects marker-file completion detection; when
	// false the scheduler falls back to the output-size check.
	UseCompletionMarker bool `toml:"use_completion_marker"`
	// EnableProgressFile asks the executable to write a chunk-progress file
	// the estimator may read on a slow interval.
	EnableProgressFile bool `toml:"enable_progress_file"`
	MinFreeSpaceGiB    int  `toml:"min_free_space_gib"`
}

// Workflow contains daemon timing configuration.
type Workflow struct {
	TickIntervalMS      int `toml:"tick_interval_ms"`
	ProgressPollSeconds int `toml:"progress_poll_seconds"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration for the daemon and CLI.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Transcriber Transcriber `toml:"transcriber"`
	Workflow    Workflow    `toml:"workflow"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scribe/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file. The
// boolean result reports whether a file was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to path.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists: %s", expanded)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SocketPath returns the Unix socket path used by the daemon IPC server.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.LogDir, "scribed.sock")
}

// LockPath returns the daemon single-instance lock file path.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "scribed.lock")
}

// DatabasePath returns the transcript archive database path.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.LogDir, "transcripts.db")
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", trimmed, err)
	}
	return abs, nil
}
