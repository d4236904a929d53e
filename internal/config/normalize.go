package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscriber()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscriber() {
	c.Transcriber.Executable = strings.TrimSpace(c.Transcriber.Executable)
	if c.Transcriber.Executable == "" {
		c.Transcriber.Executable = defaultExecutable
	}
	c.Transcriber.Model = strings.TrimSpace(c.Transcriber.Model)
	if c.Transcriber.MinFreeSpaceGiB <= 0 {
		c.Transcriber.MinFreeSpaceGiB = defaultMinFreeSpaceGiB
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.TickIntervalMS <= 0 {
		c.Workflow.TickIntervalMS = defaultTickIntervalMS
	}
	if c.Workflow.ProgressPollSeconds < defaultProgressPollSeconds {
		// Reading the progress artifact more often than every couple of
		// seconds defeats the cheap-read contract with the executable.
		c.Workflow.ProgressPollSeconds = defaultProgressPollSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
