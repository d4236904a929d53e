package config

const (
	defaultWorkDir             = "~/.local/share/scribe/work"
	defaultLogDir              = "~/.local/share/scribe/logs"
	defaultExecutable          = "parakeet-transcribe"
	defaultModel               = "nemo-parakeet-tdt-0.6b-v2"
	defaultMinFreeSpaceGiB     = 1
	defaultTickIntervalMS      = 400
	defaultProgressPollSeconds = 2
	defaultLogLevel            = "info"
	defaultLogFormat           = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Transcriber: Transcriber{
			Executable:          defaultExecutable,
			Model:               defaultModel,
			UseCompletionMarker: true,
			EnableProgressFile:  false,
			MinFreeSpaceGiB:     defaultMinFreeSpaceGiB,
		},
		Workflow: Workflow{
			TickIntervalMS:      defaultTickIntervalMS,
			ProgressPollSeconds: defaultProgressPollSeconds,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
