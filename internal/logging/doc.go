// Package logging builds the slog loggers used by the daemon and CLI.
//
// It supports console and JSON output, multi-destination writers (stdout
// plus a daemon log file), and exposes typed attribute helpers alongside
// standardized field-name constants so job lifecycle events stay greppable
// across packages.
package logging
