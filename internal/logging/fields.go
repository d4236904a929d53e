package logging

import (
	"context"
	"log/slog"
)

// Standardized attribute keys shared across packages.
const (
	FieldComponent = "component"
	FieldEventType = "event_type"
	FieldJobID     = "job_id"
	FieldInputPath = "input_path"
	FieldErrorHint = "error_hint"
)

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }
func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler        { return NoopHandler{} }
func (NoopHandler) WithGroup(string) slog.Handler             { return NoopHandler{} }
