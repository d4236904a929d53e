// Package config loads, normalizes, and validates scribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the daemon and CLI need: work/log directories, the external transcriber
// contract, tick cadence, and logging output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
