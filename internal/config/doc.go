// Package config loads, normalizes, and validates sawmill configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the logging core and CLI need: queue sizing, repeated-message aggregation
// windows, sink selection, and channel-level persistence.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical level names, and clear validation errors.
package config
