package config

import "errors"

var (
	// ErrConfigFile wraps failures reading or parsing a configuration
	// source.
	ErrConfigFile = errors.New("config load failed")

	// ErrInvalidConfig marks a loaded configuration the tool cannot run
	// with.
	ErrInvalidConfig = errors.New("invalid configuration")
)
