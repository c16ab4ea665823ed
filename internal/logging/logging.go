// Package logging builds the zap loggers used across the module:
// connection, channel and mock packages all take a *zap.Logger rather
// than reaching for a package-global, so a caller embedding this
// library in a larger service can route its logs wherever the rest
// of that service's logs go.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Development selects zap's development preset (console encoder,
	// caller and stack traces on warn+) over its production preset
	// (JSON encoder, sampling).
	Development bool
	// Level is the minimum enabled level. Zero value is zap's default
	// (Info).
	Level zapcore.Level
}

// New builds a *zap.Logger per opts. Errors only on a broken zap
// config, which New's fixed config never produces; callers may ignore
// the error or propagate it per their own convention.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(opts.Level)
	return cfg.Build()
}

// Nop returns a logger that discards everything, for callers that
// want the façade's logging plumbing without configuring zap.
func Nop() *zap.Logger {
	return zap.NewNop()
}
