// Package logger provides the structured logging facility for lootdex,
// based on Zap.
//
// The logger is configured from logger.Config: Level selects development
// (debug) or production presets, Format selects console or json encoding.
//
// WithRayID attaches the per-request ray id from a Fiber context to a log
// entry so all lines belonging to one search or resolution can be
// correlated:
//
//	l := logger.WithRayID(log, c)
//	l.Error("resolution failed", zap.Error(err))
package logger
