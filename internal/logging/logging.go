// Package logging provides the zap logger constructors used across the
// resolver's packages and the command-line front end built on top of it.
package logging

import "go.uber.org/zap"

// NewNop returns a logger that discards everything, the default for a
// resolver.Config with no Logger set.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// NewDevelopment returns a human-readable, colorized development logger.
// If construction fails (it practically never does for the development
// preset), it falls back to NewNop rather than returning an error.
func NewDevelopment() *zap.Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return NewNop()
	}
	return logger
}
