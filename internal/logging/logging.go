// Package logging builds the application logger. The TUI owns the terminal,
// so logs go to a file; an empty path yields a no-op logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a zap logger writing to path. Debug enables the development
// config (debug level, human-readable output).
func New(path string, debug bool) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return logger, nil
}
