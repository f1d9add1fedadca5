// Copyright © 2014-2017 Lawrence E. Bakst. All rights reserved.

// Package log builds the logr loggers used by the cuckoo tools.
package log

import (
	"context"
	stdlog "log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// GetLogger returns a stdr backed logr.Logger named "cuckoo".
// v is 0 for info, 1 for growth and cycle events, 2 for trace.
// Anything else falls back to 0.
func GetLogger(v int) logr.Logger {
	logger := stdr.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags)).WithName("cuckoo")
	if v > 2 || v < 0 {
		v = 0
		logger.Info("invalid verbosity, using 0")
	}
	stdr.SetVerbosity(v)
	return logger
}

// ContextWithLogger returns a copy of ctx carrying logger.
func ContextWithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// FromContext returns the logger in ctx, or a fresh verbosity 0 logger, with name
// appended when it is not empty.
func FromContext(ctx context.Context, name string) logr.Logger {
	logger, err := logr.FromContext(ctx)
	if err != nil {
		logger = GetLogger(0)
	}
	if name != "" {
		return logger.WithName(name)
	}
	return logger
}
