// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// logRotator is kept package-level so it can be closed from main's
// shutdown sequence, matching the teacher's own logging lifecycle: the
// rotator outlives any single subsystem logger.
var logRotator *rotator.Rotator

// initLogging creates a rotating log file under logDir and a
// decred/slog backend writing to both it and stdout, and returns one
// Logger per subsystem the node wires up. Every subsystem shares the
// single configured level; per-subsystem level overrides aren't part of
// the configuration surface.
func initLogging(logDir, level string) (map[string]slog.Logger, error) {
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return nil, err
	}

	r, err := rotator.New(filepath.Join(logDir, "exccnoded.log"), 32*1024, false, 10)
	if err != nil {
		return nil, err
	}
	logRotator = r

	backend := slog.NewBackend(io.MultiWriter(os.Stdout, logWriter{}))

	lvl, ok := slog.LevelFromString(level)
	if !ok {
		lvl = slog.LevelInfo
	}

	subsystems := []string{"NODE", "CHAN", "MEMP", "PEER", "SYNC", "MINR", "DRCT"}
	loggers := make(map[string]slog.Logger, len(subsystems))
	for _, tag := range subsystems {
		l := backend.Logger(tag)
		l.SetLevel(lvl)
		loggers[tag] = l
	}
	return loggers, nil
}

// logWriter adapts logRotator (a io.WriteCloser once opened) to
// io.Writer for the MultiWriter above without exposing Close to the
// logging backend.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	return logRotator.Write(p)
}

func closeLogging() {
	if logRotator != nil {
		logRotator.Close()
	}
}
