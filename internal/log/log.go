// Package log configures the process wide slog logger.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	charmlog "charm.land/log/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
)

// Setup points the default slog logger at a rotating JSON log file. Only the
// first call has an effect.
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 0,
			MaxAge:     30, // days
			Compress:   false,
		}
		slog.SetDefault(slog.New(newHandler(rotator, debug)))
		initialized.Store(true)
	})
}

func newHandler(w io.Writer, debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
}

// Initialized reports whether [Setup] ran.
func Initialized() bool {
	return initialized.Load()
}

// NewConsole returns a logger writing human readable lines to w. CLI
// commands use it for progress output in debug mode.
func NewConsole(w io.Writer, debug bool) *slog.Logger {
	l := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "proptic",
		Level:           charmlog.InfoLevel,
	})
	if debug {
		l.SetLevel(charmlog.DebugLevel)
	}
	return slog.New(l)
}

// RecoverPanic logs a recovered panic with its stack and calls cleanup.
// It must be deferred directly.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		slog.Error("Panic recovered", "name", name, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		if !Initialized() {
			fmt.Fprintf(os.Stderr, "panic in %s: %v\n", name, r)
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
