// Package logger provides the leveled logger shared by every scheduler and
// the CLI. The level vocabulary (NONE/STEPS/FULL) is the solver's own; the
// underlying writer is zerolog so that output is structured and cheap to
// filter, even with many concurrent ranks/workers logging at once.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Level int

const (
	NONE  Level = iota // only errors and start/end messages
	STEPS              // which propagation/split/backtrack steps are taken
	FULL               // per-step board/clause detail
)

// ParseLevel converts a CLI-facing level name to a Level. Unrecognized
// strings fall back to NONE, matching the teacher's permissive parsing.
func ParseLevel(s string) Level {
	switch s {
	case "full", "d", "debug":
		return FULL
	case "steps", "v", "verbose":
		return STEPS
	case "none", "q", "quiet":
		return NONE
	default:
		return NONE
	}
}

// Logger wraps a zerolog.Logger with the solver's three-level vocabulary.
// Unlike the teacher's package-global singleton, a Logger is an explicit
// collaborator: one per RuntimeContext, so each cluster rank can log
// independently without a shared mutable global.
type Logger struct {
	level Level
	zl    zerolog.Logger
}

// New builds a Logger writing to w at the given level. rank is attached to
// every record so multi-process (cluster.Exec) output can be told apart.
func New(level Level, w io.Writer, rank int) *Logger {
	zl := zerolog.New(w).With().Timestamp().Int("rank", rank).Logger()
	return &Logger{level: level, zl: zl}
}

// Default returns a Logger at NONE level writing to stderr, rank 0. Used
// wherever a caller doesn't need to thread a logger through explicitly
// (tests, package-level helpers).
func Default() *Logger {
	return New(NONE, os.Stderr, 0)
}

func (l *Logger) SetLevel(level Level) { l.level = level }
func (l *Logger) Level() Level         { return l.level }

// Error always logs, regardless of level.
func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

// Info logs start/end and summary messages; printed at every level.
func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

// Step logs which propagation/search step ran; printed at STEPS and FULL.
func (l *Logger) Step(format string, args ...any) {
	if l.level >= STEPS {
		l.zl.Debug().Msgf(format, args...)
	}
}

// Detail logs per-step board/candidate state; printed only at FULL.
func (l *Logger) Detail(format string, args ...any) {
	if l.level >= FULL {
		l.zl.Trace().Msgf(format, args...)
	}
}
