// Package log carries a logrus entry through a context.Context.
//
// Code that has a context logs through G(ctx), which returns the entry stored
// by WithLogger or, when there is none, the package default L.
package log

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

type loggerKey struct{}

var (
	// G is an alias for GetLogger.
	G = GetLogger

	// L is the default logger, used when a context carries none.
	L = logrus.NewEntry(newLogger(io.Discard))
)

// Fields is a set of structured log fields.
type Fields = logrus.Fields

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Setup replaces the default logger with one writing to w. With debug set
// every level is written, otherwise warnings and above.
func Setup(w io.Writer, debug bool) {
	l := newLogger(w)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	L = logrus.NewEntry(l)
}

// WithLogger returns a copy of ctx carrying entry.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, entry)
}

// GetLogger returns the logger stored in ctx, or L.
func GetLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		return entry
	}
	return L
}
