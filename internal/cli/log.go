// Package cli implements the dijkstraviz command line.
//
// Commands:
//   - generate: build a random geometric graph and write it as JSON
//   - run: replay a search headlessly and print the shortest path
//   - tui: interactive terminal visualizer
//   - render: write a DOT, SVG or PNG snapshot of a solved search
//   - serve: drive one shared session over HTTP
//   - cache: inspect and clear the graph cache
//
// Logs go to stderr through charmbracelet/log; --verbose adds the debug lines
// emitted by the generation, search, playback and cache hooks. Commands pass
// the logger down in their context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch logs how long a command phase took once it finishes.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) stopwatch {
	return stopwatch{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and a "took" field.
func (s stopwatch) done(msg string, keyvals ...any) {
	took := time.Since(s.start).Round(time.Millisecond)
	s.logger.Info(msg, append(keyvals, "took", took)...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
