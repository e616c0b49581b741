package injector

import (
	"io"
	"log/slog"
	"time"

	"github.com/starford/fminject/internal/metadata"
)

// Option is a functional option for configuring an Injector.
type Option func(*Injector)

// WithTemplate sets the constant block fields.
func WithTemplate(t metadata.Template) Option {
	return func(inj *Injector) {
		inj.tmpl = t
	}
}

// WithClock replaces the wall clock used for block timestamps.
func WithClock(now func() time.Time) Option {
	return func(inj *Injector) {
		inj.now = now
	}
}

// WithReporter sets where per-file status lines are printed.
func WithReporter(w io.Writer) Option {
	return func(inj *Injector) {
		inj.out = w
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(inj *Injector) {
		inj.logger = l
	}
}

// WithRecorder records every outcome, typically into a journal run.
func WithRecorder(r Recorder) Option {
	return func(inj *Injector) {
		inj.recorder = r
	}
}

// WithDryRun reports changes without writing them.
func WithDryRun(dryRun bool) Option {
	return func(inj *Injector) {
		inj.dryRun = dryRun
	}
}
