// Package internal provides the application entry points and their runtime wiring.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/fminject/internal/injector"
	"github.com/starford/fminject/internal/journal"
	"github.com/starford/fminject/internal/storage"
)

// newApplication applies opts and fills in defaults shared by every entry point.
func newApplication(opts []Option) (*application, *slog.Logger, error) {
	app := &application{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	if app.root == "" {
		return nil, nil, fmt.Errorf("root directory is required")
	}

	abs, err := filepath.Abs(app.root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve root: %w", err)
	}
	app.root = abs

	// Structured logs go to stderr; stdout carries the per-file report.
	logger := slog.New(slog.NewJSONHandler(app.stderr, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("root", app.root),
		slog.String("extension", app.config.Scan.Extension),
		slog.String("author", app.config.Metadata.Author),
		slog.String("journal_path", app.config.Journal.Path),
		slog.Bool("dry_run", app.dryRun),
		slog.String("log_level", app.config.App.LogLevel.String()))

	return app, logger, nil
}

func (a *application) injectorOptions(logger *slog.Logger) []injector.Option {
	return []injector.Option{
		injector.WithTemplate(a.config.Metadata.Template()),
		injector.WithReporter(a.stdout),
		injector.WithLogger(logger),
		injector.WithDryRun(a.dryRun),
	}
}

// Run injects frontmatter into every Markdown file under the configured root.
// The first I/O error stops the run and is returned.
func Run(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}

	store := storage.NewFS(app.config.Scan.Extension)
	injOpts := app.injectorOptions(logger)

	var run *journal.Run
	if app.config.Journal.Enabled() {
		db, err := journal.Open(app.config.Journal.Path)
		if err != nil {
			return fmt.Errorf("init journal: %w", err)
		}
		defer db.Close()

		run, err = db.BeginRun(app.root, app.dryRun)
		if err != nil {
			return fmt.Errorf("init journal: %w", err)
		}
		injOpts = append(injOpts, injector.WithRecorder(run))
	}

	sum, runErr := injector.New(store, injOpts...).Run(ctx, app.root)

	if run != nil {
		if err := run.Finish(sum.Updated, sum.Skipped, runErr); err != nil {
			logger.Warn("journal: finish failed", slog.String("error", err.Error()))
		}
	}
	if runErr != nil {
		return fmt.Errorf("inject: %w", runErr)
	}
	return nil
}
