package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/fminject/internal/injector"
	"github.com/starford/fminject/internal/journal"
	"github.com/starford/fminject/internal/storage"
	"github.com/starford/fminject/internal/watcher"
)

// Watch runs one injection pass over the root and then keeps injecting into
// Markdown files as they are created or written, until ctx is cancelled or
// SIGINT/SIGTERM is received.
func Watch(ctx context.Context, opts ...Option) error {
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

	inj := injector.New(store, injOpts...)

	var updated, skipped int
	sum, err := inj.Run(ctx, app.root)
	updated, skipped = sum.Updated, sum.Skipped
	if err != nil {
		if run != nil {
			_ = run.Finish(updated, skipped, err)
		}
		return fmt.Errorf("initial pass: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	wCtx, stop := context.WithCancel(gCtx)
	defer stop()

	g.Go(func() error {
		return watcher.Watch(wCtx, app.root, store.Extension(), inj, logger, func(out injector.Outcome) {
			switch out.Kind {
			case injector.Updated:
				updated++
			case injector.Skipped:
				skipped++
			}
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-wCtx.Done():
			logger.Info("Context cancelled, stopping watcher")
		}
		stop()
		return nil
	})

	waitErr := g.Wait()
	if run != nil {
		if err := run.Finish(updated, skipped, waitErr); err != nil {
			logger.Warn("journal: finish failed", slog.String("error", err.Error()))
		}
	}
	if waitErr != nil {
		logger.Error("Watch error", slog.String("error", waitErr.Error()))
		return waitErr
	}

	logger.Info("Watcher stopped successfully",
		slog.Int("updated", updated),
		slog.Int("skipped", skipped))
	return nil
}
