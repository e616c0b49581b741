// Package watcher injects frontmatter into Markdown files as they appear or change.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/fminject/internal/injector"
)

// Processor handles a single Markdown file.
type Processor interface {
	ProcessFile(ctx context.Context, path string) (injector.Outcome, error)
}

// EventCallback is called after every processed file.
type EventCallback func(out injector.Outcome)

// settleDelay is how long a path must stay quiet before it is processed, so
// that a file is not read between its creation and its first write.
const settleDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on root and every directory below it and
// processes Create/Write events for files ending in ext until ctx is
// cancelled. Events are batched until the tree has been quiet for
// settleDelay. Processing errors are logged and do not stop the watcher.
//
// Directories created at runtime are added to the watch list and any
// Markdown files already inside them are processed.
func Watch(ctx context.Context, root, ext string, proc Processor, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root), slog.String("extension", ext))

	handle := func(path string) {
		out, err := proc.ProcessFile(ctx, path)
		if err != nil {
			logger.Warn("watcher: process failed", slog.String("path", path), slog.String("error", err.Error()))
			return
		}
		logger.Debug("watcher: processed", slog.String("path", path), slog.String("outcome", out.Kind))
		if cb != nil {
			cb(out)
		}
	}

	pending := make(map[string]struct{})
	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	schedule := func(path string) {
		pending[path] = struct{}{}
		if settleTimer == nil {
			settleTimer = time.NewTimer(settleDelay)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(settleDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-settleCh:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)
			for _, p := range paths {
				if info, statErr := os.Lstat(p); statErr != nil || !info.Mode().IsRegular() {
					continue
				}
				handle(p)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Lstat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					markdownIn(ev.Name, ext, schedule)
					continue
				}
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(filepath.Base(ev.Name), ext) {
				continue
			}
			schedule(ev.Name)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// markdownIn schedules Markdown files found in a newly created directory.
func markdownIn(dir, ext string, schedule func(string)) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		schedule(path)
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
