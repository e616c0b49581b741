package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/fminject/internal/apperr"
	"github.com/starford/fminject/internal/parser"
	"github.com/starford/fminject/internal/storage"
)

// CheckReport lists Markdown files by frontmatter state.
type CheckReport struct {
	OK        []string
	Missing   []string
	Malformed []string
}

// Check reports Markdown files under the root that lack frontmatter or whose
// frontmatter does not decode. Nothing is written. When any file lacks a
// block, the returned error wraps apperr.ErrMissingFrontmatter.
func Check(ctx context.Context, opts ...Option) (*CheckReport, error) {
	app, logger, err := newApplication(opts)
	if err != nil {
		return nil, err
	}

	store := storage.NewFS(app.config.Scan.Extension)
	report := &CheckReport{}
	for path, err := range store.Markdown(app.root) {
		if err != nil {
			return report, err
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		data, err := store.Read(path)
		if err != nil {
			return report, err
		}
		_, _, splitErr := parser.Split(data)
		switch {
		case splitErr == nil:
			report.OK = append(report.OK, path)
		case errors.Is(splitErr, apperr.ErrMissingFrontmatter):
			report.Missing = append(report.Missing, path)
			fmt.Fprintf(app.stdout, "Missing frontmatter: %s\n", path)
		default:
			report.Malformed = append(report.Malformed, path)
			fmt.Fprintf(app.stdout, "Malformed frontmatter: %s (%v)\n", path, splitErr)
		}
	}

	logger.Info("check: complete",
		slog.Int("ok", len(report.OK)),
		slog.Int("missing", len(report.Missing)),
		slog.Int("malformed", len(report.Malformed)))

	if n := len(report.Missing); n > 0 {
		return report, fmt.Errorf("%d file(s): %w", n, apperr.ErrMissingFrontmatter)
	}
	return report, nil
}
