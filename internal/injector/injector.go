// Package injector prepends generated frontmatter to Markdown files that lack it.
package injector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/starford/fminject/internal/apperr"
	"github.com/starford/fminject/internal/checksum"
	"github.com/starford/fminject/internal/journal"
	"github.com/starford/fminject/internal/metadata"
	"github.com/starford/fminject/internal/parser"
	"github.com/starford/fminject/internal/storage"
)

// Outcome kinds.
const (
	Updated = "updated"
	Skipped = "skipped"
)

// Outcome describes what happened to a single file.
type Outcome struct {
	Path   string
	Kind   string
	DryRun bool
}

// Summary counts the outcomes of a run.
type Summary struct {
	Updated int
	Skipped int
}

// Recorder receives one entry per processed file.
type Recorder interface {
	Record(e journal.Entry) error
}

// Injector walks Markdown files and writes missing frontmatter.
type Injector struct {
	store    storage.Provider
	tmpl     metadata.Template
	now      func() time.Time
	out      io.Writer
	logger   *slog.Logger
	recorder Recorder
	dryRun   bool
}

// New creates an Injector over store with the default template, the local
// wall clock, and no console output.
func New(store storage.Provider, opts ...Option) *Injector {
	inj := &Injector{
		store:  store,
		tmpl:   metadata.DefaultTemplate(),
		now:    time.Now,
		out:    io.Discard,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(inj)
	}
	return inj
}

// Run processes every Markdown file under root in walk order. The first
// error stops the walk; files handled before it keep their changes.
func (inj *Injector) Run(ctx context.Context, root string) (Summary, error) {
	var sum Summary
	for path, err := range inj.store.Markdown(root) {
		if err != nil {
			return sum, fmt.Errorf("injector: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		out, err := inj.ProcessFile(ctx, path)
		if err != nil {
			return sum, err
		}
		switch out.Kind {
		case Updated:
			sum.Updated++
		case Skipped:
			sum.Skipped++
		}
	}
	fmt.Fprintln(inj.out, "Metadata addition complete.")
	inj.logger.Info("injector: run complete",
		slog.String("root", root),
		slog.Int("updated", sum.Updated),
		slog.Int("skipped", sum.Skipped),
		slog.Bool("dry_run", inj.dryRun))
	return sum, nil
}

// ProcessFile prepends a generated block to the file at path unless its
// content already starts with the frontmatter delimiter. Content that is not
// valid UTF-8 is an error and is left untouched.
func (inj *Injector) ProcessFile(_ context.Context, path string) (Outcome, error) {
	block := inj.tmpl.ForFile(path, inj.now())
	if !metadata.URLSafe(block.Slug) {
		inj.logger.Warn("injector: slug is not URL safe",
			slog.String("path", path),
			slog.String("slug", block.Slug))
	}

	content, err := inj.store.Read(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("injector: %w", err)
	}
	if !utf8.Valid(content) {
		return Outcome{}, fmt.Errorf("injector: %s: %w", path, apperr.ErrInvalidEncoding)
	}
	before := checksum.Sum(content)

	if parser.HasFrontmatter(content) {
		fmt.Fprintf(inj.out, "Skipping %s: Metadata already exists\n", path)
		inj.logger.Debug("injector: skipped", slog.String("path", path))
		out := Outcome{Path: path, Kind: Skipped, DryRun: inj.dryRun}
		return out, inj.record(out, before, before)
	}

	updated := make([]byte, 0, len(content)+256)
	updated = append(updated, block.Render()...)
	updated = append(updated, content...)

	out := Outcome{Path: path, Kind: Updated, DryRun: inj.dryRun}
	if inj.dryRun {
		fmt.Fprintf(inj.out, "Would add metadata to %s\n", path)
		return out, inj.record(out, before, before)
	}

	if err := inj.store.Write(path, updated); err != nil {
		return Outcome{}, fmt.Errorf("injector: %w", err)
	}
	fmt.Fprintf(inj.out, "Added metadata to %s\n", path)
	inj.logger.Debug("injector: updated", slog.String("path", path), slog.String("title", block.Title))
	return out, inj.record(out, before, checksum.Sum(updated))
}

func (inj *Injector) record(out Outcome, before, after string) error {
	if inj.recorder == nil {
		return nil
	}
	if err := inj.recorder.Record(journal.Entry{
		Path:           out.Path,
		Outcome:        out.Kind,
		ChecksumBefore: before,
		ChecksumAfter:  after,
		At:             inj.now(),
	}); err != nil {
		return fmt.Errorf("injector: %w", err)
	}
	return nil
}
