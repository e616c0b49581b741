package internal

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/starford/fminject/internal/journal"
)

// History prints the most recent journaled runs.
func History(_ context.Context, limit int, opts ...Option) error {
	app, _, err := newApplication(opts)
	if err != nil {
		return err
	}
	if !app.config.Journal.Enabled() {
		return fmt.Errorf("journal is disabled: set journal.path in the config")
	}

	db, err := journal.Open(app.config.Journal.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer db.Close()

	runs, err := db.RecentRuns(limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(app.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tROOT\tUPDATED\tSKIPPED\tDRY RUN\tERROR")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%t\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Root, r.Updated, r.Skipped, r.DryRun, r.Error)
	}
	return tw.Flush()
}
