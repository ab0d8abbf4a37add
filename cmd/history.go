package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/dialsync/internal/repositories"
	"github.com/desertthunder/dialsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists persisted sync runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database (run 'dialsync setup' first): %w", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	runs, err := repositories.NewRunRepository(db).List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, true)
	}

	if len(runs) == 0 {
		r.writePlain("No sync runs recorded yet\n")
		return nil
	}

	r.writePlainHeader("Sync History")
	for _, run := range runs {
		r.writePlain("#%d  %s  %s (%s)\n", run.Sequence, run.StartedAt.Format("2006-01-02 15:04:05"), run.Trigger, run.Frequency)
		r.writePlain("    created %d, updated %d, deleted %d, skipped %d, no-ops %d, failed %d (%.1fs)\n",
			run.Created, run.Updated, run.Deleted, run.Skipped, run.NoOps, run.Failed, run.Duration().Seconds())
		if run.Error != "" {
			r.writePlain("    error: %s\n", run.Error)
		}
	}

	return nil
}
