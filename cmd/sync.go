package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/dialsync/internal/formatter"
	"github.com/desertthunder/dialsync/internal/models"
	"github.com/desertthunder/dialsync/internal/repositories"
	"github.com/desertthunder/dialsync/internal/shared"
	"github.com/desertthunder/dialsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SyncRun runs a full CRM → directory sync immediately.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	return r.runSync(ctx, cmd, models.TriggerManual)
}

// SyncScheduled runs a sync only when the configured frequency permits it
// today. The gate is evaluated before any network call.
func (r *Runner) SyncScheduled(ctx context.Context, cmd *cli.Command) error {
	frequency, err := tasks.ParseFrequency(r.config.Sync.Frequency)
	if err != nil {
		return err
	}

	ok, err := tasks.ShouldRun(frequency, r.now())
	if err != nil {
		return err
	}
	if !ok {
		r.logger.Info("schedule gate closed", "frequency", frequency)
		r.writePlain("Skipping: frequency %q does not run today\n", frequency)
		return fmt.Errorf("%w: frequency %q does not run today", shared.ErrScheduleSkipped, frequency)
	}

	return r.runSync(ctx, cmd, models.TriggerScheduled)
}

func (r *Runner) runSync(ctx context.Context, cmd *cli.Command, trigger models.TriggerKind) error {
	if err := r.authenticate(ctx); err != nil {
		return err
	}

	r.logger.Info("starting sync", "trigger", trigger, "frequency", r.config.Sync.Frequency)
	r.writePlain("Starting contact sync...\n\n")

	// Progress channel with a goroutine relaying updates to the terminal
	progressCh := make(chan tasks.ProgressUpdate, 50)
	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchSource, tasks.FetchDirectory:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.BuildIndex:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.Reconcile:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	started := time.Now()
	result, runErr := r.engine.Run(ctx, progressCh)
	close(progressCh)
	<-printerDone
	finished := time.Now()

	run := &models.SyncRun{
		Trigger:    trigger,
		Frequency:  r.config.Sync.Frequency,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if result != nil {
		run.SourceTotal = result.SourceTotal
		run.DirectoryTotal = result.DirectoryTotal
		run.Created = result.Created
		run.Updated = result.Updated
		run.Deleted = result.Deleted
		run.Skipped = result.Skipped
		run.NoOps = result.NoOps
		run.Failed = result.Failed
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	// History is best-effort: a broken database never fails the sync itself.
	if err := r.persistRun(run); err != nil {
		r.logger.Warn("failed to persist run history", "error", err)
	}

	if runErr != nil {
		return runErr
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete!")
	r.writePlain("Contacts: %d, Directory entries: %d\n", result.SourceTotal, result.DirectoryTotal)
	r.writePlain("Created: %d, Updated: %d, Deleted: %d\n", result.Created, result.Updated, result.Deleted)
	r.writePlain("Skipped: %d, No-ops: %d, Failed: %d\n", result.Skipped, result.NoOps, result.Failed)

	if result.Failed > 0 {
		r.writePlain("\nFailed records:\n")
		for _, record := range result.Records {
			if record.Err != nil {
				r.writePlain("  - %s: %v\n", record.Contact.FullName(), record.Err)
			}
		}
	}

	if savePath := cmd.String("save"); savePath != "" {
		report := formatter.NewRunReport(run, result)

		var written string
		var err error
		if strings.HasSuffix(savePath, ".csv") {
			written, err = formatter.WriteCSVReport(report, savePath)
		} else {
			written, err = formatter.WriteJSONReport(report, savePath)
		}
		if err != nil {
			return err
		}
		r.writePlain("\nReport saved to: %s\n", written)
	}

	return nil
}

// persistRun appends the run summary to the history database.
func (r *Runner) persistRun(run *models.SyncRun) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	return repositories.NewRunRepository(db).Create(run)
}
