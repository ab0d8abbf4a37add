package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/dialsync/internal/models"
	"github.com/desertthunder/dialsync/internal/shared"
)

func setupTestDB(t *testing.T) *RunRepository {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return NewRunRepository(db)
}

func testRun(trigger models.TriggerKind) *models.SyncRun {
	started := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	return &models.SyncRun{
		Trigger:        trigger,
		Frequency:      "daily",
		SourceTotal:    12,
		DirectoryTotal: 40,
		Created:        5,
		Updated:        2,
		Deleted:        1,
		Skipped:        3,
		NoOps:          1,
		Failed:         0,
		StartedAt:      started,
		FinishedAt:     started.Add(3 * time.Second),
	}
}

func TestRunRepository(t *testing.T) {
	t.Run("Create assigns id and sequence", func(t *testing.T) {
		repo := setupTestDB(t)

		run := testRun(models.TriggerManual)
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if run.ID == "" {
			t.Error("expected generated ID")
		}
		if run.Sequence != 1 {
			t.Errorf("expected sequence 1, got %d", run.Sequence)
		}

		second := testRun(models.TriggerScheduled)
		if err := repo.Create(second); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if second.Sequence != 2 {
			t.Errorf("expected sequence 2, got %d", second.Sequence)
		}
	})

	t.Run("Create rejects invalid run", func(t *testing.T) {
		repo := setupTestDB(t)

		run := testRun("cron")
		if err := repo.Create(run); err == nil {
			t.Error("expected validation error for unknown trigger kind")
		}
	})

	t.Run("Get round-trips all fields", func(t *testing.T) {
		repo := setupTestDB(t)

		run := testRun(models.TriggerManual)
		run.Error = "directory fetch failed"
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := repo.Get(run.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		if got.Trigger != models.TriggerManual {
			t.Errorf("expected manual trigger, got %s", got.Trigger)
		}
		if got.Frequency != "daily" {
			t.Errorf("expected frequency daily, got %s", got.Frequency)
		}
		if got.Created != 5 || got.Updated != 2 || got.Deleted != 1 {
			t.Errorf("unexpected counts %+v", got)
		}
		if got.Skipped != 3 || got.NoOps != 1 || got.Failed != 0 {
			t.Errorf("unexpected counts %+v", got)
		}
		if got.Error != "directory fetch failed" {
			t.Errorf("unexpected error text %q", got.Error)
		}
		if !got.StartedAt.Equal(run.StartedAt) || !got.FinishedAt.Equal(run.FinishedAt) {
			t.Errorf("timestamps did not round-trip: %s / %s", got.StartedAt, got.FinishedAt)
		}
	})

	t.Run("Get missing run", func(t *testing.T) {
		repo := setupTestDB(t)

		_, err := repo.Get("no-such-id")
		if !errors.Is(err, shared.ErrEntryNotFound) {
			t.Errorf("expected ErrEntryNotFound, got %v", err)
		}
	})

	t.Run("List returns newest first", func(t *testing.T) {
		repo := setupTestDB(t)

		for i := 0; i < 3; i++ {
			if err := repo.Create(testRun(models.TriggerScheduled)); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}

		runs, err := repo.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		if runs[0].Sequence != 3 || runs[2].Sequence != 1 {
			t.Errorf("expected newest first, got sequences %d, %d, %d",
				runs[0].Sequence, runs[1].Sequence, runs[2].Sequence)
		}
	})

	t.Run("List honors limit", func(t *testing.T) {
		repo := setupTestDB(t)

		for i := 0; i < 5; i++ {
			if err := repo.Create(testRun(models.TriggerManual)); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}

		runs, err := repo.List(2)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].Sequence != 5 {
			t.Errorf("expected latest run first, got sequence %d", runs[0].Sequence)
		}
	})
}
