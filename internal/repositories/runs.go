package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/dialsync/internal/models"
	"github.com/desertthunder/dialsync/internal/shared"
)

// RunRepository persists sync run summaries.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run record with generated ID and sequence
func (r *RunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.ID = shared.GenerateID()
	run.Sequence = sequence

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (id, sequence, trigger_kind, frequency, source_total, directory_total,
			created_count, updated_count, deleted_count, skipped_count, noop_count, failed_count,
			error, started_at, finished_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID,
		run.Sequence,
		string(run.Trigger),
		run.Frequency,
		run.SourceTotal,
		run.DirectoryTotal,
		run.Created,
		run.Updated,
		run.Deleted,
		run.Skipped,
		run.NoOps,
		run.Failed,
		run.Error,
		run.StartedAt,
		run.FinishedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(id string) (*models.SyncRun, error) {
	query := `
		SELECT id, sequence, trigger_kind, frequency, source_total, directory_total,
			created_count, updated_count, deleted_count, skipped_count, noop_count, failed_count,
			error, started_at, finished_at
		FROM runs
		WHERE id = ?
	`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: run %s", shared.ErrEntryNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List retrieves the most recent runs, newest first. A limit of zero or less
// returns everything.
func (r *RunRepository) List(limit int) ([]*models.SyncRun, error) {
	query := `
		SELECT id, sequence, trigger_kind, frequency, source_total, directory_total,
			created_count, updated_count, deleted_count, skipped_count, noop_count, failed_count,
			error, started_at, finished_at
		FROM runs
		ORDER BY sequence DESC
	`

	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun scans a row into a [models.SyncRun]
func scanRun(row scanner) (*models.SyncRun, error) {
	var (
		run     models.SyncRun
		trigger string
	)

	err := row.Scan(
		&run.ID,
		&run.Sequence,
		&trigger,
		&run.Frequency,
		&run.SourceTotal,
		&run.DirectoryTotal,
		&run.Created,
		&run.Updated,
		&run.Deleted,
		&run.Skipped,
		&run.NoOps,
		&run.Failed,
		&run.Error,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Trigger = models.TriggerKind(trigger)
	return &run, nil
}
