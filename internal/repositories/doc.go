// Package repositories implements SQLite persistence for run history.
//
// Runs are append-only: a [models.SyncRun] is written once after a sync
// finishes and never updated. Sequence numbers provide stable, human-readable
// ordering (run #42) independent of UUIDs and timestamps; the [NextSequence]
// function atomically increments a per-table counter in a dedicated
// sequence table.
package repositories
