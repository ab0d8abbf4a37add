package tasks

import (
	"fmt"

	"github.com/desertthunder/dialsync/internal/models"
)

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	FetchDirectory
	BuildIndex
	Reconcile
	Complete
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case FetchDirectory:
		return "fetch_directory"
	case BuildIndex:
		return "build_index"
	case Reconcile:
		return "reconcile"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func fetchSourceUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching today's contacts from %s...", name),
	}
}

func sourceFetchedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d contacts created today", count),
	}
}

func fetchDirectoryUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDirectory,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching shared directory from %s...", name),
	}
}

func buildIndexUpdate(entries int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildIndex,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Indexing %d directory entries...", entries),
	}
}

func reconcileUpdate(step, total int, contact models.Contact) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Reconcile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, contact.FullName()),
	}
}

func recordOutcomeUpdate(step, total int, record RecordResult) ProgressUpdate {
	message := fmt.Sprintf("[%d/%d] %s: %s", step, total, record.Contact.FullName(), record.Outcome)
	if record.Reason != "" {
		message = fmt.Sprintf("%s (%s)", message, record.Reason)
	}
	return ProgressUpdate{
		Phase:   Reconcile,
		Step:    step,
		Total:   total,
		Message: message,
		Data:    record,
	}
}

func completeUpdate(result *SyncRunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: Complete,
		Step:  1,
		Total: 1,
		Message: fmt.Sprintf("Done: %d created, %d updated, %d deleted, %d skipped",
			result.Created, result.Updated, result.Deleted, result.Skipped),
		Data: result,
	}
}
