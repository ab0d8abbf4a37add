package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/dialsync/internal/models"
	"github.com/desertthunder/dialsync/internal/services"
	"github.com/desertthunder/dialsync/internal/shared"
	"golang.org/x/time/rate"
)

// Outcome classifies what the engine did with a single contact.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeDeleted Outcome = "deleted"
	OutcomeSkipped Outcome = "skipped"
	OutcomeNoOp    Outcome = "no-op"
	OutcomeFailed  Outcome = "failed"
)

func (o Outcome) String() string { return string(o) }

// RecordResult is the decision and result for one contact.
type RecordResult struct {
	Contact models.Contact // The contact the decision applies to
	Outcome Outcome        // What happened
	Reason  string         // Why, for skips and no-ops
	Err     error          // Error if the mutation failed
}

// SyncRunResult contains all data from a full sync run.
type SyncRunResult struct {
	SourceTotal    int            // Contacts fetched from the CRM
	DirectoryTotal int            // Shared entries fetched from the directory
	Records        []RecordResult // Per-contact decisions in source order
	Created        int
	Updated        int
	Deleted        int
	Skipped        int
	NoOps          int
	Failed         int
}

// tally folds a record into the run counters.
func (r *SyncRunResult) tally(record RecordResult) {
	r.Records = append(r.Records, record)
	switch record.Outcome {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeDeleted:
		r.Deleted++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeNoOp:
		r.NoOps++
	case OutcomeFailed:
		r.Failed++
	}
}

// SyncEngine defines operations for reconciling CRM contacts against the
// shared phone directory.
type SyncEngine interface {
	// Run performs a full CRM → directory sync by fetching today's contacts,
	// listing the shared directory, and reconciling each contact in order.
	Run(ctx context.Context, progress chan<- ProgressUpdate) (*SyncRunResult, error)
}

// EngineOpts carries the per-run policy knobs.
type EngineOpts struct {
	// CompanyID is stamped onto every created directory entry.
	CompanyID string

	// DeleteUnqualified enables removal of directory entries whose CRM
	// contact carries the unqualified lead status. Off by default.
	DeleteUnqualified bool

	// RateLimit caps directory mutations per second. Zero or negative
	// disables the cap.
	RateLimit float64

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// ContactEngine implements SyncEngine against a CRM source and a directory.
type ContactEngine struct {
	source    services.SourceService
	directory services.DirectoryService
	limiter   *rate.Limiter
	opts      EngineOpts
	now       func() time.Time
}

// NewContactEngine creates a new ContactEngine with the provided services.
func NewContactEngine(source services.SourceService, directory services.DirectoryService, opts EngineOpts) *ContactEngine {
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &ContactEngine{
		source:    source,
		directory: directory,
		limiter:   rate.NewLimiter(limit, 1),
		opts:      opts,
		now:       now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ContactEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run performs a full CRM → directory sync.
//
// Fetch failures on either platform abort the run before any mutation.
// Mutation failures are recorded per contact and do not stop the run.
func (e *ContactEngine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*SyncRunResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: source service not initialized", shared.ErrServiceUnavailable)
	}
	if e.directory == nil {
		return nil, fmt.Errorf("%w: directory service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchSourceUpdate(e.source.Name()))

	contacts, err := e.source.ContactsCreatedToday(ctx, e.now())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch contacts: %v", shared.ErrAPIRequest, err)
	}
	e.sendProgress(progress, sourceFetchedUpdate(len(contacts)))

	e.sendProgress(progress, fetchDirectoryUpdate(e.directory.Name()))

	entries, err := e.directory.SharedEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch directory: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, buildIndexUpdate(len(entries)))
	index := BuildDirectoryIndex(entries)

	result := &SyncRunResult{
		SourceTotal:    len(contacts),
		DirectoryTotal: len(entries),
	}

	total := len(contacts)
	for i, contact := range contacts {
		e.sendProgress(progress, reconcileUpdate(i+1, total, contact))

		record, err := e.reconcile(ctx, contact, index)
		if err != nil {
			return result, err
		}

		result.tally(record)
		e.sendProgress(progress, recordOutcomeUpdate(i+1, total, record))
	}

	e.sendProgress(progress, completeUpdate(result))
	return result, nil
}

// reconcile walks one contact through the decision order. The returned error
// is fatal (context cancellation); per-contact mutation failures land in the
// record instead.
//
// The order is fixed:
//
//  1. Unqualified removal, when enabled. Terminal whenever the contact has
//     an email, whether or not the directory holds it. Without an email the
//     check cannot match and the contact falls through to the normal path.
//  2. Anchor check: a contact with neither email nor phone is skipped.
//  3. Existence by email: present means top up the phone (replacing the
//     entry's phone set), absent means create.
func (e *ContactEngine) reconcile(ctx context.Context, contact models.Contact, index *DirectoryIndex) (RecordResult, error) {
	record := RecordResult{Contact: contact}

	if e.opts.DeleteUnqualified && contact.Unqualified() && contact.Email != "" {
		entry := index.ByEmail(contact.Email)
		if entry == nil {
			record.Outcome = OutcomeNoOp
			record.Reason = "unqualified contact not in directory"
			return record, nil
		}
		if !entry.Mutable() {
			record.Outcome = OutcomeFailed
			record.Err = fmt.Errorf("%w: cannot delete entry for %s", shared.ErrEntryImmutable, contact.Email)
			return record, nil
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return record, err
		}
		if err := e.directory.DeleteEntry(ctx, entry.ID); err != nil {
			record.Outcome = OutcomeFailed
			record.Err = err
			return record, nil
		}
		record.Outcome = OutcomeDeleted
		return record, nil
	}

	if !contact.HasAnchor() {
		record.Outcome = OutcomeSkipped
		record.Reason = "no email or phone"
		return record, nil
	}

	if entry := index.ByEmail(contact.Email); entry != nil {
		if contact.Phone == "" {
			record.Outcome = OutcomeNoOp
			record.Reason = "already in directory, no phone to add"
			return record, nil
		}
		if entry.HasPhone(contact.Phone) {
			record.Outcome = OutcomeNoOp
			record.Reason = "already in directory with this phone"
			return record, nil
		}
		if !entry.Mutable() {
			record.Outcome = OutcomeFailed
			record.Err = fmt.Errorf("%w: cannot update entry for %s", shared.ErrEntryImmutable, contact.Email)
			return record, nil
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return record, err
		}
		if err := e.directory.UpdateEntryPhones(ctx, entry.ID, []string{contact.Phone}); err != nil {
			record.Outcome = OutcomeFailed
			record.Err = err
			return record, nil
		}
		record.Outcome = OutcomeUpdated
		return record, nil
	}

	req := services.CreateEntryRequest{
		CompanyID: e.opts.CompanyID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
	}
	if contact.Email != "" {
		req.Emails = []string{contact.Email}
	}
	if contact.Phone != "" {
		req.Phones = []string{contact.Phone}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return record, err
	}
	if err := e.directory.CreateEntry(ctx, req); err != nil {
		record.Outcome = OutcomeFailed
		record.Err = err
		return record, nil
	}
	record.Outcome = OutcomeCreated
	return record, nil
}
