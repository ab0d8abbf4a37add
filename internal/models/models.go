package models

import (
	"fmt"
	"strings"
	"time"
)

// UnqualifiedStatus is the lead status value that marks a contact for
// exclusion (and optional removal) from the directory. Compared
// case-insensitively.
const UnqualifiedStatus = "unqualified"

// Contact represents a CRM contact for the duration of one sync run.
//
// Email and Phone are stored normalized; either (or both) may be empty.
type Contact struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`       // lowercased, trimmed
	Phone      string `json:"phone"`       // trimmed
	LeadStatus string `json:"lead_status"` // free-text status label from the CRM
}

// NewContact builds a Contact with normalized anchors.
func NewContact(firstName, lastName, email, phone, leadStatus string) Contact {
	return Contact{
		FirstName:  firstName,
		LastName:   lastName,
		Email:      NormalizeEmail(email),
		Phone:      NormalizePhone(phone),
		LeadStatus: leadStatus,
	}
}

// FullName returns the contact's display name.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasAnchor reports whether the contact has at least one anchor value.
// A contact with neither email nor phone cannot be represented in the
// directory and is always skipped.
func (c Contact) HasAnchor() bool {
	return c.Email != "" || c.Phone != ""
}

// Unqualified reports whether the contact's lead status equals the
// unqualified sentinel, ignoring case.
func (c Contact) Unqualified() bool {
	return strings.EqualFold(strings.TrimSpace(c.LeadStatus), UnqualifiedStatus)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone trims a phone number. Digits and formatting are kept as-is;
// the directory stores numbers in E.164 already.
func NormalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}

// DirectoryEntry represents a shared directory entry.
//
// An entry with an empty ID cannot be mutated.
type DirectoryEntry struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Emails    []string `json:"emails"` // lowercased
	Phones    []string `json:"phones"`
}

// HasPhone reports whether phone is already one of the entry's numbers.
func (e DirectoryEntry) HasPhone(phone string) bool {
	for _, p := range e.Phones {
		if p == phone {
			return true
		}
	}
	return false
}

// Mutable reports whether the entry carries the identifier required for
// update and delete calls.
func (e DirectoryEntry) Mutable() bool {
	return e.ID != ""
}

// TriggerKind identifies how a sync run was started.
type TriggerKind string

const (
	TriggerManual    TriggerKind = "manual"    // operator-initiated run
	TriggerScheduled TriggerKind = "scheduled" // schedule gate permitted the run
)

// SyncRun is the persisted summary of one reconciliation run.
type SyncRun struct {
	ID             string      `json:"id"`
	Sequence       int         `json:"sequence"`
	Trigger        TriggerKind `json:"trigger"`
	Frequency      string      `json:"frequency"`
	SourceTotal    int         `json:"source_total"`
	DirectoryTotal int         `json:"directory_total"`
	Created        int         `json:"created"`
	Updated        int         `json:"updated"`
	Deleted        int         `json:"deleted"`
	Skipped        int         `json:"skipped"`
	NoOps          int         `json:"no_ops"`
	Failed         int         `json:"failed"`
	Error          string      `json:"error,omitempty"` // fatal error text, empty on success
	StartedAt      time.Time   `json:"started_at"`
	FinishedAt     time.Time   `json:"finished_at"`
}

// Validate checks the run record before persistence.
func (r *SyncRun) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("sync run requires an id")
	}
	if r.Trigger != TriggerManual && r.Trigger != TriggerScheduled {
		return fmt.Errorf("invalid trigger kind: %s", r.Trigger)
	}
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return fmt.Errorf("sync run requires start and finish timestamps")
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return fmt.Errorf("sync run finished before it started")
	}
	return nil
}

// Duration returns the wall-clock duration of the run.
func (r *SyncRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
