package services

import (
	"context"
	"net/http"
	"time"

	"github.com/desertthunder/dialsync/internal/models"
	"golang.org/x/oauth2"
)

// SourceService is the CRM side of the sync: the system of record for newly
// created contacts.
type SourceService interface {
	// Authenticate prepares the service's HTTP client from static credentials.
	// Returns an error if a required credential is missing.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// ContactsCreatedToday retrieves every contact created since the start of
	// the current calendar day (relative to now) in the fixed sync timezone.
	ContactsCreatedToday(ctx context.Context, now time.Time) ([]models.Contact, error)

	// ListContacts retrieves contacts from the plain list endpoint without a
	// time filter. Debugging aid, not part of the sync path.
	ListContacts(ctx context.Context) ([]models.Contact, error)

	// Name returns the name of the platform (e.g. "HubSpot")
	Name() string
}

// DirectoryService is the phone-directory side of the sync: the platform
// that should mirror qualifying contacts.
type DirectoryService interface {
	// Authenticate prepares the service's HTTP client from static credentials.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// SharedEntries retrieves all company-wide directory entries. Personal
	// entries are discarded silently.
	SharedEntries(ctx context.Context) ([]models.DirectoryEntry, error)

	// CreateEntry creates a new shared directory entry.
	CreateEntry(ctx context.Context, req CreateEntryRequest) error

	// UpdateEntryPhones replaces the entry's phone set with exactly phones.
	UpdateEntryPhones(ctx context.Context, entryID string, phones []string) error

	// DeleteEntry removes the entry by identifier.
	DeleteEntry(ctx context.Context, entryID string) error

	// Name returns the name of the platform (e.g. "Dialpad")
	Name() string
}

// CreateEntryRequest is the payload for creating a directory entry.
//
// Emails and Phones each carry at most one value when built by the sync
// engine: the contact's normalized anchors.
type CreateEntryRequest struct {
	CompanyID string   `json:"company_id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Emails    []string `json:"emails"`
	Phones    []string `json:"phones"`
}

// newBearerClient builds an [http.Client] that injects the static API key as
// a bearer token on every request.
func newBearerClient(ctx context.Context, apiKey string) *http.Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
	return oauth2.NewClient(ctx, source)
}
