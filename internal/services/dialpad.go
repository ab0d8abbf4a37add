// Dialpad directory implementation of [DirectoryService]
//
// Dialpad API response types based on https://developers.dialpad.com/reference/contacts
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/desertthunder/dialsync/internal/models"
	"github.com/desertthunder/dialsync/internal/shared"
)

const (
	dialpadDefaultBaseURL = "https://dialpad.com/api/v2"
	dialpadContactsPath   = "/contacts"
	dialpadPageSize       = 100

	// sharedContactType marks company-wide entries; every other type is
	// personal and invisible to the sync.
	sharedContactType = "shared"
)

// dialpadContact represents a directory contact record.
type dialpadContact struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Type      string   `json:"type"`
	Emails    []string `json:"emails"`
	Phones    []string `json:"phones"`
}

// dialpadContactsPage is one page of the contact list endpoint.
type dialpadContactsPage struct {
	Items  []dialpadContact `json:"items"`
	Cursor string           `json:"cursor"`
}

// dialpadUpdateRequest is the PATCH body for partial field replacement.
type dialpadUpdateRequest struct {
	Phones []string `json:"phones"`
}

// toDirectoryEntry converts a directory record to the normalized DTO.
func (c dialpadContact) toDirectoryEntry() models.DirectoryEntry {
	entry := models.DirectoryEntry{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
	for _, email := range c.Emails {
		entry.Emails = append(entry.Emails, models.NormalizeEmail(email))
	}
	for _, phone := range c.Phones {
		entry.Phones = append(entry.Phones, models.NormalizePhone(phone))
	}
	return entry
}

// DialpadService implements [DirectoryService] against the Dialpad API.
type DialpadService struct {
	baseURL    string
	httpClient *http.Client
	pageSize   int
}

// NewDialpadService creates a new Dialpad service. The base_url credential is
// optional and exists for tests.
func NewDialpadService(credentials map[string]string) (*DialpadService, error) {
	if credentials["api_key"] == "" {
		return nil, fmt.Errorf("%w: missing api_key", shared.ErrMissingCredentials)
	}

	baseURL := credentials["base_url"]
	if baseURL == "" {
		baseURL = dialpadDefaultBaseURL
	}

	return &DialpadService{
		baseURL:  baseURL,
		pageSize: dialpadPageSize,
	}, nil
}

// Authenticate builds the bearer-token HTTP client from the api_key credential.
func (d *DialpadService) Authenticate(ctx context.Context, credentials map[string]string) error {
	apiKey := credentials["api_key"]
	if apiKey == "" {
		return fmt.Errorf("%w: missing api_key", shared.ErrMissingCredentials)
	}
	d.httpClient = newBearerClient(ctx, apiKey)
	return nil
}

func (d *DialpadService) Name() string {
	return "Dialpad"
}

// doRequest performs an authenticated HTTP request against the directory API.
func (d *DialpadService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if d.httpClient == nil {
		return fmt.Errorf("not authenticated: call Authenticate first")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Delete returns 200 or 204 depending on backend version; both land
	// inside the 2xx window.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: dialpad status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SharedEntries retrieves all shared directory entries, following the cursor
// until the backend stops returning one. Personal entries are filtered out
// page by page, silently.
func (d *DialpadService) SharedEntries(ctx context.Context) ([]models.DirectoryEntry, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", d.pageSize))

	var entries []models.DirectoryEntry
	for {
		endpoint := dialpadContactsPath + "?" + params.Encode()

		var page dialpadContactsPage
		if err := d.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, fmt.Errorf("directory list failed: %w", err)
		}

		for _, record := range page.Items {
			if record.Type != sharedContactType {
				continue
			}
			entries = append(entries, record.toDirectoryEntry())
		}

		if page.Cursor == "" {
			break
		}
		params.Set("cursor", page.Cursor)
	}

	return entries, nil
}

// CreateEntry creates a new shared directory entry.
func (d *DialpadService) CreateEntry(ctx context.Context, req CreateEntryRequest) error {
	if err := d.doRequest(ctx, http.MethodPost, dialpadContactsPath, req, nil); err != nil {
		return fmt.Errorf("create entry failed: %w", err)
	}
	return nil
}

// UpdateEntryPhones replaces the entry's phone set with exactly phones.
func (d *DialpadService) UpdateEntryPhones(ctx context.Context, entryID string, phones []string) error {
	endpoint := fmt.Sprintf("%s/%s", dialpadContactsPath, entryID)
	if err := d.doRequest(ctx, http.MethodPatch, endpoint, dialpadUpdateRequest{Phones: phones}, nil); err != nil {
		return fmt.Errorf("update entry %s failed: %w", entryID, err)
	}
	return nil
}

// DeleteEntry removes the entry by identifier.
func (d *DialpadService) DeleteEntry(ctx context.Context, entryID string) error {
	endpoint := fmt.Sprintf("%s/%s", dialpadContactsPath, entryID)
	if err := d.doRequest(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("delete entry %s failed: %w", entryID, err)
	}
	return nil
}
