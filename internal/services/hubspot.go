// HubSpot CRM implementation of [SourceService]
//
// HubSpot API response types based on https://developers.hubspot.com/docs/api/crm/contacts
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/dialsync/internal/models"
	"github.com/desertthunder/dialsync/internal/shared"
)

const (
	hubspotDefaultBaseURL = "https://api.hubapi.com"
	hubspotSearchPath     = "/crm/v3/objects/contacts/search"
	hubspotListPath       = "/crm/v3/objects/contacts"
	hubspotPageLimit      = 100
)

// contactProperties holds the contact fields requested from the CRM.
var contactProperties = []string{"firstname", "lastname", "email", "phone", "hs_lead_status"}

// hubspotFilter represents a single property filter in a search request.
type hubspotFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type hubspotFilterGroup struct {
	Filters []hubspotFilter `json:"filters"`
}

// hubspotSearchRequest is the POST body for the contact search endpoint.
type hubspotSearchRequest struct {
	FilterGroups []hubspotFilterGroup `json:"filterGroups"`
	Properties   []string             `json:"properties"`
	Limit        int                  `json:"limit"`
	After        string               `json:"after,omitempty"`
}

type hubspotPagingNext struct {
	After string `json:"after"`
}

type hubspotPaging struct {
	Next *hubspotPagingNext `json:"next"`
}

// hubspotContactProperties mirrors the properties object on a contact record.
type hubspotContactProperties struct {
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	LeadStatus string `json:"hs_lead_status"`
}

// hubspotContact represents a CRM contact record.
type hubspotContact struct {
	ID         string                   `json:"id"`
	Properties hubspotContactProperties `json:"properties"`
}

// hubspotContactsPage is the shared page shape of the search and list endpoints.
type hubspotContactsPage struct {
	Results []hubspotContact `json:"results"`
	Paging  *hubspotPaging   `json:"paging"`
}

// toContact converts a CRM record to the normalized DTO.
func (c hubspotContact) toContact() models.Contact {
	p := c.Properties
	return models.NewContact(p.FirstName, p.LastName, p.Email, p.Phone, p.LeadStatus)
}

// HubSpotService implements [SourceService] against the HubSpot CRM API.
type HubSpotService struct {
	baseURL    string
	httpClient *http.Client
	pageLimit  int
}

// NewHubSpotService creates a new HubSpot service. The base_url credential is
// optional and exists for tests.
func NewHubSpotService(credentials map[string]string) (*HubSpotService, error) {
	if credentials["api_key"] == "" {
		return nil, fmt.Errorf("%w: missing api_key", shared.ErrMissingCredentials)
	}

	baseURL := credentials["base_url"]
	if baseURL == "" {
		baseURL = hubspotDefaultBaseURL
	}

	return &HubSpotService{
		baseURL:   baseURL,
		pageLimit: hubspotPageLimit,
	}, nil
}

// Authenticate builds the bearer-token HTTP client from the api_key credential.
func (h *HubSpotService) Authenticate(ctx context.Context, credentials map[string]string) error {
	apiKey := credentials["api_key"]
	if apiKey == "" {
		return fmt.Errorf("%w: missing api_key", shared.ErrMissingCredentials)
	}
	h.httpClient = newBearerClient(ctx, apiKey)
	return nil
}

func (h *HubSpotService) Name() string {
	return "HubSpot"
}

// doRequest performs an authenticated HTTP request against the CRM API.
func (h *HubSpotService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if h.httpClient == nil {
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

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: hubspot status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// ContactsCreatedToday retrieves all contacts with a creation timestamp at or
// after the start of the current calendar day in the fixed sync timezone.
//
// Follows the `paging.next.after` cursor until the backend stops returning
// one. Result order is whatever the backend returns.
func (h *HubSpotService) ContactsCreatedToday(ctx context.Context, now time.Time) ([]models.Contact, error) {
	windowStart, err := shared.StartOfToday(now)
	if err != nil {
		return nil, err
	}

	request := hubspotSearchRequest{
		FilterGroups: []hubspotFilterGroup{{
			Filters: []hubspotFilter{{
				PropertyName: "createdate",
				Operator:     "GTE",
				Value:        windowStart.Format(time.RFC3339),
			}},
		}},
		Properties: contactProperties,
		Limit:      h.pageLimit,
	}

	var contacts []models.Contact
	for {
		var page hubspotContactsPage
		if err := h.doRequest(ctx, http.MethodPost, hubspotSearchPath, request, &page); err != nil {
			return nil, fmt.Errorf("contact search failed: %w", err)
		}

		for _, record := range page.Results {
			contacts = append(contacts, record.toContact())
		}

		if page.Paging == nil || page.Paging.Next == nil || page.Paging.Next.After == "" {
			break
		}
		request.After = page.Paging.Next.After
	}

	return contacts, nil
}

// ListContacts retrieves contacts from the plain list endpoint, unfiltered.
func (h *HubSpotService) ListContacts(ctx context.Context) ([]models.Contact, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", h.pageLimit))
	for _, prop := range contactProperties {
		params.Add("properties", prop)
	}

	var contacts []models.Contact
	for {
		endpoint := hubspotListPath + "?" + params.Encode()

		var page hubspotContactsPage
		if err := h.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, fmt.Errorf("contact list failed: %w", err)
		}

		for _, record := range page.Results {
			contacts = append(contacts, record.toContact())
		}

		if page.Paging == nil || page.Paging.Next == nil || page.Paging.Next.After == "" {
			break
		}
		params.Set("after", page.Paging.Next.After)
	}

	return contacts, nil
}
