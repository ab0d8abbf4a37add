package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/dialsync/internal/shared"
)

func newTestHubSpot(t *testing.T, baseURL string) *HubSpotService {
	t.Helper()
	svc, err := NewHubSpotService(map[string]string{
		"api_key":  "test_key",
		"base_url": baseURL,
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	if err := svc.Authenticate(context.Background(), map[string]string{"api_key": "test_key"}); err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	return svc
}

func TestHubSpotService(t *testing.T) {
	t.Run("NewHubSpotService", func(t *testing.T) {
		t.Run("missing api key", func(t *testing.T) {
			_, err := NewHubSpotService(map[string]string{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("default base URL", func(t *testing.T) {
			svc, err := NewHubSpotService(map[string]string{"api_key": "k"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.baseURL != hubspotDefaultBaseURL {
				t.Errorf("expected default base URL, got %s", svc.baseURL)
			}
			if svc.Name() != "HubSpot" {
				t.Errorf("expected service name HubSpot, got %s", svc.Name())
			}
		})
	})

	t.Run("requires Authenticate", func(t *testing.T) {
		svc, _ := NewHubSpotService(map[string]string{"api_key": "k"})
		_, err := svc.ContactsCreatedToday(context.Background(), time.Now())
		if err == nil {
			t.Error("expected error before Authenticate")
		}
	})

	t.Run("ContactsCreatedToday", func(t *testing.T) {
		now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
		wantStart, err := shared.StartOfToday(now)
		if err != nil {
			t.Fatalf("failed to compute window start: %v", err)
		}

		var requests []hubspotSearchRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != hubspotSearchPath {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}

			var req hubspotSearchRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode search request: %v", err)
			}
			requests = append(requests, req)

			w.Header().Set("Content-Type", "application/json")
			if req.After == "" {
				json.NewEncoder(w).Encode(hubspotContactsPage{
					Results: []hubspotContact{
						{ID: "1", Properties: hubspotContactProperties{FirstName: "Ada", LastName: "Lovelace", Email: " Ada@Example.COM ", Phone: " +61400000001 ", LeadStatus: "new"}},
						{ID: "2", Properties: hubspotContactProperties{FirstName: "Grace", Email: "grace@example.com"}},
					},
					Paging: &hubspotPaging{Next: &hubspotPagingNext{After: "cursor-2"}},
				})
			} else {
				json.NewEncoder(w).Encode(hubspotContactsPage{
					Results: []hubspotContact{
						{ID: "3", Properties: hubspotContactProperties{FirstName: "Alan", Email: "alan@example.com", LeadStatus: "Unqualified"}},
					},
				})
			}
		}))
		defer server.Close()

		svc := newTestHubSpot(t, server.URL)

		contacts, err := svc.ContactsCreatedToday(context.Background(), now)
		if err != nil {
			t.Fatalf("ContactsCreatedToday() error = %v", err)
		}

		if len(requests) != 2 {
			t.Fatalf("expected 2 page requests, got %d", len(requests))
		}

		first := requests[0]
		if len(first.FilterGroups) != 1 || len(first.FilterGroups[0].Filters) != 1 {
			t.Fatalf("expected a single createdate filter, got %+v", first.FilterGroups)
		}
		filter := first.FilterGroups[0].Filters[0]
		if filter.PropertyName != "createdate" || filter.Operator != "GTE" {
			t.Errorf("unexpected filter %+v", filter)
		}
		if filter.Value != wantStart.Format(time.RFC3339) {
			t.Errorf("expected window start %s, got %s", wantStart.Format(time.RFC3339), filter.Value)
		}
		if requests[1].After != "cursor-2" {
			t.Errorf("expected second request to carry cursor-2, got %q", requests[1].After)
		}

		if len(contacts) != 3 {
			t.Fatalf("expected 3 contacts across pages, got %d", len(contacts))
		}
		if contacts[0].Email != "ada@example.com" {
			t.Errorf("expected normalized email, got %q", contacts[0].Email)
		}
		if contacts[0].Phone != "+61400000001" {
			t.Errorf("expected trimmed phone, got %q", contacts[0].Phone)
		}
		if !contacts[2].Unqualified() {
			t.Error("expected third contact to be unqualified")
		}
	})

	t.Run("ContactsCreatedToday propagates fetch failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		svc := newTestHubSpot(t, server.URL)

		_, err := svc.ContactsCreatedToday(context.Background(), time.Now())
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("ListContacts follows after query parameter", func(t *testing.T) {
		var afters []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != hubspotListPath {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			afters = append(afters, r.URL.Query().Get("after"))

			w.Header().Set("Content-Type", "application/json")
			if len(afters) == 1 {
				json.NewEncoder(w).Encode(hubspotContactsPage{
					Results: []hubspotContact{{ID: "1", Properties: hubspotContactProperties{Email: "a@x.com"}}},
					Paging:  &hubspotPaging{Next: &hubspotPagingNext{After: "p2"}},
				})
			} else {
				json.NewEncoder(w).Encode(hubspotContactsPage{
					Results: []hubspotContact{{ID: "2", Properties: hubspotContactProperties{Email: "b@x.com"}}},
				})
			}
		}))
		defer server.Close()

		svc := newTestHubSpot(t, server.URL)

		contacts, err := svc.ListContacts(context.Background())
		if err != nil {
			t.Fatalf("ListContacts() error = %v", err)
		}

		if len(contacts) != 2 {
			t.Errorf("expected 2 contacts, got %d", len(contacts))
		}
		if len(afters) != 2 || afters[0] != "" || afters[1] != "p2" {
			t.Errorf("unexpected cursor sequence %v", afters)
		}
	})

	t.Run("Service Interface", func(t *testing.T) {
		svc, err := NewHubSpotService(map[string]string{"api_key": "k"})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}
		var _ SourceService = svc
	})
}
