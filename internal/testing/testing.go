// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/desertthunder/dialsync/internal/models"
	"github.com/desertthunder/dialsync/internal/services"
)

// MockSourceService is a test double for [services.SourceService]
type MockSourceService struct {
	Contacts []models.Contact
	Err      error
}

func (m *MockSourceService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *MockSourceService) ContactsCreatedToday(ctx context.Context, now time.Time) ([]models.Contact, error) {
	return m.Contacts, m.Err
}

func (m *MockSourceService) ListContacts(ctx context.Context) ([]models.Contact, error) {
	return m.Contacts, m.Err
}

func (m *MockSourceService) Name() string { return "mock-crm" }

// MockDirectoryService is a test double for [services.DirectoryService]
type MockDirectoryService struct {
	Entries []models.DirectoryEntry
	Err     error
}

func (m *MockDirectoryService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *MockDirectoryService) SharedEntries(ctx context.Context) ([]models.DirectoryEntry, error) {
	return m.Entries, m.Err
}

func (m *MockDirectoryService) CreateEntry(ctx context.Context, req services.CreateEntryRequest) error {
	return m.Err
}

func (m *MockDirectoryService) UpdateEntryPhones(ctx context.Context, entryID string, phones []string) error {
	return m.Err
}

func (m *MockDirectoryService) DeleteEntry(ctx context.Context, entryID string) error {
	return m.Err
}

func (m *MockDirectoryService) Name() string { return "mock-directory" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
