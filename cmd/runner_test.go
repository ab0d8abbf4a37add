package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/dialsync/internal/models"
	"github.com/desertthunder/dialsync/internal/shared"
	tu "github.com/desertthunder/dialsync/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			source := &tu.MockSourceService{}
			directory := &tu.MockDirectoryService{}

			runner := NewRunner(RunnerOpts{
				Config:    config,
				Logger:    logger,
				Output:    output,
				Source:    source,
				Directory: directory,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.source != source {
				t.Error("expected source to be set")
			}
			if runner.directory != directory {
				t.Error("expected directory to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("authenticate", func(t *testing.T) {
		t.Run("nil services", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			err := runner.authenticate(context.Background())
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("missing credentials", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Source:    &tu.MockSourceService{},
				Directory: &tu.MockDirectoryService{},
			})
			err := runner.authenticate(context.Background())
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("complete credentials", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.HubSpot.APIKey = "hs_key"
			config.Credentials.Dialpad.APIKey = "dp_key"
			config.Credentials.Dialpad.CompanyID = "company-1"

			runner := NewRunner(RunnerOpts{
				Config:    config,
				Source:    &tu.MockSourceService{},
				Directory: &tu.MockDirectoryService{},
			})
			if err := runner.authenticate(context.Background()); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("printContacts", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.printContacts([]models.Contact{
			models.NewContact("Ada", "Lovelace", "ada@example.com", "+614", "new"),
			models.NewContact("", "", "", "", ""),
		})

		result := output.String()
		if !strings.Contains(result, "1. Ada Lovelace • ada@example.com, +614, status: new") {
			t.Errorf("unexpected contact line:\n%s", result)
		}
		if !strings.Contains(result, "2. (no name)") {
			t.Errorf("expected placeholder for empty contact:\n%s", result)
		}
	})

	t.Run("SyncScheduled", func(t *testing.T) {
		t.Run("closed gate skips with sentinel", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Sync.Frequency = "weekly"

			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Config:    config,
				Output:    output,
				Source:    &tu.MockSourceService{},
				Directory: &tu.MockDirectoryService{},
			})
			// A Tuesday in Sydney: the weekly gate only opens on Mondays.
			runner.now = func() time.Time {
				return time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC)
			}

			err := runner.SyncScheduled(context.Background(), nil)
			if !errors.Is(err, shared.ErrScheduleSkipped) {
				t.Fatalf("expected ErrScheduleSkipped, got %v", err)
			}
			if !strings.Contains(output.String(), "Skipping") {
				t.Errorf("expected skip notice, got %q", output.String())
			}
		})

		t.Run("invalid frequency rejected", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Sync.Frequency = "hourly"

			runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})
			err := runner.SyncScheduled(context.Background(), nil)
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("persistRun", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "history.db")

		runner := NewRunner(RunnerOpts{Config: config})

		run := testSyncRun()
		if err := runner.persistRun(run); err != nil {
			t.Fatalf("persistRun() error = %v", err)
		}
		if run.ID == "" || run.Sequence != 1 {
			t.Errorf("expected persisted run to gain id and sequence, got %+v", run)
		}

		tu.AssertFileExists(t, config.Database.Path)
	})
}

func testSyncRun() *models.SyncRun {
	started := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	return &models.SyncRun{
		Trigger:    models.TriggerManual,
		Frequency:  "manual",
		Created:    1,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
	}
}
