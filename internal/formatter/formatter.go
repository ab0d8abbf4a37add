// package formatter renders sync run reports to various formats (CSV, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/dialsync/internal/models"
	"github.com/desertthunder/dialsync/internal/shared"
	"github.com/desertthunder/dialsync/internal/tasks"
)

// RecordReport is one contact's decision in a serializable shape.
type RecordReport struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	LeadStatus string `json:"lead_status,omitempty"`
	Outcome    string `json:"outcome"`
	Reason     string `json:"reason,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RunReport is the full serializable report of one sync run.
type RunReport struct {
	Trigger        string         `json:"trigger"`
	Frequency      string         `json:"frequency"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	SourceTotal    int            `json:"source_total"`
	DirectoryTotal int            `json:"directory_total"`
	Created        int            `json:"created"`
	Updated        int            `json:"updated"`
	Deleted        int            `json:"deleted"`
	Skipped        int            `json:"skipped"`
	NoOps          int            `json:"no_ops"`
	Failed         int            `json:"failed"`
	Records        []RecordReport `json:"records"`
}

// NewRunReport flattens a run summary and its per-contact results into a report.
func NewRunReport(run *models.SyncRun, result *tasks.SyncRunResult) *RunReport {
	report := &RunReport{
		Trigger:        string(run.Trigger),
		Frequency:      run.Frequency,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		SourceTotal:    result.SourceTotal,
		DirectoryTotal: result.DirectoryTotal,
		Created:        result.Created,
		Updated:        result.Updated,
		Deleted:        result.Deleted,
		Skipped:        result.Skipped,
		NoOps:          result.NoOps,
		Failed:         result.Failed,
	}

	for _, record := range result.Records {
		entry := RecordReport{
			Name:       record.Contact.FullName(),
			Email:      record.Contact.Email,
			Phone:      record.Contact.Phone,
			LeadStatus: record.Contact.LeadStatus,
			Outcome:    record.Outcome.String(),
			Reason:     record.Reason,
		}
		if record.Err != nil {
			entry.Error = record.Err.Error()
		}
		report.Records = append(report.Records, entry)
	}

	return report
}

// ReportToCSV converts a report to CSV with columns: Name, Email, Phone, Lead Status, Outcome, Reason, Error
func ReportToCSV(report *RunReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Name", "Email", "Phone", "Lead Status", "Outcome", "Reason", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range report.Records {
		row := []string{
			record.Name,
			record.Email,
			record.Phone,
			record.LeadStatus,
			record.Outcome,
			record.Reason,
			record.Error,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToJSON converts a report to pretty-printed JSON
func ReportToJSON(report *RunReport) ([]byte, error) {
	return shared.MarshalJSON(report, true)
}

// ReportToText converts a report to a plain text summary
func ReportToText(report *RunReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Sync run (%s, %s)\n", report.Trigger, report.Frequency))
	buf.WriteString(fmt.Sprintf("Started: %s\n", report.StartedAt.Format(time.RFC3339)))
	buf.WriteString(fmt.Sprintf("Finished: %s\n", report.FinishedAt.Format(time.RFC3339)))
	buf.WriteString(fmt.Sprintf("Contacts: %d, Directory entries: %d\n\n", report.SourceTotal, report.DirectoryTotal))
	buf.WriteString(fmt.Sprintf("Created: %d, Updated: %d, Deleted: %d\n", report.Created, report.Updated, report.Deleted))
	buf.WriteString(fmt.Sprintf("Skipped: %d, No-ops: %d, Failed: %d\n\n", report.Skipped, report.NoOps, report.Failed))

	for i, record := range report.Records {
		line := fmt.Sprintf("%d. %s: %s", i+1, record.Name, record.Outcome)
		if record.Reason != "" {
			line += fmt.Sprintf(" (%s)", record.Reason)
		}
		if record.Error != "" {
			line += fmt.Sprintf(" [%s]", record.Error)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// defaultBaseName derives a report filename stem from the run's start time.
func defaultBaseName(report *RunReport) string {
	return "sync_" + report.StartedAt.Format("20060102_150405")
}

// WriteJSONReport writes the report as JSON.
//
// Defaults to sync_{timestamp}.json when filepath is empty. Returns the path written.
func WriteJSONReport(report *RunReport, filepath string) (string, error) {
	if filepath == "" {
		filepath = defaultBaseName(report) + ".json"
	}

	data, err := ReportToJSON(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}

// WriteCSVReport writes the per-contact records as CSV.
//
// Defaults to sync_{timestamp}.csv when filepath is empty. Returns the path written.
func WriteCSVReport(report *RunReport, filepath string) (string, error) {
	if filepath == "" {
		filepath = defaultBaseName(report) + ".csv"
	}

	data, err := ReportToCSV(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}
