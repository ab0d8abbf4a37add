package main

import (
	"context"
	"strings"
	"time"

	"github.com/desertthunder/dialsync/internal/models"
	"github.com/urfave/cli/v3"
)

// ContactsToday lists the CRM contacts a sync run would consider.
func (r *Runner) ContactsToday(ctx context.Context, cmd *cli.Command) error {
	if err := r.authenticateSource(ctx); err != nil {
		return err
	}

	contacts, err := r.source.ContactsCreatedToday(ctx, time.Now())
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(contacts, cmd.Bool("pretty"))
	}

	r.writePlain("Contacts created today: %d\n\n", len(contacts))
	r.printContacts(contacts)
	return nil
}

// ContactsList lists CRM contacts without the creation-time filter.
func (r *Runner) ContactsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.authenticateSource(ctx); err != nil {
		return err
	}

	contacts, err := r.source.ListContacts(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(contacts, cmd.Bool("pretty"))
	}

	r.writePlain("Contacts: %d\n\n", len(contacts))
	r.printContacts(contacts)
	return nil
}

func (r *Runner) printContacts(contacts []models.Contact) {
	for i, contact := range contacts {
		line := contact.FullName()
		if line == "" {
			line = "(no name)"
		}

		var details []string
		if contact.Email != "" {
			details = append(details, contact.Email)
		}
		if contact.Phone != "" {
			details = append(details, contact.Phone)
		}
		if contact.LeadStatus != "" {
			details = append(details, "status: "+contact.LeadStatus)
		}
		if len(details) > 0 {
			line += " • " + strings.Join(details, ", ")
		}

		r.writePlain("%d. %s\n", i+1, line)
	}
}

// DirectoryList lists the shared directory entries.
func (r *Runner) DirectoryList(ctx context.Context, cmd *cli.Command) error {
	if err := r.authenticateDirectory(ctx); err != nil {
		return err
	}

	entries, err := r.directory.SharedEntries(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	r.writePlain("Shared entries: %d\n\n", len(entries))
	for i, entry := range entries {
		name := strings.TrimSpace(entry.FirstName + " " + entry.LastName)
		if name == "" {
			name = "(no name)"
		}
		r.writePlain("%d. %s [%s]\n", i+1, name, entry.ID)
		if len(entry.Emails) > 0 {
			r.writePlain("   emails: %s\n", strings.Join(entry.Emails, ", "))
		}
		if len(entry.Phones) > 0 {
			r.writePlain("   phones: %s\n", strings.Join(entry.Phones, ", "))
		}
	}
	return nil
}
