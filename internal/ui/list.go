package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/dialsync/internal/models"
)

var (
	_ list.Item = contactItem{}
)

// contactItem wraps [models.Contact] to implement [list.Item].
type contactItem struct {
	contact models.Contact
}

func (i contactItem) FilterValue() string { return i.contact.FullName() }
func (i contactItem) Title() string {
	name := i.contact.FullName()
	if name == "" {
		name = "(no name)"
	}
	if i.contact.Unqualified() {
		name += " [unqualified]"
	}
	return name
}

func (i contactItem) Description() string {
	var parts []string
	if i.contact.Email != "" {
		parts = append(parts, i.contact.Email)
	}
	if i.contact.Phone != "" {
		parts = append(parts, i.contact.Phone)
	}
	if len(parts) == 0 {
		return "no email or phone"
	}
	return strings.Join(parts, " • ")
}
