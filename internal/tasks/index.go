package tasks

import (
	"github.com/desertthunder/dialsync/internal/models"
)

// DirectoryIndex provides O(1) lookup of shared directory entries by
// normalized email or phone.
//
// The index is a snapshot: it is built once from the directory listing at the
// start of a run and never refreshed while the run is in flight. Entries the
// run itself creates are invisible to later lookups in the same run.
type DirectoryIndex struct {
	byEmail map[string]*models.DirectoryEntry
	byPhone map[string]*models.DirectoryEntry
}

// BuildDirectoryIndex indexes every email and phone of every entry. When two
// entries share a value the later entry wins.
func BuildDirectoryIndex(entries []models.DirectoryEntry) *DirectoryIndex {
	index := &DirectoryIndex{
		byEmail: make(map[string]*models.DirectoryEntry),
		byPhone: make(map[string]*models.DirectoryEntry),
	}

	for i := range entries {
		entry := &entries[i]
		for _, email := range entry.Emails {
			if email == "" {
				continue
			}
			index.byEmail[models.NormalizeEmail(email)] = entry
		}
		for _, phone := range entry.Phones {
			if phone == "" {
				continue
			}
			index.byPhone[models.NormalizePhone(phone)] = entry
		}
	}

	return index
}

// ByEmail returns the entry holding email, or nil.
func (i *DirectoryIndex) ByEmail(email string) *models.DirectoryEntry {
	if email == "" {
		return nil
	}
	return i.byEmail[models.NormalizeEmail(email)]
}

// ByPhone returns the entry holding phone, or nil.
func (i *DirectoryIndex) ByPhone(phone string) *models.DirectoryEntry {
	if phone == "" {
		return nil
	}
	return i.byPhone[models.NormalizePhone(phone)]
}

// Size returns the number of distinct indexed emails and phones.
func (i *DirectoryIndex) Size() (emails, phones int) {
	return len(i.byEmail), len(i.byPhone)
}
