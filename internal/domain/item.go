package domain

import (
	"time"

	"github.com/google/uuid"
)

// NewDocumentID allocates a fresh document id.
func NewDocumentID() string { return "ata-" + uuid.New().String() }

// NewItemID allocates a fresh item id.
func NewItemID() string { return "item-" + uuid.New().String() }

// NewHistoryID allocates a fresh history entry id.
func NewHistoryID() string { return "hist-" + uuid.New().String() }

// Owner is the name+email pair responsible for an item. Both fields are
// optional but travel as a unit.
type Owner struct {
	Name  string
	Email string
}

// HistoryEntry is one timestamped snapshot of an item's content.
// RecordedAt may be corrected after the fact without moving the entry.
type HistoryEntry struct {
	ID          string
	RecordedAt  time.Time
	Description string
	Owner       Owner
	DueDate     *time.Time
	Status      ItemStatus
}

// isPlaceholder reports whether the entry is the empty snapshot created at
// item-creation time: no description and no owner.
func (e HistoryEntry) isPlaceholder() bool {
	return e.Description == "" && e.Owner.Name == "" && e.Owner.Email == ""
}

// Item is one agenda topic in the document's forest. Relations are kept as
// id references rather than pointers so the flat collection serializes
// cleanly; ChildIDs must mirror the ParentID back-references at all times.
//
// LatestEntry is a denormalized copy of the last history element. All
// history mutation goes through the methods below so the two can never
// drift apart.
type Item struct {
	ID          string
	Number      string
	Level       int
	ParentID    *string
	ChildIDs    []string
	CreatedAt   time.Time
	History     []HistoryEntry
	LatestEntry HistoryEntry
}

// NewItem creates an item with a single empty placeholder history entry.
func NewItem(number string, level int, parentID *string, now time.Time) *Item {
	placeholder := HistoryEntry{
		ID:         NewHistoryID(),
		RecordedAt: now,
		Owner:      Owner{},
		Status:     StatusPending,
	}
	return &Item{
		ID:          NewItemID(),
		Number:      number,
		Level:       level,
		ParentID:    parentID,
		ChildIDs:    []string{},
		CreatedAt:   now,
		History:     []HistoryEntry{placeholder},
		LatestEntry: placeholder,
	}
}

// IsParent reports whether the item has children. Parent items only carry a
// meaningful description; status, owner, and due date belong to leaves.
func (it *Item) IsParent() bool { return len(it.ChildIDs) > 0 }

// Deletable reports whether the UI may hard-delete this item: only while
// its history holds at most one entry. Cascading subtree deletion is a
// separate, explicitly confirmed operation and ignores this guard.
func (it *Item) Deletable() bool { return len(it.History) <= 1 }

// RecordUpdate appends a new history entry and returns it. When the log
// holds exactly one entry and that entry is the creation placeholder, the
// placeholder is replaced instead, keeping the log at length one.
func (it *Item) RecordUpdate(description string, owner Owner, dueDate *time.Time, status ItemStatus, now time.Time) HistoryEntry {
	entry := HistoryEntry{
		ID:          NewHistoryID(),
		RecordedAt:  now,
		Description: description,
		Owner:       owner,
		DueDate:     dueDate,
		Status:      status,
	}
	if len(it.History) == 1 && it.History[0].isPlaceholder() {
		it.History = []HistoryEntry{entry}
	} else {
		it.History = append(it.History, entry)
	}
	it.LatestEntry = entry
	return entry
}

// RemoveEntry removes the history entry with the given id. Removal is
// rejected while the log holds a single entry; the last snapshot always
// survives. Returns false when nothing changed.
func (it *Item) RemoveEntry(entryID string) bool {
	if len(it.History) <= 1 {
		return false
	}
	kept := make([]HistoryEntry, 0, len(it.History)-1)
	removed := false
	for _, e := range it.History {
		if e.ID == entryID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed || len(kept) == 0 {
		return false
	}
	it.History = kept
	it.LatestEntry = kept[len(kept)-1]
	return true
}

// RetimeEntry corrects the RecordedAt timestamp of the entry with the given
// id without changing its position in the log. Returns false when the id
// is unknown.
func (it *Item) RetimeEntry(entryID string, recordedAt time.Time) bool {
	found := false
	for i := range it.History {
		if it.History[i].ID == entryID {
			it.History[i].RecordedAt = recordedAt
			found = true
		}
	}
	if !found {
		return false
	}
	if it.LatestEntry.ID == entryID {
		it.LatestEntry.RecordedAt = recordedAt
	}
	return true
}
