package reconcile

import (
	"time"

	"github.com/mduarte/ata/internal/domain"
)

// Options controls how history travels through a reconciliation.
type Options struct {
	// CollapseHistory replaces each item's log with a single fresh entry
	// carrying the most recent known facts. Used by the same-system copy
	// action: a copy is a new document, not a continuation of the old
	// audit trail. Import leaves it false and preserves every entry.
	CollapseHistory bool
}

// Reconcile produces a brand-new, internally consistent document from a
// source that may carry duplicate or foreign ids. Every item gets a fresh
// id; parent and child references are remapped through an old-to-new lookup
// where the first occurrence of a duplicate old id wins. References to ids
// outside the lookup pass through unchanged rather than being dropped,
// a known tolerance, not a repair guarantee.
//
// The result carries no id, timestamps, or archived flag of its own; the
// document service assigns those on create. The header number is cleared
// for the user to reassign and the header date is reset to today.
func Reconcile(src *domain.Document, opts Options, now time.Time) *domain.Document {
	newIDs := make([]string, len(src.Items))
	idMap := make(map[string]string, len(src.Items))
	for i, it := range src.Items {
		newIDs[i] = domain.NewItemID()
		if _, seen := idMap[it.ID]; !seen {
			idMap[it.ID] = newIDs[i]
		}
	}

	items := make([]*domain.Item, 0, len(src.Items))
	for i, it := range src.Items {
		ni := &domain.Item{
			ID:        newIDs[i],
			Number:    it.Number,
			Level:     it.Level,
			CreatedAt: now,
		}
		if it.ParentID != nil {
			pid := *it.ParentID
			if mapped, ok := idMap[pid]; ok {
				pid = mapped
			}
			ni.ParentID = &pid
		}
		ni.ChildIDs = make([]string, 0, len(it.ChildIDs))
		for _, cid := range it.ChildIDs {
			if mapped, ok := idMap[cid]; ok {
				cid = mapped
			}
			ni.ChildIDs = append(ni.ChildIDs, cid)
		}
		ni.History, ni.LatestEntry = reconcileHistory(it, opts, now)
		items = append(items, ni)
	}

	header := src.Header
	header.Number = ""
	header.Date = domain.TodayDate(now)

	return &domain.Document{
		Header:       header,
		Participants: append([]domain.Participant{}, src.Participants...),
		Items:        items,
	}
}

func reconcileHistory(it *domain.Item, opts Options, now time.Time) ([]domain.HistoryEntry, domain.HistoryEntry) {
	if len(it.History) == 0 && it.LatestEntry.ID == "" {
		fresh := freshEntry(domain.HistoryEntry{}, now)
		return []domain.HistoryEntry{fresh}, fresh
	}

	if opts.CollapseHistory {
		current := freshEntry(representative(it), now)
		return []domain.HistoryEntry{current}, current
	}

	if len(it.History) == 0 {
		// Minimal payloads may carry only the latest snapshot.
		fresh := freshEntry(it.LatestEntry, now)
		return []domain.HistoryEntry{fresh}, fresh
	}

	history := make([]domain.HistoryEntry, 0, len(it.History))
	for _, e := range it.History {
		ne := sanitizeEntry(e)
		ne.ID = domain.NewHistoryID()
		history = append(history, ne)
	}
	return history, history[len(history)-1]
}

// representative picks the most recent known facts for a collapsed copy:
// the latest entry when present, otherwise the last history element.
func representative(it *domain.Item) domain.HistoryEntry {
	if it.LatestEntry.ID != "" {
		return it.LatestEntry
	}
	if len(it.History) > 0 {
		return it.History[len(it.History)-1]
	}
	return domain.HistoryEntry{}
}

// freshEntry builds a brand-new entry stamped now, carrying over only the
// content fields of src.
func freshEntry(src domain.HistoryEntry, now time.Time) domain.HistoryEntry {
	e := sanitizeEntry(src)
	e.ID = domain.NewHistoryID()
	e.RecordedAt = now
	return e
}

// sanitizeEntry substitutes safe defaults for malformed fields.
func sanitizeEntry(e domain.HistoryEntry) domain.HistoryEntry {
	if !e.Status.Valid() {
		e.Status = domain.StatusPending
	}
	return e
}
