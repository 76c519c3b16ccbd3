// Package tree maintains the flat item collection of a document as a
// forest. Items reference each other by id only; the collection stays a
// slice with an id index rather than a nested pointer graph so it can be
// serialized and reconciled without cycle handling.
package tree

import (
	"fmt"
	"time"

	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/numbering"
)

// Tree wraps a document's item list. All structural mutation goes through
// it so the parent/child back-references stay bidirectionally consistent
// within the same call.
type Tree struct {
	items []*domain.Item
	index map[string]*domain.Item
}

// New builds a Tree over the given items. The slice is adopted, not
// copied; the caller hands over ownership. When duplicate ids are present
// the first occurrence wins in the index.
func New(items []*domain.Item) *Tree {
	t := &Tree{items: items, index: make(map[string]*domain.Item, len(items))}
	for _, it := range items {
		if _, ok := t.index[it.ID]; !ok {
			t.index[it.ID] = it
		}
	}
	return t
}

// Items returns the backing item slice in insertion order.
func (t *Tree) Items() []*domain.Item { return t.items }

// Sorted returns the items in hierarchical number order.
func (t *Tree) Sorted() []*domain.Item { return numbering.Sorted(t.items) }

// Len returns the number of items in the collection.
func (t *Tree) Len() int { return len(t.items) }

// Find returns the item with the given id.
func (t *Tree) Find(id string) (*domain.Item, bool) {
	it, ok := t.index[id]
	return it, ok
}

// AddRoot inserts a new top-level item with the next root number and a
// fresh placeholder history entry, returning its id.
func (t *Tree) AddRoot(now time.Time) string {
	number := fmt.Sprintf("%d", numbering.NextRootNumber(t.items))
	it := domain.NewItem(number, 1, nil, now)
	t.items = append(t.items, it)
	t.index[it.ID] = it
	return it.ID
}

// AddChild inserts a new item under the given parent with the next child
// number, registering it in the parent's ChildIDs within the same call.
// Returns ok=false without mutating anything when the parent is unknown.
func (t *Tree) AddChild(parentID string, now time.Time) (string, bool) {
	parent, ok := t.index[parentID]
	if !ok {
		return "", false
	}
	number := numbering.NextChildNumber(t.items, parent)
	it := domain.NewItem(number, parent.Level+1, &parent.ID, now)
	t.items = append(t.items, it)
	t.index[it.ID] = it
	parent.ChildIDs = append(parent.ChildIDs, it.ID)
	return it.ID, true
}

// Remove deletes the item with the given id together with its whole
// descendant subtree, then strips the removed ids from every remaining
// item's ChildIDs so no dangling child reference survives. Unknown ids
// are a no-op.
func (t *Tree) Remove(id string) {
	if _, ok := t.index[id]; !ok {
		return
	}

	// Transitive closure over ParentID back-references. The tree is
	// acyclic by construction, but the visited set also terminates the
	// walk on malformed input.
	doomed := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, it := range t.items {
			if it.ParentID != nil && *it.ParentID == cur && !doomed[it.ID] {
				doomed[it.ID] = true
				queue = append(queue, it.ID)
			}
		}
	}

	kept := t.items[:0]
	for _, it := range t.items {
		if doomed[it.ID] {
			delete(t.index, it.ID)
			continue
		}
		kept = append(kept, it)
	}
	t.items = kept

	for _, it := range t.items {
		if len(it.ChildIDs) == 0 {
			continue
		}
		children := it.ChildIDs[:0]
		for _, cid := range it.ChildIDs {
			if !doomed[cid] {
				children = append(children, cid)
			}
		}
		it.ChildIDs = children
	}
}

// SetNumber overrides an item's number (manual renumbering). Returns false
// when the id is unknown.
func (t *Tree) SetNumber(id, number string) bool {
	it, ok := t.index[id]
	if !ok {
		return false
	}
	it.Number = number
	return true
}

// CheckIntegrity verifies the bidirectional structural invariant: every
// item's ParentID is matched by an entry in that parent's ChildIDs, and
// every ChildIDs entry references an item whose ParentID points back.
func (t *Tree) CheckIntegrity() error {
	for _, it := range t.items {
		if it.ParentID != nil {
			parent, ok := t.index[*it.ParentID]
			if !ok {
				return fmt.Errorf("item %s references missing parent %s", it.ID, *it.ParentID)
			}
			if !contains(parent.ChildIDs, it.ID) {
				return fmt.Errorf("parent %s does not list child %s", parent.ID, it.ID)
			}
		}
		for _, cid := range it.ChildIDs {
			child, ok := t.index[cid]
			if !ok {
				return fmt.Errorf("item %s lists missing child %s", it.ID, cid)
			}
			if child.ParentID == nil || *child.ParentID != it.ID {
				return fmt.Errorf("child %s does not point back to parent %s", cid, it.ID)
			}
		}
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
