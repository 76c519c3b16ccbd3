package reconcile

import (
	"testing"
	"time"

	"github.com/mduarte/ata/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceDocument() *domain.Document {
	now := time.Now().UTC().Add(-48 * time.Hour)
	root := domain.NewItem("1", 1, nil, now)
	child := domain.NewItem("1.1", 2, &root.ID, now)
	root.ChildIDs = []string{child.ID}
	root.RecordUpdate("root topic", domain.Owner{Name: "Ana", Email: "ana@x.com"}, nil, domain.StatusInProgress, now)
	child.RecordUpdate("first", domain.Owner{}, nil, domain.StatusPending, now)
	child.RecordUpdate("second", domain.Owner{Name: "Rui"}, nil, domain.StatusDone, now)

	return &domain.Document{
		ID: "ata-src",
		Header: domain.Header{
			Number: "ATA-042", Date: "2026-01-15", Type: "Kick-Off",
			Title: "Project start", Owner: "Ana", Project: "Atlas",
		},
		Participants: []domain.Participant{
			{Name: "Ana", Email: "ana@x.com", Attendance: domain.AttendancePresent},
			{Name: "Rui", Attendance: domain.AttendanceAbsent},
		},
		Items:     []*domain.Item{root, child},
		CreatedAt: now,
		Archived:  false,
	}
}

func TestReconcile_RekeysAndRemapsReferences(t *testing.T) {
	src := sourceDocument()
	now := time.Now().UTC()

	out := Reconcile(src, Options{CollapseHistory: true}, now)

	require.Len(t, out.Items, 2)
	newRoot, newChild := out.Items[0], out.Items[1]

	assert.NotEqual(t, src.Items[0].ID, newRoot.ID)
	assert.NotEqual(t, src.Items[1].ID, newChild.ID)
	assert.NotEqual(t, newRoot.ID, newChild.ID)

	require.NotNil(t, newChild.ParentID)
	assert.Equal(t, newRoot.ID, *newChild.ParentID)
	assert.Equal(t, []string{newChild.ID}, newRoot.ChildIDs)

	assert.Equal(t, now, newRoot.CreatedAt)
	assert.Equal(t, "1", newRoot.Number)
	assert.Equal(t, 2, newChild.Level)
}

func TestReconcile_HeaderNumberClearedDateReset(t *testing.T) {
	src := sourceDocument()
	now := time.Now().UTC()

	out := Reconcile(src, Options{CollapseHistory: true}, now)

	assert.Empty(t, out.Header.Number)
	assert.Equal(t, domain.TodayDate(now), out.Header.Date)
	assert.Equal(t, "Project start", out.Header.Title)
	assert.Equal(t, src.Participants, out.Participants)
	assert.False(t, out.Archived)
	assert.Empty(t, out.ID)
}

func TestReconcile_CollapseKeepsLatestFacts(t *testing.T) {
	src := sourceDocument()
	now := time.Now().UTC()

	out := Reconcile(src, Options{CollapseHistory: true}, now)

	child := out.Items[1]
	require.Len(t, child.History, 1)
	entry := child.History[0]
	assert.Equal(t, entry, child.LatestEntry)
	assert.Equal(t, "second", entry.Description)
	assert.Equal(t, "Rui", entry.Owner.Name)
	assert.Equal(t, domain.StatusDone, entry.Status)
	assert.Equal(t, now, entry.RecordedAt)
	assert.NotEqual(t, src.Items[1].LatestEntry.ID, entry.ID)
}

func TestReconcile_ImportPreservesHistory(t *testing.T) {
	src := sourceDocument()
	now := time.Now().UTC()

	out := Reconcile(src, Options{}, now)

	child := out.Items[1]
	require.Len(t, child.History, 2)
	assert.Equal(t, "first", child.History[0].Description)
	assert.Equal(t, "second", child.History[1].Description)
	assert.Equal(t, child.History[1], child.LatestEntry)
	// Recorded timestamps survive, ids do not.
	assert.Equal(t, src.Items[1].History[0].RecordedAt, child.History[0].RecordedAt)
	assert.NotEqual(t, src.Items[1].History[0].ID, child.History[0].ID)
}

func TestReconcile_DuplicateOldIDsFirstMatchWins(t *testing.T) {
	now := time.Now().UTC()
	a := domain.NewItem("1", 1, nil, now)
	b := domain.NewItem("2", 1, nil, now)
	b.ID = a.ID // malformed source: duplicate id
	dup := a.ID
	c := domain.NewItem("1.1", 2, &dup, now)

	src := &domain.Document{Items: []*domain.Item{a, b, c}}
	out := Reconcile(src, Options{CollapseHistory: true}, now)

	require.Len(t, out.Items, 3)
	// Both source items got distinct fresh ids despite the shared old id.
	assert.NotEqual(t, out.Items[0].ID, out.Items[1].ID)
	// The reference resolves to the first allocation for that old id.
	require.NotNil(t, out.Items[2].ParentID)
	assert.Equal(t, out.Items[0].ID, *out.Items[2].ParentID)
}

func TestReconcile_UnknownReferencesPassThrough(t *testing.T) {
	now := time.Now().UTC()
	foreignParent := "item-from-another-document"
	it := domain.NewItem("1.1", 2, &foreignParent, now)
	it.ChildIDs = []string{"item-ghost"}

	out := Reconcile(&domain.Document{Items: []*domain.Item{it}}, Options{}, now)

	require.NotNil(t, out.Items[0].ParentID)
	assert.Equal(t, foreignParent, *out.Items[0].ParentID)
	assert.Equal(t, []string{"item-ghost"}, out.Items[0].ChildIDs)
}

func TestReconcile_EmptyHistorySynthesizesPendingEntry(t *testing.T) {
	now := time.Now().UTC()
	it := &domain.Item{ID: "item-x", Number: "1", Level: 1}

	for _, opts := range []Options{{}, {CollapseHistory: true}} {
		out := Reconcile(&domain.Document{Items: []*domain.Item{it}}, opts, now)
		got := out.Items[0]
		require.Len(t, got.History, 1)
		entry := got.History[0]
		assert.Equal(t, entry, got.LatestEntry)
		assert.Empty(t, entry.Description)
		assert.Equal(t, domain.Owner{}, entry.Owner)
		assert.Nil(t, entry.DueDate)
		assert.Equal(t, domain.StatusPending, entry.Status)
		assert.Equal(t, now, entry.RecordedAt)
		assert.NotEmpty(t, entry.ID)
	}
}

func TestReconcile_LatestOnlyItemGetsHistory(t *testing.T) {
	// Minimal share payloads carry only the latest snapshot.
	now := time.Now().UTC()
	it := &domain.Item{
		ID: "item-x", Number: "1", Level: 1,
		LatestEntry: domain.HistoryEntry{ID: "hist-1", Description: "from qr", Status: domain.StatusInfo},
	}

	out := Reconcile(&domain.Document{Items: []*domain.Item{it}}, Options{}, now)

	got := out.Items[0]
	require.Len(t, got.History, 1)
	assert.Equal(t, "from qr", got.History[0].Description)
	assert.Equal(t, domain.StatusInfo, got.History[0].Status)
	assert.Equal(t, got.History[0], got.LatestEntry)
}

func TestReconcile_InvalidStatusDefaultsToPending(t *testing.T) {
	now := time.Now().UTC()
	it := &domain.Item{ID: "item-x", Number: "1", Level: 1}
	it.History = []domain.HistoryEntry{{ID: "hist-1", Description: "a", Status: "Bogus"}}
	it.LatestEntry = it.History[0]

	out := Reconcile(&domain.Document{Items: []*domain.Item{it}}, Options{}, now)
	assert.Equal(t, domain.StatusPending, out.Items[0].History[0].Status)
}
