package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/reconcile"
	"github.com/mduarte/ata/internal/testutil"
	"github.com/mduarte/ata/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupImportService(t *testing.T) (ImportService, DocumentService) {
	t.Helper()
	store := testutil.NewTestStore(t)
	docs := NewDocumentService(store, nil)
	return NewImportService(docs), docs
}

func exportPayload(t *testing.T, doc *domain.Document) []byte {
	t.Helper()
	data, err := json.Marshal(reconcile.FromDocument(doc))
	require.NoError(t, err)
	return data
}

func TestImportService_ImportPayload(t *testing.T) {
	imp, docs := setupImportService(t)
	ctx := context.Background()

	forest := testutil.SeedItemForest()
	src := testutil.NewTestDocument("Imported meeting",
		testutil.WithItems(forest.Items()...))
	src.ID = domain.NewDocumentID()
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	src.Items[0].RecordUpdate("request vendor quote", domain.Owner{Name: "Rui"}, nil, domain.StatusPending, time.Now().UTC())
	src.Items[0].RecordUpdate("follow up on vendor quote", domain.Owner{Name: "Rui"}, &due, domain.StatusInProgress, time.Now().UTC())

	doc, err := imp.ImportPayload(ctx, exportPayload(t, src))
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, doc.ID)
	require.Len(t, doc.Items, len(src.Items))
	for i := range doc.Items {
		assert.NotEqual(t, src.Items[i].ID, doc.Items[i].ID)
	}
	require.NoError(t, tree.New(doc.Items).CheckIntegrity())

	// Import keeps the full history trail, unlike copy.
	require.Len(t, doc.Items[0].History, 2)
	assert.Equal(t, "follow up on vendor quote", doc.Items[0].History[1].Description)
	assert.Equal(t, domain.StatusInProgress, doc.Items[0].LatestEntry.Status)

	got, err := docs.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Imported meeting", got.Header.Title)
}

func TestImportService_ImportFile(t *testing.T) {
	imp, _ := setupImportService(t)

	src := testutil.NewTestDocument("From disk")
	path := filepath.Join(t.TempDir(), "ata.json")
	require.NoError(t, os.WriteFile(path, exportPayload(t, src), 0o644))

	doc, err := imp.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "From disk", doc.Header.Title)
}

func TestImportService_ImportFileMissing(t *testing.T) {
	imp, _ := setupImportService(t)
	_, err := imp.ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestImportService_RejectsUnrecognizedPayloads(t *testing.T) {
	imp, docs := setupImportService(t)
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		data string
	}{
		{"not json", "oops"},
		{"missing header", `{"attendance":[],"items":[]}`},
		{"missing items", `{"header":{"title":"x"},"attendance":[]}`},
		{"header not an object", `{"header":3,"attendance":[],"items":[]}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := imp.ImportPayload(ctx, []byte(tc.data))
			assert.ErrorIs(t, err, domain.ErrInvalidFormat)
		})
	}

	list, err := docs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
