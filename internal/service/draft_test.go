package service

import (
	"context"
	"testing"
	"time"

	"github.com/mduarte/ata/internal/reconcile"
	"github.com/mduarte/ata/internal/storage"
	"github.com/mduarte/ata/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_SaveLoadClear(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	assert.Nil(t, LoadDraft(ctx, store))

	doc := testutil.NewTestDocument("Half-written minutes")
	d := &Draft{
		Payload: reconcile.FromDocument(doc),
		Step:    2,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
	}
	require.NoError(t, SaveDraft(ctx, store, d))

	loaded := LoadDraft(ctx, store)
	require.NotNil(t, loaded)
	assert.Equal(t, 2, loaded.Step)
	assert.Equal(t, "Half-written minutes", loaded.Payload.Header.Title)
	assert.Empty(t, loaded.ExistingDocID)

	require.NoError(t, ClearDraft(ctx, store))
	assert.Nil(t, LoadDraft(ctx, store))
}

func TestDraft_LoadToleratesCorruptValue(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, storage.DraftKey, "{not json"))
	assert.Nil(t, LoadDraft(ctx, store))

	// Valid JSON but no payload inside is equally unusable.
	require.NoError(t, store.Set(ctx, storage.DraftKey, `{"currentStep":1}`))
	assert.Nil(t, LoadDraft(ctx, store))
}

func TestAutosaver_WritesSnapshots(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	doc := testutil.NewTestDocument("Autosaved")
	saver := NewAutosaver(store, 10*time.Millisecond, func() *Draft {
		return &Draft{Payload: reconcile.FromDocument(doc), Step: 1}
	}, nil)

	done := make(chan struct{})
	go func() {
		saver.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return LoadDraft(context.Background(), store) != nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	loaded := LoadDraft(context.Background(), store)
	require.NotNil(t, loaded)
	assert.Equal(t, "Autosaved", loaded.Payload.Header.Title)
	assert.NotEmpty(t, loaded.SavedAt)
}

func TestAutosaver_SkipsNilSnapshots(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	saver := NewAutosaver(store, 5*time.Millisecond, func() *Draft { return nil }, nil)
	done := make(chan struct{})
	go func() {
		saver.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.Nil(t, LoadDraft(context.Background(), store))
}
