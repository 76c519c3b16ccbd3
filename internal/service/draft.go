package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mduarte/ata/internal/reconcile"
	"github.com/mduarte/ata/internal/storage"
)

// Draft is the auto-saved snapshot of an in-progress edit, kept so an
// interrupted session can be resumed.
type Draft struct {
	Payload       *reconcile.Payload `json:"storage"`
	Step          int                `json:"currentStep"`
	SavedAt       string             `json:"savedAt"`
	ExistingDocID string             `json:"existingAtaId,omitempty"`
}

// SaveDraft writes the draft to its dedicated key.
func SaveDraft(ctx context.Context, store storage.Store, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	if err := store.Set(ctx, storage.DraftKey, string(data)); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

// LoadDraft returns the saved draft, or nil when none exists or the stored
// value is unreadable. Draft recovery is best effort; a corrupt draft is
// never an error.
func LoadDraft(ctx context.Context, store storage.Store) *Draft {
	value, ok, err := store.Get(ctx, storage.DraftKey)
	if err != nil || !ok {
		return nil
	}
	var d Draft
	if err := json.Unmarshal([]byte(value), &d); err != nil || d.Payload == nil {
		return nil
	}
	return &d
}

// ClearDraft removes any saved draft.
func ClearDraft(ctx context.Context, store storage.Store) error {
	return store.Remove(ctx, storage.DraftKey)
}

// Autosaver periodically snapshots in-progress edit state to the draft
// key. It runs beside the interactive session and never blocks it: each
// tick re-reads current state through the snapshot callback and writes it
// out, tolerating being superseded by a later explicit save.
type Autosaver struct {
	store    storage.Store
	interval time.Duration
	snapshot func() *Draft
	logger   *log.Logger
}

// NewAutosaver creates an Autosaver. snapshot returns nil when there is
// nothing worth saving this tick.
func NewAutosaver(store storage.Store, interval time.Duration, snapshot func() *Draft, logger *log.Logger) *Autosaver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Autosaver{store: store, interval: interval, snapshot: snapshot, logger: logger}
}

// Run ticks until ctx is cancelled. Failed writes are logged and retried
// on the next tick.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d := a.snapshot()
			if d == nil {
				continue
			}
			d.SavedAt = time.Now().UTC().Format(time.RFC3339)
			if err := SaveDraft(ctx, a.store, d); err != nil {
				a.logger.Warn("draft autosave failed", "err", err)
			}
		}
	}
}
