package service

import (
	"context"

	"github.com/mduarte/ata/internal/domain"
)

// DocumentService assembles and persists complete meeting records. It is
// the only component that touches the key-value store for documents.
type DocumentService interface {
	// Create assigns the document a fresh id and timestamps, persists it,
	// and registers the id in the index.
	Create(ctx context.Context, doc *domain.Document) error
	// Get dereferences a document id; domain.ErrNotFound when unknown.
	Get(ctx context.Context, id string) (*domain.Document, error)
	// Update replaces the header, participants, and items of an existing
	// document, preserving its CreatedAt and Archived flag.
	Update(ctx context.Context, id string, doc *domain.Document) (*domain.Document, error)
	// Remove deletes the record and drops the id from the index.
	Remove(ctx context.Context, id string) error
	// List returns all documents sorted by creation time, newest first.
	// Ids that no longer dereference are skipped with a logged warning.
	List(ctx context.Context) ([]*domain.Document, error)
	// Copy reconciles the source into a brand-new document (fresh ids,
	// collapsed history, cleared header number) and then marks the source
	// archived. Returns the new document.
	Copy(ctx context.Context, sourceID string) (*domain.Document, error)
}

// ImportService turns external payloads (files, share links, hand-edited
// JSON) into stored documents.
type ImportService interface {
	ImportFile(ctx context.Context, path string) (*domain.Document, error)
	ImportPayload(ctx context.Context, data []byte) (*domain.Document, error)
}
