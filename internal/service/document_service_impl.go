package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/reconcile"
	"github.com/mduarte/ata/internal/storage"
)

type documentService struct {
	store  storage.Store
	logger *log.Logger
}

// NewDocumentService creates a DocumentService over the given store. A nil
// logger discards warnings.
func NewDocumentService(store storage.Store, logger *log.Logger) DocumentService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &documentService{store: store, logger: logger}
}

func (s *documentService) Create(ctx context.Context, doc *domain.Document) error {
	if doc.ID == "" {
		doc.ID = domain.NewDocumentID()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if err := s.persist(ctx, doc); err != nil {
		return err
	}
	return s.register(ctx, doc.ID)
}

func (s *documentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	value, ok, err := s.store.Get(ctx, storage.RecordKey(id))
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", id, err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	var p reconcile.Payload
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		return nil, fmt.Errorf("decoding document %s: %w", id, err)
	}
	return p.Document(id), nil
}

func (s *documentService) Update(ctx context.Context, id string, doc *domain.Document) (*domain.Document, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *doc
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	if updated.CreatedAt.IsZero() {
		updated.CreatedAt = time.Now().UTC()
	}
	updated.Archived = existing.Archived
	updated.UpdatedAt = time.Now().UTC()

	if err := s.persist(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *documentService) Remove(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, storage.RecordKey(id)); err != nil {
		return fmt.Errorf("removing document %s: %w", id, err)
	}

	ids := s.readIndex(ctx)
	kept := ids[:0]
	for _, known := range ids {
		if known != id {
			kept = append(kept, known)
		}
	}
	return s.writeIndex(ctx, kept)
}

func (s *documentService) List(ctx context.Context) ([]*domain.Document, error) {
	ids := s.readIndex(ctx)
	docs := make([]*domain.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Get(ctx, id)
		if err != nil {
			// A known id that no longer dereferences points at storage
			// corruption; surface it instead of masking the loss.
			s.logger.Warn("skipping unreadable document", "id", id, "err", err)
			continue
		}
		docs = append(docs, doc)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

func (s *documentService) Copy(ctx context.Context, sourceID string) (*domain.Document, error) {
	source, err := s.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	copied := reconcile.Reconcile(source, reconcile.Options{CollapseHistory: true}, time.Now().UTC())
	if err := s.Create(ctx, copied); err != nil {
		return nil, fmt.Errorf("creating copy of %s: %w", sourceID, err)
	}

	// The source becomes the pinned, read-only origin of the copy. This
	// happens only after the new document exists.
	source.Archived = true
	if err := s.persist(ctx, source); err != nil {
		return nil, fmt.Errorf("archiving source %s: %w", sourceID, err)
	}
	return copied, nil
}

func (s *documentService) persist(ctx context.Context, doc *domain.Document) error {
	data, err := json.Marshal(reconcile.FromDocument(doc))
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", doc.ID, err)
	}
	if err := s.store.Set(ctx, storage.RecordKey(doc.ID), string(data)); err != nil {
		return fmt.Errorf("persisting document %s: %w", doc.ID, err)
	}
	return nil
}

// register adds id to the index if absent.
func (s *documentService) register(ctx context.Context, id string) error {
	ids := s.readIndex(ctx)
	for _, known := range ids {
		if known == id {
			return nil
		}
	}
	return s.writeIndex(ctx, append(ids, id))
}

func (s *documentService) readIndex(ctx context.Context) []string {
	value, ok, err := s.store.Get(ctx, storage.IndexKey)
	if err != nil || !ok {
		if err != nil {
			s.logger.Warn("reading document index", "err", err)
		}
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		s.logger.Warn("document index is corrupt, starting empty", "err", err)
		return nil
	}
	return ids
}

func (s *documentService) writeIndex(ctx context.Context, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encoding document index: %w", err)
	}
	if err := s.store.Set(ctx, storage.IndexKey, string(data)); err != nil {
		return fmt.Errorf("writing document index: %w", err)
	}
	return nil
}
