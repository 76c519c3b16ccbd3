package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/reconcile"
)

type importService struct {
	docs DocumentService
}

// NewImportService creates an ImportService persisting through docs.
func NewImportService(docs DocumentService) ImportService {
	return &importService{docs: docs}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	return s.ImportPayload(ctx, data)
}

// ImportPayload accepts an external document payload, reconciles it into a
// fresh internally consistent document (new ids, preserved history), and
// persists it. Rejected payloads surface domain.ErrInvalidFormat.
func (s *importService) ImportPayload(ctx context.Context, data []byte) (*domain.Document, error) {
	payload, err := reconcile.Accept(data)
	if err != nil {
		return nil, err
	}

	source := payload.Document("")
	doc := reconcile.Reconcile(source, reconcile.Options{}, time.Now().UTC())
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("storing imported document: %w", err)
	}
	return doc, nil
}
