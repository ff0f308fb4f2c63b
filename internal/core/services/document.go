package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-extract/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService stores ingested documents and fires the consumption event.
type DocumentService struct {
	docStore driven.DocumentStore
	handlers []driving.DocumentConsumedHandler
}

// NewDocumentService creates a new document service.
// Handlers run in order, synchronously, after each successful save.
func NewDocumentService(docStore driven.DocumentStore, handlers ...driving.DocumentConsumedHandler) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		handlers: handlers,
	}
}

// Subscribe adds a consumption handler.
func (s *DocumentService) Subscribe(h driving.DocumentConsumedHandler) {
	if h != nil {
		s.handlers = append(s.handlers, h)
	}
}

// Ingest stores a document and notifies every consumption handler once.
// A document without an ID is given one. Re-ingesting an existing ID
// replaces its content and keeps the original creation time.
func (s *DocumentService) Ingest(ctx context.Context, doc *domain.Document) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}
	if doc == nil {
		return fmt.Errorf("%w: document is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if existing, err := s.docStore.GetDocument(ctx, doc.ID); err == nil {
		doc.CreatedAt = existing.CreatedAt
	} else if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	logger.Debugw("document ingested", "document", doc.ID, "uri", doc.URI, "bytes", len(doc.Content))

	for _, h := range s.handlers {
		h.HandleDocumentConsumed(ctx, doc)
	}
	return nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.GetDocument(ctx, documentID)
}

// List returns all documents ordered by creation time.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.ListDocuments(ctx)
}
