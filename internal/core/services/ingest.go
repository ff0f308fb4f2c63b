package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-extract/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService normalises connector output and hands it to the document service.
type IngestService struct {
	registry  driven.NormaliserRegistry
	documents driving.DocumentService
}

// NewIngestService creates a new ingest service.
func NewIngestService(registry driven.NormaliserRegistry, documents driving.DocumentService) *IngestService {
	return &IngestService{
		registry:  registry,
		documents: documents,
	}
}

const fileScheme = "file://"

// CanonicalURI returns the file:// form of a local absolute path, so a bare
// path and its file URI name the same document. Other URIs pass through.
func CanonicalURI(uri string) string {
	path := strings.TrimPrefix(uri, fileScheme)
	if !filepath.IsAbs(path) {
		return uri
	}
	return fileScheme + filepath.Clean(path)
}

// DocumentIDForURI returns the stable document ID for a URI.
func DocumentIDForURI(uri string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(CanonicalURI(uri))).String()
}

// IngestRaw normalises raw bytes and ingests the resulting document.
func (s *IngestService) IngestRaw(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if s.registry == nil || s.documents == nil {
		return nil, domain.ErrNotImplemented
	}
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.URI, err)
	}
	doc.URI = CanonicalURI(raw.URI)
	doc.ID = DocumentIDForURI(doc.URI)

	if err := s.documents.Ingest(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Consume ingests created and updated documents from changes.
// Deletions are skipped; stored values outlive their source file.
func (s *IngestService) Consume(ctx context.Context, changes <-chan domain.RawDocumentChange) driving.IngestStats {
	var stats driving.IngestStats
	for {
		select {
		case <-ctx.Done():
			return stats
		case change, ok := <-changes:
			if !ok {
				return stats
			}
			if change.Type == domain.ChangeDeleted {
				logger.Debugw("ignoring deleted file", "uri", change.Document.URI)
				stats.Skipped++
				continue
			}
			doc, err := s.IngestRaw(ctx, &change.Document)
			if err != nil {
				logger.Warnw("ingest failed", "uri", change.Document.URI, "error", err)
				stats.Failed++
				continue
			}
			logger.Infow("ingested", "uri", doc.URI, "document", doc.ID, "change", change.Type.String())
			stats.Ingested++
		}
	}
}
