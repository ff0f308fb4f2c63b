package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-extract/internal/logger"
)

// Ensure ExtractionService implements the interfaces.
var (
	_ driving.ExtractionService       = (*ExtractionService)(nil)
	_ driving.DocumentConsumedHandler = (*ExtractionService)(nil)
)

// ExtractionService extracts configured fields from document content
// and upserts one value per (document, field).
type ExtractionService struct {
	fields   driven.FieldLister
	values   driven.FieldValueStore
	docs     driven.DocumentStore
	observer driven.ExtractionObserver
	now      func() time.Time
}

// ExtractionOption configures an ExtractionService.
type ExtractionOption func(*ExtractionService)

// WithObserver attaches an observer that receives per-field and per-run telemetry.
func WithObserver(o driven.ExtractionObserver) ExtractionOption {
	return func(s *ExtractionService) {
		s.observer = o
	}
}

// WithDocumentStore enables RunByID and Values lookups through docs.
func WithDocumentStore(docs driven.DocumentStore) ExtractionOption {
	return func(s *ExtractionService) {
		s.docs = docs
	}
}

// NewExtractionService creates a new extraction service.
func NewExtractionService(
	fields driven.FieldLister,
	values driven.FieldValueStore,
	opts ...ExtractionOption,
) *ExtractionService {
	s := &ExtractionService{
		fields: fields,
		values: values,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleDocumentConsumed runs extraction when a document finishes ingestion.
func (s *ExtractionService) HandleDocumentConsumed(ctx context.Context, doc *domain.Document) {
	_ = s.Run(ctx, doc)
}

// Run extracts every selected field from doc.
//
// Failures are isolated per field: a bad pattern, a coercion surprise or a
// store error is logged and recorded in the report, and the remaining fields
// are still processed. Fields that do not match are never written, so a
// previously stored value survives a later miss.
func (s *ExtractionService) Run(ctx context.Context, doc *domain.Document) (report domain.ExtractionReport) {
	start := s.now()
	report = domain.NewExtractionReport("")
	if doc != nil {
		report.DocumentID = doc.ID
	}

	defer func() {
		report.Duration = s.now().Sub(start)
		if s.observer != nil {
			s.observer.ObserveRun(report.Duration, len(report.Results))
		}
	}()

	if !doc.HasContent() {
		logger.Debugw("no content to extract from", "document", report.DocumentID)
		return report
	}

	fields, err := s.selectedFields(ctx)
	if err != nil {
		logger.Errorw("listing extraction fields failed", "document", doc.ID, "error", err)
		return report
	}
	if len(fields) == 0 {
		logger.Debugw("no fields enabled for extraction", "document", doc.ID)
		return report
	}

	logger.Infow("extracting fields", "document", doc.ID, "fields", len(fields))

	for i := range fields {
		res := s.extractField(ctx, doc, &fields[i])
		report.Results = append(report.Results, res)
		if res.Outcome.IsStored() && res.Value != nil {
			report.Values[res.Field] = *res.Value
		}
		if s.observer != nil {
			s.observer.ObserveField(res.Field, res.Outcome)
		}
	}

	if len(report.Values) > 0 {
		logger.Infow("extraction finished", "document", doc.ID, "stored", len(report.Values))
	}
	return report
}

func (s *ExtractionService) selectedFields(ctx context.Context) ([]domain.FieldDefinition, error) {
	if s.fields == nil {
		return nil, nil
	}
	all, err := s.fields.List(ctx)
	if err != nil {
		return nil, err
	}
	return SelectFields(all), nil
}

// extractField processes one field. It converts panics into an error result.
func (s *ExtractionService) extractField(
	ctx context.Context,
	doc *domain.Document,
	field *domain.FieldDefinition,
) (res domain.FieldResult) {
	res.Field = field.Name

	defer func() {
		if r := recover(); r != nil {
			res.Outcome = domain.OutcomeError
			res.Value = nil
			res.Err = fmt.Sprint(r)
			logger.Errorw("field extraction panicked", "document", doc.ID, "field", field.Name, "error", r)
		}
	}()

	raw, ok := ExtractMatch(doc.Content, field.ExtractionPattern, field.EffectiveGroup())
	if !ok {
		res.Outcome = domain.OutcomeNoMatch
		logger.Debugw("no match", "document", doc.ID, "field", field.Name)
		return res
	}
	res.Raw = raw

	value, ok := Coerce(raw, field.DataType)
	if !ok {
		res.Outcome = domain.OutcomeNull
		logger.Debugw("conversion produced no value", "document", doc.ID, "field", field.Name, "raw", raw)
		return res
	}

	if s.values == nil {
		res.Outcome = domain.OutcomeError
		res.Err = domain.ErrNotImplemented.Error()
		logger.Errorw("no value store configured", "document", doc.ID, "field", field.Name)
		return res
	}

	created, err := s.values.Upsert(ctx, doc.ID, field.ID, value)
	if err != nil {
		res.Outcome = domain.OutcomeError
		res.Err = err.Error()
		logger.Errorw("storing field value failed", "document", doc.ID, "field", field.Name, "error", err)
		return res
	}

	res.Outcome = domain.OutcomeUpdated
	if created {
		res.Outcome = domain.OutcomeCreated
	}
	res.Value = &value
	logger.Infow("field extracted", "document", doc.ID, "field", field.Name,
		"value", value.String(), "outcome", string(res.Outcome))
	return res
}

// RunByID loads a document and runs extraction on it.
func (s *ExtractionService) RunByID(ctx context.Context, documentID string) (domain.ExtractionReport, error) {
	if s.docs == nil {
		return domain.ExtractionReport{}, domain.ErrNotImplemented
	}
	doc, err := s.docs.GetDocument(ctx, documentID)
	if err != nil {
		return domain.ExtractionReport{}, fmt.Errorf("load document %s: %w", documentID, err)
	}
	return s.Run(ctx, doc), nil
}

// TestPattern evaluates a pattern against content without storing anything.
// Group 0 selects the default group.
func (s *ExtractionService) TestPattern(content, pattern string, group int, dataType domain.DataType) domain.PatternTest {
	if group == 0 {
		group = domain.DefaultExtractionGroup
	}
	raw, ok := ExtractMatch(content, pattern, group)
	if !ok {
		return domain.PatternTest{}
	}
	result := domain.PatternTest{Matched: true, Raw: raw}
	if v, ok := Coerce(raw, dataType); ok {
		result.Value = &v
	}
	return result
}

// Values returns the stored values of a document keyed by field name.
// Values whose field no longer exists are skipped.
func (s *ExtractionService) Values(ctx context.Context, documentID string) (map[string]domain.Value, error) {
	if s.values == nil || s.fields == nil {
		return nil, domain.ErrNotImplemented
	}
	if s.docs != nil {
		if _, err := s.docs.GetDocument(ctx, documentID); err != nil {
			return nil, err
		}
	}

	stored, err := s.values.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	fields, err := s.fields.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(fields))
	for _, f := range fields {
		names[f.ID] = f.Name
	}

	out := make(map[string]domain.Value, len(stored))
	for _, fv := range stored {
		if name, ok := names[fv.FieldID]; ok {
			out[name] = fv.Value
		}
	}
	return out, nil
}
