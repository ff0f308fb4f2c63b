package domain

import "time"

// FieldOutcome describes what happened to one field during an extraction run.
type FieldOutcome string

// Field outcomes.
const (
	// OutcomeCreated means a new FieldValue was stored.
	OutcomeCreated FieldOutcome = "created"

	// OutcomeUpdated means an existing FieldValue was overwritten.
	OutcomeUpdated FieldOutcome = "updated"

	// OutcomeNoMatch means the pattern did not yield text.
	OutcomeNoMatch FieldOutcome = "no_match"

	// OutcomeNull means coercion produced no value.
	OutcomeNull FieldOutcome = "null"

	// OutcomeError means processing the field failed unexpectedly.
	OutcomeError FieldOutcome = "error"
)

// IsStored returns true if the outcome wrote a value.
func (o FieldOutcome) IsStored() bool {
	return o == OutcomeCreated || o == OutcomeUpdated
}

// FieldResult records the result of extracting one field.
type FieldResult struct {
	// Field is the field name.
	Field string

	// Outcome is what happened.
	Outcome FieldOutcome

	// Raw is the matched text, empty on no match.
	Raw string

	// Value is set when Outcome.IsStored().
	Value *Value

	// Err holds the failure message when Outcome is OutcomeError.
	Err string
}

// ExtractionReport summarises one extraction run over a document.
type ExtractionReport struct {
	// DocumentID is the document that was processed.
	DocumentID string

	// Values maps field name to stored value for every written field.
	Values map[string]Value

	// Results holds one entry per selected field, in processing order.
	Results []FieldResult

	// Duration is how long the run took.
	Duration time.Duration
}

// NewExtractionReport returns an empty report for a document.
func NewExtractionReport(documentID string) ExtractionReport {
	return ExtractionReport{
		DocumentID: documentID,
		Values:     make(map[string]Value),
	}
}

// Count returns how many results had the given outcome.
func (r ExtractionReport) Count(outcome FieldOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// PatternTest is the result of evaluating a pattern without persisting.
type PatternTest struct {
	// Matched is true when the pattern produced text.
	Matched bool

	// Raw is the trimmed text of the selected group.
	Raw string

	// Value is the coerced value; nil when unmatched or null.
	Value *Value
}
