// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document persistence
//   - FieldStore: Field definition persistence, the source of extraction rules
//   - FieldValueStore: Per-document field value persistence with upsert
//   - ConfigStore: Application configuration
//   - NormaliserRegistry: Converts file bytes into document text for ingestion
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ExtractionObserver: Receives per-field outcomes and run durations for metrics.
//   - Connector: Feeds documents into ingestion; only the watch command uses one.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
