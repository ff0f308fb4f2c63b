// Package normalisers provides implementations of the Normaliser interface
// for the document formats the extractor ingests. Each normaliser knows how
// to turn bytes of a specific MIME type into plain text that extraction
// patterns run against.
//
// Normalisers are registered with the NormaliserRegistry at startup.
package normalisers
