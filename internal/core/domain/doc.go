// Package domain defines the core business entities for sercha-extract.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested unit of text
//   - FieldDefinition: A named, typed attribute with optional extraction rules
//   - FieldValue: The single stored value of one field on one document
//   - Value: A tagged variant holding a coerced value
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
