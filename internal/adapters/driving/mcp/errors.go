// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants run field extraction, test patterns and read
// stored field values.
package mcp

import "errors"

// ErrMissingExtractionService is returned when the extraction service is not provided.
var ErrMissingExtractionService = errors.New("mcp: extraction service is required")

// ErrFieldsUnavailable is returned by field tools when no field service is wired.
var ErrFieldsUnavailable = errors.New("mcp: field service not configured")
