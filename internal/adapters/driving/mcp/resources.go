package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for extractor resources.
	uriScheme = "sercha-extract://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "fields",
		Name:        "fields",
		Description: "Field definitions with their extraction rules",
		MIMEType:    "application/json",
	}, s.handleFieldsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Normalised text of an ingested document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/values",
		Name:        "document-values",
		Description: "Stored field values of a document",
		MIMEType:    "application/json",
	}, s.handleDocumentValuesResource)
}

// handleFieldsResource returns all field definitions.
func (s *Server) handleFieldsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Field == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	fields, err := s.ports.Field.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing fields: %w", err)
	}

	infos := make([]FieldOutput, len(fields))
	for i := range fields {
		infos[i] = toFieldOutput(&fields[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling fields: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleDocumentContentResource returns the content of a specific document.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docID, sub := parseDocumentURI(req.Params.URI)
	if docID == "" || sub != "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Content,
		}},
	}, nil
}

// handleDocumentValuesResource returns the stored values of a document.
func (s *Server) handleDocumentValuesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID, sub := parseDocumentURI(req.Params.URI)
	if docID == "" || sub != "values" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	values, err := s.ports.Extraction.Values(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting values: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling values: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// parseDocumentURI splits sercha-extract://documents/{id}[/{sub}].
func parseDocumentURI(uri string) (docID, sub string) {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return "", ""
	}

	rest := strings.TrimPrefix(uri, prefix)
	docID, sub, _ = strings.Cut(rest, "/")
	return docID, sub
}
