// Package pdf normalises PDF files into plain text.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-extract/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// maxTitleLength bounds the first line used as a title.
const maxTitleLength = 200

// TextExtractor returns the text layer of a PDF.
type TextExtractor func(content []byte) (string, error)

// Normaliser handles PDF documents.
type Normaliser struct {
	extract TextExtractor
}

// New creates a PDF normaliser that reads the text layer in-process.
func New() *Normaliser {
	return NewWithExtractor(extractText)
}

// NewWithExtractor creates a PDF normaliser with a custom text extractor.
func NewWithExtractor(extract TextExtractor) *Normaliser {
	return &Normaliser{extract: extract}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise converts a PDF into a Document. Scanned PDFs without a text
// layer yield empty content.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, err := n.extract(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: reading pdf %s: %v", domain.ErrInvalidInput, raw.URI, err)
	}
	text = plaintext.CleanText([]byte(text))

	return &domain.Document{
		URI:     raw.URI,
		Title:   extractTitle(text, raw.URI),
		Content: strings.TrimSpace(text),
	}, nil
}

// extractText reads every page's text with ledongthuc/pdf.
// The parser panics on some malformed files; that is reported as an error.
func extractText(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := lpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// extractTitle uses the first short non-empty line, or the file name.
func extractTitle(text, uri string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > maxTitleLength {
			continue
		}
		return line
	}
	return plaintext.TitleFromURI(uri)
}
