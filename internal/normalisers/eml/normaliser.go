// Package eml normalises RFC 822 email messages into header and body text.
package eml

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-extract/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// headers are copied into the content in this order, so patterns can match them.
var headers = []string{"From", "To", "Date", "Subject"}

// Normaliser handles EML (email) documents.
type Normaliser struct{}

// New creates a new EML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"message/rfc822"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise converts an EML document to a Document.
// The content starts with the From, To, Date and Subject headers followed by
// the decoded body. Plain text parts are preferred over HTML.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse email: %v", domain.ErrInvalidInput, err)
	}

	body, err := extractBody(msg.Header, msg.Body)
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	for _, name := range headers {
		if value := decodeHeader(msg.Header.Get(name)); value != "" {
			content.WriteString(name)
			content.WriteString(": ")
			content.WriteString(value)
			content.WriteString("\n")
		}
	}
	content.WriteString("\n")
	content.WriteString(body)

	// Use subject as title, fall back to filename
	title := decodeHeader(msg.Header.Get("Subject"))
	if title == "" {
		title = plaintext.TitleFromURI(raw.URI)
	}

	return &domain.Document{
		URI:     raw.URI,
		Title:   title,
		Content: strings.TrimSpace(content.String()),
	}, nil
}

// decodeHeader decodes RFC 2047 encoded headers.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header // Return original if decoding fails
	}
	return decoded
}

// partHeader is the subset of header access shared by mail and multipart headers.
type partHeader interface {
	Get(key string) string
}

// extractBody extracts the text content of a message or part.
func extractBody(header partHeader, r io.Reader) (string, error) {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparseable content type, read as plain text
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return extractMultipartBody(r, params["boundary"])
	}

	body, err := io.ReadAll(decodeTransfer(header.Get("Content-Transfer-Encoding"), r))
	if err != nil {
		return "", fmt.Errorf("%w: read email body: %v", domain.ErrInvalidInput, err)
	}

	text := plaintext.CleanText(body)
	if mediaType == "text/html" {
		return stripHTMLTags(text), nil
	}
	return text, nil
}

// decodeTransfer wraps r with a decoder for the Content-Transfer-Encoding.
// The base64 decoder skips line breaks itself.
func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	default:
		return r
	}
}

// extractMultipartBody extracts text from multipart messages.
func extractMultipartBody(r io.Reader, boundary string) (string, error) {
	if boundary == "" {
		return "", nil
	}

	mr := multipart.NewReader(r, boundary)
	var textParts []string
	var htmlParts []string

	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}

		mediaType, _, parseErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if parseErr != nil {
			mediaType = "text/plain"
		}
		if strings.HasPrefix(part.Header.Get("Content-Disposition"), "attachment") {
			part.Close()
			continue
		}

		switch {
		case mediaType == "text/plain":
			if text, readErr := extractBody(part.Header, part); readErr == nil {
				textParts = append(textParts, text)
			}
		case mediaType == "text/html":
			if text, readErr := extractBody(part.Header, part); readErr == nil {
				htmlParts = append(htmlParts, text)
			}
		case strings.HasPrefix(mediaType, "multipart/"):
			if nested, nestedErr := extractBody(part.Header, part); nestedErr == nil && nested != "" {
				textParts = append(textParts, nested)
			}
		}
		part.Close()
	}

	// Prefer plain text over HTML
	if len(textParts) > 0 {
		return strings.Join(textParts, "\n"), nil
	}
	if len(htmlParts) > 0 {
		return strings.Join(htmlParts, "\n"), nil
	}

	return "", nil
}

// stripHTMLTags removes HTML tags for basic text extraction.
func stripHTMLTags(html string) string {
	var result strings.Builder
	inTag := false

	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}

	var cleaned []string
	for _, line := range strings.Split(result.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
