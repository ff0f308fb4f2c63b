package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
)

// Ensure NormaliserRegistry implements the interface.
var _ driven.NormaliserRegistry = (*NormaliserRegistry)(nil)

// fallbackMIMEType is tried when no normaliser claims a document's MIME type.
const fallbackMIMEType = "text/plain"

// NormaliserRegistry dispatches raw documents to the highest priority
// normaliser registered for their MIME type.
type NormaliserRegistry struct {
	mu          sync.RWMutex
	normalisers map[string][]driven.Normaliser
}

// NewNormaliserRegistry creates a registry holding the given normalisers.
func NewNormaliserRegistry(normalisers ...driven.Normaliser) *NormaliserRegistry {
	r := &NormaliserRegistry{
		normalisers: make(map[string][]driven.Normaliser),
	}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser for each of its MIME types.
func (r *NormaliserRegistry) Register(n driven.Normaliser) {
	if n == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mimeType := range n.SupportedMIMETypes() {
		key := strings.ToLower(mimeType)
		list := append(r.normalisers[key], n)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.normalisers[key] = list
	}
}

// SupportedMIMETypes returns all registered MIME types, sorted.
func (r *NormaliserRegistry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.normalisers))
	for t := range r.normalisers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Normalise converts raw using the best normaliser for its MIME type.
// Textual types without a dedicated normaliser fall back to text/plain.
func (r *NormaliserRegistry) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n := r.lookup(raw.MIMEType)
	if n == nil {
		return nil, fmt.Errorf("%w: no normaliser for %q", domain.ErrUnsupportedType, raw.MIMEType)
	}
	return n.Normalise(ctx, raw)
}

func (r *NormaliserRegistry) lookup(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(mimeType)
	if list := r.normalisers[key]; len(list) > 0 {
		return list[0]
	}
	if key == "" || strings.HasPrefix(key, "text/") {
		if list := r.normalisers[fallbackMIMEType]; len(list) > 0 {
			return list[0]
		}
	}
	return nil
}
