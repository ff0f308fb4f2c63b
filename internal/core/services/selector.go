package services

import (
	"sort"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// SelectFields returns the fields eligible for automatic extraction,
// ordered by name for reproducible logs.
func SelectFields(fields []domain.FieldDefinition) []domain.FieldDefinition {
	selected := make([]domain.FieldDefinition, 0, len(fields))
	for i := range fields {
		if fields[i].HasExtraction() {
			selected = append(selected, fields[i])
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Name < selected[j].Name
	})
	return selected
}
