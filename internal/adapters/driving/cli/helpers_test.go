package cli

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-extract/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/services"
	"github.com/custodia-labs/sercha-extract/internal/normalisers/eml"
	"github.com/custodia-labs/sercha-extract/internal/normalisers/markdown"
	"github.com/custodia-labs/sercha-extract/internal/normalisers/pdf"
	"github.com/custodia-labs/sercha-extract/internal/normalisers/plaintext"
)

// testServices exposes the stores behind the services installed for a test.
type testServices struct {
	docs   *memory.DocumentStore
	fields *memory.FieldStore
	values *memory.FieldValueStore
	config *memory.ConfigStore
}

// setupTestServices installs memory-backed services and returns a cleanup
// func restoring the previous ones.
func setupTestServices() (*testServices, func()) {
	prev := Services{
		Field:      fieldService,
		Document:   documentService,
		Extraction: extractionService,
		Ingest:     ingestService,
		Settings:   settingsService,
		Migrator:   migrator,
		Metrics:    metricsHandler,
	}

	ts := &testServices{
		docs:   memory.NewDocumentStore(),
		values: memory.NewFieldValueStore(),
		config: memory.NewConfigStore(),
	}
	ts.fields = memory.NewFieldStore(ts.values)

	extraction := services.NewExtractionService(ts.fields, ts.values, services.WithDocumentStore(ts.docs))
	documents := services.NewDocumentService(ts.docs, extraction)
	registry := services.NewNormaliserRegistry(plaintext.New(), markdown.New(), eml.New(), pdf.New())

	SetServices(Services{
		Field:      services.NewFieldService(ts.fields),
		Document:   documents,
		Extraction: extraction,
		Ingest:     services.NewIngestService(registry, documents),
		Settings:   services.NewSettingsService(ts.config),
		Migrator:   &stubMigrator{version: 2},
		Metrics:    http.NotFoundHandler(),
	})

	return ts, func() { SetServices(prev) }
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	return executeCommandContext(context.Background(), args...)
}

// executeCommandContext runs the root command with ctx.
// Cobra keeps flag values and contexts between Execute calls, so both are
// reset on every command first.
func executeCommandContext(ctx context.Context, args ...string) (string, error) {
	resetCommand(ctx, rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetCommand(ctx context.Context, cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		resetCommand(ctx, sub)
	}
}

// addField creates a field through the installed field service.
func addField(t *testing.T, field domain.FieldDefinition) *domain.FieldDefinition {
	t.Helper()
	created, err := fieldService.Create(context.Background(), field)
	require.NoError(t, err)
	return created
}

// addDocument stores a document and runs extraction on it.
func addDocument(t *testing.T, doc domain.Document) *domain.Document {
	t.Helper()
	require.NoError(t, documentService.Ingest(context.Background(), &doc))
	return &doc
}

type stubMigrator struct {
	version int
	err     error
}

func (m *stubMigrator) SchemaVersion(_ context.Context) (int, error) {
	return m.version, m.err
}

func (m *stubMigrator) MigrateDown(_ context.Context, target int) error {
	if m.err != nil {
		return m.err
	}
	m.version = target
	return nil
}
