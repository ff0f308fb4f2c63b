package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-extract/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	configDir := t.TempDir()

	cfg, err := file.NewConfigStore(configDir)
	require.NoError(t, err)
	require.NoError(t, cfg.Set("storage.data_dir", filepath.Join(t.TempDir(), "data")))

	a, err := newApp(configDir)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNewApp_WiresServices(t *testing.T) {
	a := newTestApp(t)

	s := a.services
	assert.NotNil(t, s.Field)
	assert.NotNil(t, s.Document)
	assert.NotNil(t, s.Extraction)
	assert.NotNil(t, s.Ingest)
	assert.NotNil(t, s.Settings)
	assert.NotNil(t, s.Migrator)
	assert.NotNil(t, s.Metrics)
}

func TestNewApp_EndToEnd(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	s := a.services

	_, err := s.Field.Create(ctx, domain.FieldDefinition{
		Name:              "Tutar",
		DataType:          domain.DataTypeMonetary,
		ExtractionEnabled: true,
		ExtractionPattern: `İŞLEM TUTARI:?\s*([\d.,]+)`,
	})
	require.NoError(t, err)

	doc, err := s.Ingest.IngestRaw(ctx, &domain.RawDocument{
		URI:      "file:///tmp/dekont.txt",
		MIMEType: "text/plain",
		Content:  []byte("İŞLEM TUTARI: 1.234,56 TL"),
	})
	require.NoError(t, err)

	values, err := s.Extraction.Values(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FloatValue(1234.56), values["Tutar"])

	version, err := s.Migrator.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Positive(t, version)

	rec := httptest.NewRecorder()
	s.Metrics.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sercha_extract_")
}

func TestNewApp_InvalidDataDir(t *testing.T) {
	configDir := t.TempDir()
	cfg, err := file.NewConfigStore(configDir)
	require.NoError(t, err)

	// A regular file cannot hold the database directory.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, cfg.Set("storage.data_dir", blocker))
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err = newApp(configDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening store")
}

func TestRunMain_ExitsOnError(t *testing.T) {
	t.Setenv(configDirEnv, "/dev/null/config")

	code := -1
	runMain(func(c int) { code = c })
	assert.Equal(t, 1, code)
}
