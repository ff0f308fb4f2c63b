package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-extract/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "sercha-extract-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// createTestDocument creates a document to satisfy foreign key constraints.
func createTestDocument(t *testing.T, store *Store, docID string) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	err := store.DocumentStore().SaveDocument(context.Background(), &domain.Document{
		ID:        docID,
		URI:       "file:///test/" + docID,
		Title:     "Test Document " + docID,
		Content:   "Tutar: 10",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
}

// createTestField creates a field definition with an extraction rule.
func createTestField(t *testing.T, store *Store, id, name string) *domain.FieldDefinition {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	field := &domain.FieldDefinition{
		ID:                id,
		Name:              name,
		DataType:          domain.DataTypeMonetary,
		ExtractionEnabled: true,
		ExtractionPattern: `TUTARI\s+([\d.,]+)`,
		ExtractionGroup:   1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, store.FieldStore().Save(context.Background(), field))
	return field
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "metadata.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "nested", "path", "to", "db")
	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	for _, table := range []string{"documents", "fields", "field_values"} {
		var exists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&exists)
		require.NoError(t, err)
		assert.Equal(t, 1, exists, "table %s should exist", table)
	}

	for _, column := range []string{"extraction_enabled", "extraction_pattern", "extraction_group"} {
		var exists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM pragma_table_info('fields') WHERE name = ?", column,
		).Scan(&exists)
		require.NoError(t, err)
		assert.Equal(t, 1, exists, "column %s should exist", column)
	}
}

func TestNewStore_ReopenSkipsApplied(t *testing.T) {
	tempDir := t.TempDir()

	first, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(tempDir)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var fkEnabled int
	err := store.db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled)
	require.NoError(t, err)
	assert.Equal(t, 1, fkEnabled, "foreign keys should be enabled")
}

func TestStore_Close(t *testing.T) {
	store, _ := setupTestStore(t)
	defer os.RemoveAll(filepath.Dir(store.Path()))

	assert.NoError(t, store.Close())
	assert.Error(t, store.db.Ping())
}

func TestStore_InterfaceGetters(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NotNil(t, store.DocumentStore())
	assert.NotNil(t, store.FieldStore())
	assert.NotNil(t, store.FieldValueStore())
}

// ==================== Migration Rollback Tests ====================

func TestStore_MigrateDown_RemovesExtractionColumns(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.MigrateDown(ctx, 1))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	var exists int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info('fields') WHERE name = 'extraction_pattern'",
	).Scan(&exists))
	assert.Equal(t, 0, exists)

	// Re-applying brings the columns back.
	require.NoError(t, store.migrate(migrations.FS))
	version, err = store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestStore_MigrateDown_ToZero(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.MigrateDown(ctx, 0))

	var exists int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='documents'",
	).Scan(&exists))
	assert.Equal(t, 0, exists)
}

func TestStore_MigrateDown_InvalidTarget(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.ErrorIs(t, store.MigrateDown(context.Background(), -1), domain.ErrInvalidInput)
}

func TestStore_Migrate_FailureIsAtomic(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	broken := fstest.MapFS{
		"003_broken.up.sql": {Data: []byte("CREATE TABLE extra (id TEXT); NOT VALID SQL;")},
	}
	err := store.migrate(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "003_broken.up.sql")

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	var exists int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='extra'",
	).Scan(&exists))
	assert.Equal(t, 0, exists)
}

// ==================== DocumentStore Tests ====================

func TestDocumentStore_SaveAndGetDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestDocument(t, store, "doc-1")

	doc, err := store.DocumentStore().GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "file:///test/doc-1", doc.URI)
	assert.Equal(t, "Tutar: 10", doc.Content)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestDocumentStore_SaveDocument_Update(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	createTestDocument(t, store, "doc-1")
	original, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)

	updated := *original
	updated.Content = "İŞLEM TUTARI 1.234,56 TL"
	updated.CreatedAt = time.Now().Add(time.Hour)
	updated.UpdatedAt = time.Now().UTC()
	require.NoError(t, docs.SaveDocument(ctx, &updated))

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "İŞLEM TUTARI 1.234,56 TL", got.Content)
	assert.True(t, original.CreatedAt.Equal(got.CreatedAt), "created_at must not change on update")
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListDocuments(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"doc-b", "doc-a", "doc-c"} {
		created := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, docs.SaveDocument(ctx, &domain.Document{ID: id, CreatedAt: created, UpdatedAt: created}))
	}

	list, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "doc-b", list[0].ID)
	assert.Equal(t, "doc-a", list[1].ID)
	assert.Equal(t, "doc-c", list[2].ID)
}

func TestDocumentStore_ListDocuments_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	list, err := store.DocumentStore().ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ==================== FieldStore Tests ====================

func TestFieldStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	fields := store.FieldStore()

	want := createTestField(t, store, "f-1", "Tutar")

	got, err := fields.Get(ctx, "f-1")
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, domain.DataTypeMonetary, got.DataType)
	assert.True(t, got.ExtractionEnabled)
	assert.Equal(t, want.ExtractionPattern, got.ExtractionPattern)
	assert.Equal(t, 1, got.ExtractionGroup)

	byName, err := fields.GetByName(ctx, "Tutar")
	require.NoError(t, err)
	assert.Equal(t, "f-1", byName.ID)
}

func TestFieldStore_Save_Defaults(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	// A field created before extraction was configured gets the column defaults.
	_, err := store.db.ExecContext(ctx, `
		INSERT INTO fields (id, name, data_type, created_at, updated_at)
		VALUES ('f-legacy', 'Legacy', 'string', ?, ?)
	`, time.Now().UTC(), time.Now().UTC())
	require.NoError(t, err)

	field, err := store.FieldStore().Get(ctx, "f-legacy")
	require.NoError(t, err)
	assert.False(t, field.ExtractionEnabled)
	assert.Empty(t, field.ExtractionPattern)
	assert.Equal(t, 1, field.ExtractionGroup)
	assert.False(t, field.HasExtraction())
}

func TestFieldStore_Save_Update(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	fields := store.FieldStore()

	field := createTestField(t, store, "f-1", "Tutar")
	field.ExtractionEnabled = false
	field.ExtractionPattern = ""
	field.ExtractionGroup = 2
	require.NoError(t, fields.Save(ctx, field))

	got, err := fields.Get(ctx, "f-1")
	require.NoError(t, err)
	assert.False(t, got.ExtractionEnabled)
	assert.Empty(t, got.ExtractionPattern)
	assert.Equal(t, 2, got.ExtractionGroup)
}

func TestFieldStore_Save_DuplicateName(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	createTestField(t, store, "f-1", "Tutar")
	err := store.FieldStore().Save(context.Background(), &domain.FieldDefinition{
		ID: "f-2", Name: "Tutar", DataType: domain.DataTypeString, ExtractionGroup: 1,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestFieldStore_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	fields := store.FieldStore()

	_, err := fields.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = fields.GetByName(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, fields.Delete(ctx, "missing"), domain.ErrNotFound)
}

func TestFieldStore_List(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	createTestField(t, store, "f-1", "Tutar")
	createTestField(t, store, "f-2", "Abone")

	list, err := store.FieldStore().List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Abone", list[0].Name)
	assert.Equal(t, "Tutar", list[1].Name)
}

func TestFieldStore_Delete_CascadesValues(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestDocument(t, store, "doc-1")
	createTestField(t, store, "f-1", "Tutar")
	_, err := store.FieldValueStore().Upsert(ctx, "doc-1", "f-1", domain.FloatValue(10))
	require.NoError(t, err)

	require.NoError(t, store.FieldStore().Delete(ctx, "f-1"))

	_, err = store.FieldValueStore().Get(ctx, "doc-1", "f-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== FieldValueStore Tests ====================

func TestFieldValueStore_Upsert_CreateThenUpdate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	values := store.FieldValueStore()

	createTestDocument(t, store, "doc-1")
	createTestField(t, store, "f-1", "Tutar")

	created, err := values.Upsert(ctx, "doc-1", "f-1", domain.FloatValue(1234.56))
	require.NoError(t, err)
	assert.True(t, created)

	first, err := values.Get(ctx, "doc-1", "f-1")
	require.NoError(t, err)
	assert.Equal(t, domain.FloatValue(1234.56), first.Value)

	created, err = values.Upsert(ctx, "doc-1", "f-1", domain.FloatValue(99.5))
	require.NoError(t, err)
	assert.False(t, created)

	second, err := values.Get(ctx, "doc-1", "f-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.FloatValue(99.5), second.Value)

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM field_values").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestFieldValueStore_ValueKindsRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	values := store.FieldValueStore()

	createTestDocument(t, store, "doc-1")

	kinds := map[string]domain.Value{
		"f-int":   domain.IntValue(-42),
		"f-float": domain.FloatValue(0.25),
		"f-bool":  domain.BoolValue(true),
		"f-text":  domain.TextValue("İŞLEM \"1\""),
	}
	for id, v := range kinds {
		createTestField(t, store, id, id)
		_, err := values.Upsert(ctx, "doc-1", id, v)
		require.NoError(t, err)
	}

	list, err := values.ListByDocument(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, list, len(kinds))
	for _, fv := range list {
		assert.Equal(t, kinds[fv.FieldID], fv.Value, "field %s", fv.FieldID)
	}
}

func TestFieldValueStore_Upsert_UnknownDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	createTestField(t, store, "f-1", "Tutar")
	_, err := store.FieldValueStore().Upsert(context.Background(), "missing", "f-1", domain.IntValue(1))
	assert.Error(t, err, "foreign key should reject unknown document")
}

func TestFieldValueStore_ConcurrentUpsertSameKey(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	values := store.FieldValueStore()

	createTestDocument(t, store, "doc-1")
	createTestField(t, store, "f-1", "Tutar")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := values.Upsert(ctx, "doc-1", "f-1", domain.IntValue(int64(n)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM field_values").Scan(&count))
	assert.Equal(t, 1, count)
}
