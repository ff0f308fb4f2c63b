package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sercha-extract/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-extract/internal/logger"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.sercha-extract/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sercha-extract", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// FieldStore returns a FieldStore interface backed by this store.
func (s *Store) FieldStore() driven.FieldStore {
	return &fieldStore{store: s}
}

// FieldValueStore returns a FieldValueStore interface backed by this store.
func (s *Store) FieldValueStore() driven.FieldValueStore {
	return &fieldValueStore{store: s}
}

// ==================== Migrations ====================

type migration struct {
	version int
	name    string
}

// listMigrations returns migration files with the given suffix sorted by version.
func listMigrations(fsys fs.FS, suffix string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var out []migration
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		// "002_add_extraction_fields.up.sql" -> 2
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		out = append(out, migration{version: version, name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("getting current version: %w", err)
	}
	return version, nil
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	ctx := context.Background()
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	ups, err := listMigrations(fsys, ".up.sql")
	if err != nil {
		return err
	}

	for _, m := range ups {
		if m.version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, m.name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", m.name, err)
		}
		if err := s.execMigration(ctx, string(content),
			"INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.name, err)
		}
		logger.Debugw("applied migration", "name", m.name)
	}

	return nil
}

// MigrateDown rolls back applied migrations above target, newest first.
func (s *Store) MigrateDown(ctx context.Context, target int) error {
	return s.migrateDown(ctx, migrations.FS, target)
}

func (s *Store) migrateDown(ctx context.Context, fsys fs.FS, target int) error {
	if target < 0 {
		return fmt.Errorf("%w: target version %d", domain.ErrInvalidInput, target)
	}
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	downs, err := listMigrations(fsys, ".down.sql")
	if err != nil {
		return err
	}

	for i := len(downs) - 1; i >= 0; i-- {
		m := downs[i]
		if m.version > current || m.version <= target {
			continue
		}
		content, err := fs.ReadFile(fsys, m.name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", m.name, err)
		}
		if err := s.execMigration(ctx, string(content),
			"DELETE FROM schema_migrations WHERE version = ?", m.version); err != nil {
			return fmt.Errorf("reverting migration %s: %w", m.name, err)
		}
		logger.Debugw("reverted migration", "name", m.name)
	}
	return nil
}

// execMigration runs a migration script and its bookkeeping statement atomically.
func (s *Store) execMigration(ctx context.Context, script, record string, version int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, record, version); err != nil {
		return fmt.Errorf("recording version: %w", err)
	}
	return tx.Commit()
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, uri, title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uri = excluded.uri,
			title = excluded.title,
			content = excluded.content,
			updated_at = excluded.updated_at
	`, doc.ID, doc.URI, doc.Title, doc.Content, doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, uri, title, content, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// ListDocuments returns all documents ordered by creation time.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, uri, title, content, created_at, updated_at
		FROM documents
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// ==================== Field Store ====================

// fieldStore implements driven.FieldStore.
type fieldStore struct {
	store *Store
}

var _ driven.FieldStore = (*fieldStore)(nil)

const fieldColumns = `id, name, data_type, extraction_enabled, extraction_pattern, extraction_group, created_at, updated_at`

// Save stores or updates a field definition.
func (s *fieldStore) Save(ctx context.Context, field *domain.FieldDefinition) error {
	var pattern sql.NullString
	if field.ExtractionPattern != "" {
		pattern = sql.NullString{String: field.ExtractionPattern, Valid: true}
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO fields (`+fieldColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			data_type = excluded.data_type,
			extraction_enabled = excluded.extraction_enabled,
			extraction_pattern = excluded.extraction_pattern,
			extraction_group = excluded.extraction_group,
			updated_at = excluded.updated_at
	`, field.ID, field.Name, string(field.DataType), field.ExtractionEnabled, pattern,
		field.ExtractionGroup, field.CreatedAt, field.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("saving field: %w", err)
	}
	return nil
}

// Get retrieves a field definition by ID.
func (s *fieldStore) Get(ctx context.Context, id string) (*domain.FieldDefinition, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+fieldColumns+` FROM fields WHERE id = ?`, id)
	field, err := scanField(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return field, err
}

// GetByName retrieves a field definition by name.
func (s *fieldStore) GetByName(ctx context.Context, name string) (*domain.FieldDefinition, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+fieldColumns+` FROM fields WHERE name = ?`, name)
	field, err := scanField(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return field, err
}

// List returns all field definitions ordered by name.
func (s *fieldStore) List(ctx context.Context) ([]domain.FieldDefinition, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT `+fieldColumns+` FROM fields ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying fields: %w", err)
	}
	defer rows.Close()

	var fields []domain.FieldDefinition //nolint:prealloc // size unknown from query
	for rows.Next() {
		field, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, *field)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fields: %w", err)
	}
	return fields, nil
}

// Delete removes a field definition. Stored values go with it.
func (s *fieldStore) Delete(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM fields WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting field: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Field Value Store ====================

// fieldValueStore implements driven.FieldValueStore.
type fieldValueStore struct {
	store *Store
}

var _ driven.FieldValueStore = (*fieldValueStore)(nil)

// Upsert creates or replaces the value for (documentID, fieldID) in one statement.
// The candidate ID survives only on insert, which tells the two cases apart.
func (s *fieldValueStore) Upsert(ctx context.Context, documentID, fieldID string, value domain.Value) (bool, error) {
	payload, err := value.MarshalJSON()
	if err != nil {
		return false, fmt.Errorf("encoding value: %w", err)
	}

	candidate := uuid.New().String()
	now := time.Now().UTC()

	var id string
	err = s.store.db.QueryRowContext(ctx, `
		INSERT INTO field_values (id, document_id, field_id, value_kind, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id, field_id) DO UPDATE SET
			value_kind = excluded.value_kind,
			value = excluded.value,
			updated_at = excluded.updated_at
		RETURNING id
	`, candidate, documentID, fieldID, string(value.Kind), string(payload), now, now).Scan(&id)
	if err != nil {
		return false, fmt.Errorf("upserting field value: %w", err)
	}
	return id == candidate, nil
}

// Get retrieves the value for a pair.
func (s *fieldValueStore) Get(ctx context.Context, documentID, fieldID string) (*domain.FieldValue, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, field_id, value_kind, value, created_at, updated_at
		FROM field_values WHERE document_id = ? AND field_id = ?
	`, documentID, fieldID)

	fv, err := scanFieldValue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return fv, err
}

// ListByDocument returns all values stored for a document.
func (s *fieldValueStore) ListByDocument(ctx context.Context, documentID string) ([]domain.FieldValue, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, field_id, value_kind, value, created_at, updated_at
		FROM field_values WHERE document_id = ?
		ORDER BY created_at, id
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying field values: %w", err)
	}
	defer rows.Close()

	var values []domain.FieldValue //nolint:prealloc // size unknown from query
	for rows.Next() {
		fv, err := scanFieldValue(rows)
		if err != nil {
			return nil, err
		}
		values = append(values, *fv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating field values: %w", err)
	}
	return values, nil
}

// ==================== Helpers ====================

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.URI, &doc.Title, &doc.Content, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &doc, nil
}

func scanField(row scanner) (*domain.FieldDefinition, error) {
	var field domain.FieldDefinition
	var dataType string
	var pattern sql.NullString

	if err := row.Scan(&field.ID, &field.Name, &dataType, &field.ExtractionEnabled, &pattern,
		&field.ExtractionGroup, &field.CreatedAt, &field.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning field: %w", err)
	}

	field.DataType = domain.DataType(dataType)
	if pattern.Valid {
		field.ExtractionPattern = pattern.String
	}
	return &field, nil
}

func scanFieldValue(row scanner) (*domain.FieldValue, error) {
	var fv domain.FieldValue
	var kind, payload string

	if err := row.Scan(&fv.ID, &fv.DocumentID, &fv.FieldID, &kind, &payload, &fv.CreatedAt, &fv.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning field value: %w", err)
	}

	value, err := domain.DecodeValue(domain.ValueKind(kind), payload)
	if err != nil {
		return nil, err
	}
	fv.Value = value
	return &fv, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
