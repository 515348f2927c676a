package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/storage/vectormath"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// DatabaseFile is the name of the database inside the data directory.
const DatabaseFile = "ragdesk.db"

// Store is a unified SQLite-based storage that provides access to the
// document and vector stores through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ragdesk/data/ragdesk.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragdesk", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(); err != nil {
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

// VectorStore returns a VectorStore interface backed by this store.
// Closing the returned value does not close the database.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	pending, err := migrations.Up()
	if err != nil {
		return err
	}
	for _, m := range pending {
		if m.Version <= current {
			continue
		}
		if err := s.applyMigration(m.Version, m.SQL); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.Name, err)
		}
	}
	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = `id, organization_id, display_name, original_filename, unique_storage_name,
	storage_path, file_size_bytes, uploaded_at, status`

// InsertMany stores the records in one transaction under fresh UUIDs.
func (s *documentStore) InsertMany(ctx context.Context, docs []domain.DocumentRecord) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := uuid.New().String()
		status := doc.Status
		if status == "" {
			status = domain.StatusUploaded
		}
		if _, err := stmt.ExecContext(ctx, id, doc.OrganizationID, doc.DisplayName,
			doc.OriginalFilename, doc.UniqueStorageName, doc.StoragePath,
			doc.FileSizeBytes, formatTime(doc.UploadedAt), string(status)); err != nil {
			return nil, fmt.Errorf("inserting document %s: %w", doc.OriginalFilename, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return ids, nil
}

// Find returns matching records in insertion order.
func (s *documentStore) Find(ctx context.Context, filter domain.DocumentFilter) ([]domain.DocumentRecord, error) {
	where, args, err := documentWhere(filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE "+where+" ORDER BY rowid", args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentRecord //nolint:prealloc // size unknown from query
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

// Get retrieves a record by ID.
func (s *documentStore) Get(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// DeleteMany removes matching records.
func (s *documentStore) DeleteMany(ctx context.Context, filter domain.DocumentFilter) (int, error) {
	where, args, err := documentWhere(filter)
	if err != nil {
		return 0, err
	}

	res, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting documents: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted documents: %w", err)
	}
	return int(n), nil
}

// UpdateStatus sets the status of the given records.
func (s *documentStore) UpdateStatus(ctx context.Context, ids []string, status domain.DocumentStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: status %q", domain.ErrInvalidInput, status)
	}
	if len(ids) == 0 {
		return nil
	}

	in, args := inClause("id", ids)
	args = append([]any{string(status)}, args...)
	if _, err := s.store.db.ExecContext(ctx, "UPDATE documents SET status = ? WHERE "+in, args...); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return nil
}

// ValidID reports whether id is a UUID.
func (s *documentStore) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// documentWhere builds the WHERE clause for a document filter.
func documentWhere(filter domain.DocumentFilter) (string, []any, error) {
	if filter.IsEmpty() {
		return "", nil, fmt.Errorf("%w: empty document filter", domain.ErrInvalidInput)
	}

	var clauses []string
	var args []any
	if filter.OrganizationID != "" {
		clauses = append(clauses, "organization_id = ?")
		args = append(args, filter.OrganizationID)
	}
	if len(filter.IDs) > 0 {
		in, inArgs := inClause("id", filter.IDs)
		clauses = append(clauses, in)
		args = append(args, inArgs...)
	}
	if len(filter.StorageNames) > 0 {
		in, inArgs := inClause("unique_storage_name", filter.StorageNames)
		clauses = append(clauses, in)
		args = append(args, inArgs...)
	}
	return strings.Join(clauses, " AND "), args, nil
}

// ==================== Vector Store ====================

// vectorStore implements driven.VectorStore.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Upsert inserts or replaces records by ID.
func (s *vectorStore) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunk_vectors (id, org_id, document_id, content, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			org_id = excluded.org_id,
			document_id = excluded.document_id,
			content = excluded.content,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("%w: vector record without id", domain.ErrInvalidInput)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Metadata.OrganizationID(),
			rec.Metadata.DocumentID(), rec.Text, vectormath.Encode(rec.Embedding)); err != nil {
			return fmt.Errorf("saving vector: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query ranks the rows matching filter by cosine similarity to vector.
func (s *vectorStore) Query(ctx context.Context, vector []float32, k int, filter domain.MetadataFilter) ([]domain.VectorHit, error) {
	where, args, err := vectorWhere(filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx,
		"SELECT id, org_id, document_id, content, embedding FROM chunk_vectors WHERE "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	hits := make([]domain.VectorHit, 0)
	for rows.Next() {
		var id, orgID, documentID, content string
		var blob []byte
		if err := rows.Scan(&id, &orgID, &documentID, &content, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		score, err := vectormath.Cosine(vector, vectormath.Decode(blob))
		if err != nil {
			return nil, err
		}
		hits = append(hits, domain.VectorHit{
			ID:       id,
			Text:     content,
			Metadata: domain.NewVectorMetadata(orgID, documentID),
			Score:    score,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	return vectormath.TopK(hits, k), nil
}

// DeleteByFilter removes matching rows.
func (s *vectorStore) DeleteByFilter(ctx context.Context, filter domain.MetadataFilter) (int, error) {
	where, args, err := vectorWhere(filter)
	if err != nil {
		return 0, err
	}

	res, err := s.store.db.ExecContext(ctx, "DELETE FROM chunk_vectors WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting vectors: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted vectors: %w", err)
	}
	return int(n), nil
}

// Close is a no-op; the owning Store closes the database.
func (s *vectorStore) Close() error {
	return nil
}

func vectorWhere(filter domain.MetadataFilter) (string, []any, error) {
	if filter.IsEmpty() {
		return "", nil, domain.ErrUnscopedQuery
	}

	var clauses []string
	var args []any
	if filter.OrganizationID != "" {
		clauses = append(clauses, "org_id = ?")
		args = append(args, filter.OrganizationID)
	}
	if filter.DocumentID != "" {
		clauses = append(clauses, "document_id = ?")
		args = append(args, filter.DocumentID)
	}
	return strings.Join(clauses, " AND "), args, nil
}

// ==================== Helper Functions ====================

// inClause returns "col IN (?, ?, ...)" with one placeholder per value.
func inClause(col string, values []string) (string, []any) {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return col + " IN (" + placeholders + ")", args
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument scans one document from a *sql.Row or *sql.Rows.
func scanDocument(row rowScanner) (*domain.DocumentRecord, error) {
	var doc domain.DocumentRecord
	var uploadedAt, status string

	err := row.Scan(&doc.ID, &doc.OrganizationID, &doc.DisplayName, &doc.OriginalFilename,
		&doc.UniqueStorageName, &doc.StoragePath, &doc.FileSizeBytes, &uploadedAt, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.UploadedAt, err = time.Parse(time.RFC3339Nano, uploadedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing uploaded_at: %w", err)
	}
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}
