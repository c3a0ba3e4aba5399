package drafts

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"quill/internal/config"
	"quill/internal/media"
	"quill/internal/submission"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("drafts schema version mismatch")

// ErrDraftNotFound reports a lookup for a draft id that does not exist.
var ErrDraftNotFound = errors.New("draft not found")

// Draft is one saved, unsubmitted post. Attachments holds the source paths
// queued per category; they are re-validated against the admission rules when
// the draft is resumed, so a file that vanished in the meantime surfaces then.
type Draft struct {
	ID          int64
	Fields      submission.Fields
	Attachments map[media.Category][]string
	PostID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store manages draft persistence backed by SQLite. Opening the store takes
// a file lock so two quill processes cannot write the same database.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the drafts database.
func Open(cfg *config.Config) (*Store, error) {
	dir := cfg.Paths.DraftsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create drafts directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, "drafts.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire drafts lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("drafts database at %s is in use by another quill process", dir)
	}

	dbPath := filepath.Join(dir, "drafts.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open drafts database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database and releases the directory lock.
func (s *Store) Close() error {
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
		s.db = nil
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && dbErr == nil {
			dbErr = fmt.Errorf("release drafts lock: %w", err)
		}
		s.lock = nil
	}
	return dbErr
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create drafts schema: %w", err)
		}
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Save inserts a new draft or updates an existing one (when draft.ID is
// non-zero) and returns the stored draft with timestamps applied.
func (s *Store) Save(ctx context.Context, draft Draft) (Draft, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	draft.UpdatedAt = now

	attachments, err := encodeAttachments(draft.Attachments)
	if err != nil {
		return Draft{}, fmt.Errorf("encode draft attachments: %w", err)
	}

	if draft.ID == 0 {
		draft.CreatedAt = now
		var result sql.Result
		err := retryOnBusy(ctx, func() error {
			var execErr error
			result, execErr = s.db.ExecContext(ctx,
				`INSERT INTO drafts (title, content, category_id, link, attachments, post_id, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				draft.Fields.Title, draft.Fields.Content, draft.Fields.CategoryID, draft.Fields.Link,
				attachments, draft.PostID, formatTime(draft.CreatedAt), formatTime(draft.UpdatedAt))
			return execErr
		})
		if err != nil {
			return Draft{}, fmt.Errorf("insert draft: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return Draft{}, fmt.Errorf("read draft id: %w", err)
		}
		draft.ID = id
		return draft, nil
	}

	var result sql.Result
	err = retryOnBusy(ctx, func() error {
		var execErr error
		result, execErr = s.db.ExecContext(ctx,
			`UPDATE drafts SET title = ?, content = ?, category_id = ?, link = ?, attachments = ?, post_id = ?, updated_at = ?
			 WHERE id = ?`,
			draft.Fields.Title, draft.Fields.Content, draft.Fields.CategoryID, draft.Fields.Link,
			attachments, draft.PostID, formatTime(draft.UpdatedAt), draft.ID)
		return execErr
	})
	if err != nil {
		return Draft{}, fmt.Errorf("update draft: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Draft{}, fmt.Errorf("check draft update: %w", err)
	}
	if affected == 0 {
		return Draft{}, fmt.Errorf("update draft %d: %w", draft.ID, ErrDraftNotFound)
	}
	stored, err := s.Get(ctx, draft.ID)
	if err != nil {
		return Draft{}, err
	}
	return *stored, nil
}

// Get returns one draft by id.
func (s *Store) Get(ctx context.Context, id int64) (*Draft, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, category_id, link, attachments, post_id, created_at, updated_at
		 FROM drafts WHERE id = ?`, id)
	draft, err := scanDraft(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get draft %d: %w", id, ErrDraftNotFound)
		}
		return nil, fmt.Errorf("get draft %d: %w", id, err)
	}
	return draft, nil
}

// List returns all drafts, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Draft, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, category_id, link, attachments, post_id, created_at, updated_at
		 FROM drafts ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		drafts = append(drafts, *draft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drafts: %w", err)
	}
	return drafts, nil
}

// Delete removes one draft by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	ctx = ensureContext(ctx)
	var result sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		result, execErr = s.db.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", id)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("delete draft %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check draft delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete draft %d: %w", id, ErrDraftNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (*Draft, error) {
	var (
		draft       Draft
		attachments string
		createdAt   string
		updatedAt   string
	)
	if err := row.Scan(&draft.ID, &draft.Fields.Title, &draft.Fields.Content,
		&draft.Fields.CategoryID, &draft.Fields.Link, &attachments, &draft.PostID,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if draft.Attachments, err = decodeAttachments(attachments); err != nil {
		return nil, fmt.Errorf("decode draft attachments: %w", err)
	}
	if draft.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if draft.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &draft, nil
}

func encodeAttachments(paths map[media.Category][]string) (string, error) {
	trimmed := make(map[media.Category][]string)
	for category, categoryPaths := range paths {
		if len(categoryPaths) > 0 {
			trimmed[category] = categoryPaths
		}
	}
	encoded, err := json.Marshal(trimmed)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeAttachments(encoded string) (map[media.Category][]string, error) {
	paths := make(map[media.Category][]string)
	if encoded == "" {
		return paths, nil
	}
	if err := json.Unmarshal([]byte(encoded), &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
