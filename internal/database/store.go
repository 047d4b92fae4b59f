package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// sqlxStore implements Store over the documents table using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by a connected, migrated sqlx.DB.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "document_store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get returns the value stored under key.
func (s *sqlxStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}

	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM documents WHERE doc_key = ?`, key)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "Document not found", "key", key)
		return nil, false, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while reading document", "key", key, "error", err)
		return nil, false, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error reading document", "key", key, "error", err)
		return nil, false, fmt.Errorf("failed to read document %q: %w", key, err)
	}

	s.logger.DebugContext(ctx, "Document read", "key", key, "bytes", len(value))
	return []byte(value), true, nil
}

// Put upserts the whole value under key inside a transaction.
func (s *sqlxStore) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	doc := Document{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for writing document", "key", key, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	query := `
        INSERT INTO documents (doc_key, value, updated_at)
        VALUES (:doc_key, :value, :updated_at)
        ON CONFLICT(doc_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;
    `
	if _, err := tx.NamedExecContext(ctx, query, doc); err != nil {
		s.logger.ErrorContext(ctx, "Error writing document", "key", key, "error", err)
		return fmt.Errorf("failed to write document %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "key", key, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Document written", "key", key, "bytes", len(value))
	return nil
}

// Delete removes key if present.
func (s *sqlxStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE doc_key = ?`, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting document", "key", key, "error", err)
		return fmt.Errorf("failed to delete document %q: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil {
		s.logger.DebugContext(ctx, "Document deleted", "key", key, "affected", n)
	}
	return nil
}

// Keys lists keys beginning with prefix.
func (s *sqlxStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var keys []string
	err := s.db.SelectContext(ctx, &keys,
		`SELECT doc_key FROM documents WHERE doc_key LIKE ? ESCAPE '\' ORDER BY doc_key`,
		escapeLike(prefix)+"%")
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing document keys", "prefix", prefix, "error", err)
		return nil, fmt.Errorf("failed to list document keys: %w", err)
	}

	s.logger.DebugContext(ctx, "Listed document keys", "prefix", prefix, "count", len(keys))
	return keys, nil
}

// RunSQLMaintenance executes VACUUM on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
