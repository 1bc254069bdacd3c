package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/outbox"
)

const dateLayout = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new outbox store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const entryColumns = "id, action_type, payload, status, attempts, max_attempts, last_attempted_at, created_at, external_id, error_message"

// GetByID retrieves an Entry by its ID.
// POST: Returns the entry or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM outbox WHERE id = ?", id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return domain.Entry{}, domain.ErrNotFound
	}
	return e, err
}

// Save persists an Entry (insert or update).
// PRE: e has been validated
func (s *SQLiteStore) Save(ctx context.Context, e domain.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var lastAttempted any
	if !e.LastAttemptedAt.IsZero() {
		lastAttempted = e.LastAttemptedAt.UTC().Format(dateLayout)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO outbox (id, action_type, payload, status, attempts, max_attempts, last_attempted_at, created_at, external_id, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status=excluded.status, attempts=excluded.attempts,
		 last_attempted_at=excluded.last_attempted_at, external_id=excluded.external_id,
		 error_message=excluded.error_message`,
		e.ID, e.ActionType, e.Payload, e.Status, e.Attempts, e.MaxAttempts,
		lastAttempted, e.CreatedAt.UTC().Format(dateLayout), e.ExternalID, e.ErrorMessage,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// ListPending returns retryable entries oldest first. Terminal entries
// stay in the table for inspection but are never returned here.
func (s *SQLiteStore) ListPending(ctx context.Context, limit int) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM outbox
		 WHERE status IN (?, ?) AND attempts < max_attempts
		 ORDER BY created_at, id LIMIT ?`,
		domain.StatusPending, domain.StatusRetrying, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListFailed returns terminal entries, newest first. Covers both
// explicitly failed/abandoned entries and those out of attempts.
func (s *SQLiteStore) ListFailed(ctx context.Context, limit int) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM outbox
		 WHERE status IN (?, ?) OR (status = ? AND attempts >= max_attempts)
		 ORDER BY created_at DESC, id LIMIT ?`,
		domain.StatusFailed, domain.StatusAbandoned, domain.StatusRetrying, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (domain.Entry, error) {
	var e domain.Entry
	var lastAttempted sql.NullString
	var createdAt string
	err := row.Scan(&e.ID, &e.ActionType, &e.Payload, &e.Status, &e.Attempts,
		&e.MaxAttempts, &lastAttempted, &createdAt, &e.ExternalID, &e.ErrorMessage)
	if err != nil {
		return domain.Entry{}, err
	}
	if e.CreatedAt, err = time.Parse(dateLayout, createdAt); err != nil {
		return domain.Entry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if lastAttempted.Valid && lastAttempted.String != "" {
		if e.LastAttemptedAt, err = time.Parse(dateLayout, lastAttempted.String); err != nil {
			return domain.Entry{}, fmt.Errorf("failed to parse last_attempted_at: %w", err)
		}
	}
	return e, nil
}
