package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/notification"
)

const dateLayout = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new notification store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Notification by its ID.
// POST: Returns the notification or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Notification, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, body, target_user_id, created_at FROM notification WHERE id = ?", id)
	n, err := scanNotification(row)
	if err == sql.ErrNoRows {
		return domain.Notification{}, domain.ErrNotFound
	}
	return n, err
}

// Save persists a Notification (insert or update).
// PRE: n has been validated
func (s *SQLiteStore) Save(ctx context.Context, n domain.Notification) error {
	var target any
	if n.TargetUserID != "" {
		target = n.TargetUserID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification (id, title, body, target_user_id, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title=excluded.title, body=excluded.body,
		 target_user_id=excluded.target_user_id`,
		n.ID, n.Title, n.Body, target, n.CreatedAt.UTC().Format(dateLayout))
	return err
}

// List returns all notifications, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, body, target_user_id, created_at FROM notification ORDER BY created_at DESC, id")
	if err != nil {
		return nil, err
	}
	return collectNotifications(rows)
}

// ListForUser returns broadcasts plus notifications targeted at the
// user, newest first.
func (s *SQLiteStore) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body, target_user_id, created_at FROM notification
		 WHERE target_user_id IS NULL OR target_user_id = ?
		 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	return collectNotifications(rows)
}

// Delete removes a notification. Missing ids are a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM notification WHERE id = ?", id)
	return err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanNotification(row scannable) (domain.Notification, error) {
	var n domain.Notification
	var target sql.NullString
	var createdAt string
	err := row.Scan(&n.ID, &n.Title, &n.Body, &target, &createdAt)
	if err != nil {
		return domain.Notification{}, err
	}
	if n.CreatedAt, err = time.Parse(dateLayout, createdAt); err != nil {
		return domain.Notification{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if target.Valid {
		n.TargetUserID = target.String
	}
	return n, nil
}

func collectNotifications(rows *sql.Rows) ([]domain.Notification, error) {
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
