package profile

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/profile"
)

const dateLayout = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new profile store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Profile by user ID.
// PRE: userID is non-empty
// POST: Returns the profile or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, userID string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT user_id, name, email, push_token, created_at FROM profile WHERE user_id = ?", userID)

	var p domain.Profile
	var createdAt string
	err := row.Scan(&p.UserID, &p.Name, &p.Email, &p.PushToken, &createdAt)
	if err == sql.ErrNoRows {
		return domain.Profile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}
	if p.CreatedAt, err = time.Parse(dateLayout, createdAt); err != nil {
		return domain.Profile{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return p, nil
}

// Save persists a Profile (insert or update).
// PRE: p has been validated
func (s *SQLiteStore) Save(ctx context.Context, p domain.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profile (user_id, name, email, push_token, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET name=excluded.name, email=excluded.email,
		 push_token=excluded.push_token`,
		p.UserID, p.Name, p.Email, p.PushToken, p.CreatedAt.UTC().Format(dateLayout),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns all profiles ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, name, email, push_token, created_at FROM profile ORDER BY name, user_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		var createdAt string
		if err := rows.Scan(&p.UserID, &p.Name, &p.Email, &p.PushToken, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(dateLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		p.CreatedAt = parsed
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// ListPushTokens returns every registered device token, deduplicated.
func (s *SQLiteStore) ListPushTokens(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT push_token FROM profile WHERE push_token != '' ORDER BY push_token")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// DeleteCascade removes every trace of the user in one transaction:
// check-in rows, membership assignment, profile and account. Missing
// rows are a no-op so the operation is idempotent.
// POST: No table references userID
func (s *SQLiteStore) DeleteCascade(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_class WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("scrub ledgers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM membership_assignment WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM profile WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM account WHERE id = ?", userID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return tx.Commit()
}
