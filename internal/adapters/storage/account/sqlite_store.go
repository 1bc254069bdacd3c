package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/account"
)

const dateLayout = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const accountColumns = "id, email, password_hash, role, created_at, failed_logins, locked_until, password_change_required"

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the account or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM account WHERE id = ?", id)
	return scanAccount(row)
}

// GetByEmail retrieves an Account by email.
// PRE: email is non-empty
// POST: Returns the account or domain.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM account WHERE email = ?", email)
	return scanAccount(row)
}

// Save persists an Account (insert or update).
// PRE: a has been validated
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var lockedUntil any
	if !a.LockedUntil.IsZero() {
		lockedUntil = a.LockedUntil.UTC().Format(dateLayout)
	}
	changeRequired := 0
	if a.PasswordChangeRequired {
		changeRequired = 1
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO account (id, email, password_hash, role, created_at, failed_logins, locked_until, password_change_required)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET email=excluded.email, password_hash=excluded.password_hash,
		 role=excluded.role, failed_logins=excluded.failed_logins, locked_until=excluded.locked_until,
		 password_change_required=excluded.password_change_required`,
		a.ID, a.Email, a.PasswordHash, a.Role, a.CreatedAt.UTC().Format(dateLayout),
		a.FailedLogins, lockedUntil, changeRequired,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns all accounts.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+accountColumns+" FROM account ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Count returns the number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&n)
	return n, err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	a, err := scanAccountRow(row)
	if err == sql.ErrNoRows {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, err
}

func scanAccountRow(row scannable) (domain.Account, error) {
	var a domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	var changeRequired int
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &createdAt,
		&a.FailedLogins, &lockedUntil, &changeRequired)
	if err != nil {
		return domain.Account{}, err
	}
	if a.CreatedAt, err = time.Parse(dateLayout, createdAt); err != nil {
		return domain.Account{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if lockedUntil.Valid && lockedUntil.String != "" {
		if a.LockedUntil, err = time.Parse(dateLayout, lockedUntil.String); err != nil {
			return domain.Account{}, fmt.Errorf("failed to parse locked_until: %w", err)
		}
	}
	a.PasswordChangeRequired = changeRequired != 0
	return a, nil
}
