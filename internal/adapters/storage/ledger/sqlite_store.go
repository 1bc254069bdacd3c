package ledger

import (
	"context"
	"time"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/ledger"
)

const dateLayout = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ledger store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the user's ledger. No rows means an empty set — "no record"
// and "empty record" are the same state above the storage layer.
// PRE: userID is non-empty
func (s *SQLiteStore) Get(ctx context.Context, userID string) (domain.Ledger, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT class_id FROM user_class WHERE user_id = ? ORDER BY checked_in_at, class_id", userID)
	if err != nil {
		return domain.Ledger{}, err
	}
	defer rows.Close()

	l := domain.Ledger{UserID: userID}
	for rows.Next() {
		var classID string
		if err := rows.Scan(&classID); err != nil {
			return domain.Ledger{}, err
		}
		l.ClassIDs = append(l.ClassIDs, classID)
	}
	return l, rows.Err()
}

// ListAll returns every non-empty ledger.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Ledger, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, class_id FROM user_class ORDER BY user_id, class_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ledgers []domain.Ledger
	byUser := make(map[string]int)
	for rows.Next() {
		var userID, classID string
		if err := rows.Scan(&userID, &classID); err != nil {
			return nil, err
		}
		idx, ok := byUser[userID]
		if !ok {
			idx = len(ledgers)
			byUser[userID] = idx
			ledgers = append(ledgers, domain.Ledger{UserID: userID})
		}
		ledgers[idx].ClassIDs = append(ledgers[idx].ClassIDs, classID)
	}
	return ledgers, rows.Err()
}

// CheckIn adds a (user, class) row. The primary key makes the insert
// idempotent; racing check-ins converge on exactly one row.
// PRE: userID and classID are non-empty
// POST: The pair exists exactly once
func (s *SQLiteStore) CheckIn(ctx context.Context, userID, classID string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO user_class (user_id, class_id, checked_in_at) VALUES (?, ?, ?)",
		userID, classID, at.UTC().Format(dateLayout),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Cancel removes a (user, class) row. Removing an absent pair is a no-op.
// POST: The pair does not exist
func (s *SQLiteStore) Cancel(ctx context.Context, userID, classID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM user_class WHERE user_id = ? AND class_id = ?", userID, classID,
	); err != nil {
		return err
	}
	return tx.Commit()
}
