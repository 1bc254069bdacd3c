package class

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/class"
)

const dateLayout = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new class store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Class by its ID.
// PRE: id is non-empty
// POST: Returns the class or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Class, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, starts_at, template_id FROM class WHERE id = ?", id)

	var c domain.Class
	var startsAt string
	var templateID sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Description, &startsAt, &templateID)
	if err == sql.ErrNoRows {
		return domain.Class{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Class{}, err
	}
	if c.StartsAt, err = time.Parse(dateLayout, startsAt); err != nil {
		return domain.Class{}, fmt.Errorf("failed to parse starts_at: %w", err)
	}
	if templateID.Valid {
		c.TemplateID = templateID.String
	}
	return c, nil
}

// List returns all classes in chronological order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Class, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, starts_at, template_id FROM class ORDER BY starts_at, id")
	if err != nil {
		return nil, err
	}
	return collectClasses(rows)
}

// ListBetween returns classes whose start time falls inside the inclusive
// range. Timestamps are stored as fixed-width UTC RFC3339 strings, so the
// comparison is done on the stored text.
// PRE: start <= end
func (s *SQLiteStore) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Class, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, starts_at, template_id FROM class WHERE starts_at >= ? AND starts_at <= ? ORDER BY starts_at, id",
		start.UTC().Format(dateLayout), end.UTC().Format(dateLayout))
	if err != nil {
		return nil, err
	}
	return collectClasses(rows)
}

// Save persists a Class (insert or update). Used for manually created
// classes; template expansion writes through the template store instead.
// PRE: value has been validated
func (s *SQLiteStore) Save(ctx context.Context, value domain.Class) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var templateID any
	if value.TemplateID != "" {
		templateID = value.TemplateID
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO class (id, name, description, starts_at, template_id) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, description=excluded.description,
		 starts_at=excluded.starts_at, template_id=excluded.template_id`,
		value.ID, value.Name, value.Description, value.StartsAt.UTC().Format(dateLayout), templateID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteCascade removes the class and its ledger references in one
// transaction. The class's template and sibling instances are untouched.
// Missing classes are a no-op.
// POST: No ledger contains the class id
func (s *SQLiteStore) DeleteCascade(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_class WHERE class_id = ?", id); err != nil {
		return fmt.Errorf("scrub ledgers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM class WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return tx.Commit()
}

func collectClasses(rows *sql.Rows) ([]domain.Class, error) {
	defer rows.Close()

	var classes []domain.Class
	for rows.Next() {
		var c domain.Class
		var startsAt string
		var templateID sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &startsAt, &templateID); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(dateLayout, startsAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse starts_at: %w", err)
		}
		c.StartsAt = parsed
		if templateID.Valid {
			c.TemplateID = templateID.String
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}
