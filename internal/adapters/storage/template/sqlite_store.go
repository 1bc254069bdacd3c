package template

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dojo/internal/adapters/storage"
	"dojo/internal/domain/class"
	domain "dojo/internal/domain/template"
)

const dateLayout = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new template store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Template by its ID.
// PRE: id is non-empty
// POST: Returns the template or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Template, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, days, start_time, start_date, end_date FROM class_template WHERE id = ?", id)
	return scanTemplate(row)
}

// List returns all templates ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, days, start_time, start_date, end_date FROM class_template ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.Template
	for rows.Next() {
		var t domain.Template
		var days string
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &days, &t.StartTime, &t.StartDate, &t.EndDate); err != nil {
			return nil, err
		}
		t.Days = splitDays(days)
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// CreateWithInstances inserts the template row and all generated class
// rows in one transaction.
// PRE: t has been validated, classes came from expanding t
// POST: Template and instances are committed together, or neither is
func (s *SQLiteStore) CreateWithInstances(ctx context.Context, t domain.Template, classes []class.Class) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO class_template (id, name, description, days, start_time, start_date, end_date) VALUES (?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.Name, t.Description, joinDays(t.Days), t.StartTime, t.StartDate, t.EndDate,
	); err != nil {
		return fmt.Errorf("insert template: %w", err)
	}

	if err := insertClasses(ctx, tx, classes); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateWithInstances overwrites the template and regenerates its
// instances. Delete-and-regenerate: existing instances for the template
// are removed, the fresh expansion inserted. Ledger entries pointing at
// the removed instances are intentionally left alone (scrubbed only on
// full template deletion).
// PRE: t has been validated and t.ID exists
// POST: Template fields and instance set replaced atomically
func (s *SQLiteStore) UpdateWithInstances(ctx context.Context, t domain.Template, classes []class.Class) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE class_template SET name = ?, description = ?, days = ?, start_time = ?, start_date = ?, end_date = ? WHERE id = ?",
		t.Name, t.Description, joinDays(t.Days), t.StartTime, t.StartDate, t.EndDate, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM class WHERE template_id = ?", t.ID); err != nil {
		return fmt.Errorf("delete old instances: %w", err)
	}
	if err := insertClasses(ctx, tx, classes); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteCascade removes the template, every instance generated from it,
// and every ledger entry referencing those instances in one transaction.
// Deleting a missing template is a no-op.
// POST: No class references the template id and no ledger contains an id
// generated by it
func (s *SQLiteStore) DeleteCascade(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM user_class WHERE class_id IN (SELECT id FROM class WHERE template_id = ?)", id,
	); err != nil {
		return fmt.Errorf("scrub ledgers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM class WHERE template_id = ?", id); err != nil {
		return fmt.Errorf("delete instances: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM class_template WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return tx.Commit()
}

func insertClasses(ctx context.Context, tx *sql.Tx, classes []class.Class) error {
	for _, c := range classes {
		var templateID any
		if c.TemplateID != "" {
			templateID = c.TemplateID
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO class (id, name, description, starts_at, template_id) VALUES (?, ?, ?, ?, ?)",
			c.ID, c.Name, c.Description, c.StartsAt.UTC().Format(dateLayout), templateID,
		); err != nil {
			return fmt.Errorf("insert instance %s: %w", c.ID, err)
		}
	}
	return nil
}

func scanTemplate(row *sql.Row) (domain.Template, error) {
	var t domain.Template
	var days string
	err := row.Scan(&t.ID, &t.Name, &t.Description, &days, &t.StartTime, &t.StartDate, &t.EndDate)
	if err == sql.ErrNoRows {
		return domain.Template{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Template{}, err
	}
	t.Days = splitDays(days)
	return t, nil
}

func joinDays(days []string) string {
	return strings.Join(days, ",")
}

func splitDays(days string) []string {
	if days == "" {
		return nil
	}
	return strings.Split(days, ",")
}
