package membership

import (
	"context"
	"database/sql"
	"fmt"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/membership"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new membership store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetPlan retrieves a Plan by its ID.
// POST: Returns the plan or domain.ErrPlanNotFound
func (s *SQLiteStore) GetPlan(ctx context.Context, id string) (domain.Plan, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name FROM membership_plan WHERE id = ?", id)

	var p domain.Plan
	err := row.Scan(&p.ID, &p.Name)
	if err == sql.ErrNoRows {
		return domain.Plan{}, domain.ErrPlanNotFound
	}
	return p, err
}

// ListPlans returns all plans ordered by name.
func (s *SQLiteStore) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM membership_plan ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// SavePlan persists a Plan (insert or update).
// PRE: p has been validated
func (s *SQLiteStore) SavePlan(ctx context.Context, p domain.Plan) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO membership_plan (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name`,
		p.ID, p.Name)
	return err
}

// DeletePlan removes a plan and every assignment pointing at it in one
// transaction; affected users fall back to the no-membership state.
// POST: No assignment references the plan
func (s *SQLiteStore) DeletePlan(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM membership_assignment WHERE plan_id = ?", id); err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM membership_plan WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return tx.Commit()
}

// GetAssignment returns the user's plan id. A missing row is the
// no-membership state, not an error.
func (s *SQLiteStore) GetAssignment(ctx context.Context, userID string) (string, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT plan_id FROM membership_assignment WHERE user_id = ?", userID)

	var planID string
	err := row.Scan(&planID)
	if err == sql.ErrNoRows {
		return domain.NoMembership, nil
	}
	if err != nil {
		return "", err
	}
	return planID, nil
}

// ListAssignments returns all assignment rows.
func (s *SQLiteStore) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, plan_id FROM membership_assignment ORDER BY user_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.UserID, &a.PlanID); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// Assign sets the user's plan. The no-membership sentinel is never
// stored; assigning it deletes the row.
// POST: GetAssignment(userID) returns planID
func (s *SQLiteStore) Assign(ctx context.Context, userID, planID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if planID == domain.NoMembership {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM membership_assignment WHERE user_id = ?", userID); err != nil {
			return err
		}
		return tx.Commit()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO membership_assignment (user_id, plan_id) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET plan_id=excluded.plan_id`,
		userID, planID); err != nil {
		return err
	}
	return tx.Commit()
}
