package template

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"dojo/internal/adapters/storage"
	"dojo/internal/domain/class"
	domain "dojo/internal/domain/template"
)

func openTestStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	return NewSQLiteStore(db), db
}

func sampleTemplate() domain.Template {
	return domain.Template{
		ID:          "tpl-1",
		Name:        "Adults BJJ",
		Description: "Gi fundamentals",
		Days:        []string{"monday", "wednesday"},
		StartTime:   "18:30",
		StartDate:   "2024-01-01",
		EndDate:     "2024-01-07",
	}
}

func sampleInstances() []class.Class {
	return []class.Class{
		{ID: "cls-1", Name: "Adults BJJ", Description: "Gi fundamentals",
			StartsAt: time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC), TemplateID: "tpl-1"},
		{ID: "cls-2", Name: "Adults BJJ", Description: "Gi fundamentals",
			StartsAt: time.Date(2024, 1, 3, 18, 30, 0, 0, time.UTC), TemplateID: "tpl-1"},
	}
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}

func TestCreateWithInstances_RoundTrip(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateWithInstances(ctx, sampleTemplate(), sampleInstances()); err != nil {
		t.Fatalf("CreateWithInstances failed: %v", err)
	}

	got, err := store.GetByID(ctx, "tpl-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Adults BJJ" || got.StartTime != "18:30" {
		t.Errorf("unexpected template: %+v", got)
	}
	if len(got.Days) != 2 || got.Days[0] != "monday" || got.Days[1] != "wednesday" {
		t.Errorf("unexpected days: %v", got.Days)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM class WHERE template_id = ?", "tpl-1"); n != 2 {
		t.Errorf("expected 2 instances, got %d", n)
	}
}

func TestUpdateWithInstances_ReplacesInstanceSet(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateWithInstances(ctx, sampleTemplate(), sampleInstances()); err != nil {
		t.Fatalf("CreateWithInstances failed: %v", err)
	}

	updated := sampleTemplate()
	updated.Name = "Adults BJJ (No-Gi)"
	updated.Days = []string{"friday"}
	fresh := []class.Class{
		{ID: "cls-3", Name: "Adults BJJ (No-Gi)", Description: "Gi fundamentals",
			StartsAt: time.Date(2024, 1, 5, 18, 30, 0, 0, time.UTC), TemplateID: "tpl-1"},
	}
	if err := store.UpdateWithInstances(ctx, updated, fresh); err != nil {
		t.Fatalf("UpdateWithInstances failed: %v", err)
	}

	got, err := store.GetByID(ctx, "tpl-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Adults BJJ (No-Gi)" {
		t.Errorf("expected updated name, got %q", got.Name)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM class WHERE template_id = ?", "tpl-1"); n != 1 {
		t.Errorf("expected 1 instance after regenerate, got %d", n)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM class WHERE id = ?", "cls-1"); n != 0 {
		t.Errorf("old instance cls-1 should be gone")
	}
}

func TestUpdateWithInstances_MissingTemplate(t *testing.T) {
	store, _ := openTestStore(t)

	err := store.UpdateWithInstances(context.Background(), sampleTemplate(), nil)
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCascade_ScrubsInstancesAndLedgers(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateWithInstances(ctx, sampleTemplate(), sampleInstances()); err != nil {
		t.Fatalf("CreateWithInstances failed: %v", err)
	}
	// Check a user into one generated instance, plus an unrelated class.
	if _, err := db.Exec(
		"INSERT INTO class (id, name, description, starts_at) VALUES ('other', 'Open Mat', '', '2024-01-06T10:00:00Z')"); err != nil {
		t.Fatalf("insert unrelated class: %v", err)
	}
	for _, classID := range []string{"cls-1", "other"} {
		if _, err := db.Exec(
			"INSERT INTO user_class (user_id, class_id, checked_in_at) VALUES ('user-1', ?, '2024-01-01T00:00:00Z')",
			classID); err != nil {
			t.Fatalf("insert check-in: %v", err)
		}
	}

	if err := store.DeleteCascade(ctx, "tpl-1"); err != nil {
		t.Fatalf("DeleteCascade failed: %v", err)
	}

	if _, err := store.GetByID(ctx, "tpl-1"); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM class WHERE template_id = ?", "tpl-1"); n != 0 {
		t.Errorf("expected no instances after cascade, got %d", n)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM user_class WHERE class_id = ?", "cls-1"); n != 0 {
		t.Errorf("ledger entry for generated instance should be scrubbed")
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM user_class WHERE class_id = ?", "other"); n != 1 {
		t.Errorf("ledger entry for unrelated class should survive")
	}
}

func TestDeleteCascade_MissingTemplateIsNoop(t *testing.T) {
	store, _ := openTestStore(t)

	if err := store.DeleteCascade(context.Background(), "nope"); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}
