package ledger

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"dojo/internal/adapters/storage"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	return NewSQLiteStore(db)
}

var testAt = time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC)

func TestGet_UnknownUserIsEmpty(t *testing.T) {
	store := openTestStore(t)

	l, err := store.Get(context.Background(), "stranger")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(l.ClassIDs) != 0 {
		t.Errorf("expected empty ledger, got %v", l.ClassIDs)
	}
}

func TestCheckIn_IsIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.CheckIn(ctx, "user-1", "cls-1", testAt); err != nil {
			t.Fatalf("CheckIn %d failed: %v", i, err)
		}
	}

	l, err := store.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(l.ClassIDs) != 1 || l.ClassIDs[0] != "cls-1" {
		t.Errorf("expected single entry cls-1, got %v", l.ClassIDs)
	}
}

func TestCheckIn_ConcurrentRacersConverge(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// An in-memory database exists per connection, so the racing
	// goroutines must share one.
	db.SetMaxOpenConns(1)
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	store := NewSQLiteStore(db)
	ctx := context.Background()

	const racers = 8
	run := func(op func() error) {
		t.Helper()
		var wg sync.WaitGroup
		errs := make(chan error, racers)
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- op()
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("racing operation failed: %v", err)
			}
		}
	}

	// Simultaneous check-ins for the same pair must land as exactly one
	// checked-in row, with no error surfacing from the losers.
	run(func() error { return store.CheckIn(ctx, "user-1", "cls-1", testAt) })

	l, err := store.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(l.ClassIDs) != 1 || l.ClassIDs[0] != "cls-1" {
		t.Fatalf("expected exactly one cls-1 entry, got %v", l.ClassIDs)
	}

	// Simultaneous cancels converge the same way, on the empty set.
	run(func() error { return store.Cancel(ctx, "user-1", "cls-1") })

	l, err = store.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(l.ClassIDs) != 0 {
		t.Fatalf("expected empty ledger after racing cancels, got %v", l.ClassIDs)
	}
}

func TestCancel_RemovesEntry(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CheckIn(ctx, "user-1", "cls-1", testAt); err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if err := store.Cancel(ctx, "user-1", "cls-1"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	l, err := store.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(l.ClassIDs) != 0 {
		t.Errorf("expected empty ledger after cancel, got %v", l.ClassIDs)
	}
}

func TestCancel_AbsentPairIsNoop(t *testing.T) {
	store := openTestStore(t)

	if err := store.Cancel(context.Background(), "user-1", "never"); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}

func TestListAll_GroupsByUser(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	pairs := []struct{ user, class string }{
		{"user-1", "cls-1"},
		{"user-1", "cls-2"},
		{"user-2", "cls-1"},
	}
	for _, p := range pairs {
		if err := store.CheckIn(ctx, p.user, p.class, testAt); err != nil {
			t.Fatalf("CheckIn failed: %v", err)
		}
	}

	ledgers, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ledgers) != 2 {
		t.Fatalf("expected 2 ledgers, got %d", len(ledgers))
	}
	if ledgers[0].UserID != "user-1" || len(ledgers[0].ClassIDs) != 2 {
		t.Errorf("unexpected first ledger: %+v", ledgers[0])
	}
	if ledgers[1].UserID != "user-2" || len(ledgers[1].ClassIDs) != 1 {
		t.Errorf("unexpected second ledger: %+v", ledgers[1])
	}
}
