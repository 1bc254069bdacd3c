package ledger

import "testing"

// TestCheckIn_Idempotent verifies adding twice equals adding once.
func TestCheckIn_Idempotent(t *testing.T) {
	l := Ledger{UserID: "user-001"}
	if !l.CheckIn("class-001") {
		t.Fatal("first check-in should change the set")
	}
	if l.CheckIn("class-001") {
		t.Fatal("second check-in should be a no-op")
	}
	if len(l.ClassIDs) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(l.ClassIDs))
	}
}

// TestCancel_RoundTrip verifies cancel after check-in restores the
// pre-check-in state.
func TestCancel_RoundTrip(t *testing.T) {
	l := Ledger{UserID: "user-001", ClassIDs: []string{"class-001"}}
	l.CheckIn("class-002")
	if !l.Cancel("class-002") {
		t.Fatal("cancel of present id should change the set")
	}
	if len(l.ClassIDs) != 1 || l.ClassIDs[0] != "class-001" {
		t.Fatalf("expected pre-check-in state, got %v", l.ClassIDs)
	}
}

// TestCancel_Absent verifies removing an absent id is a no-op.
func TestCancel_Absent(t *testing.T) {
	l := Ledger{UserID: "user-001"}
	if l.Cancel("class-404") {
		t.Fatal("cancel of absent id should be a no-op")
	}
}

func TestContains(t *testing.T) {
	l := Ledger{ClassIDs: []string{"a", "b"}}
	if !l.Contains("a") || !l.Contains("b") {
		t.Error("expected a and b present")
	}
	if l.Contains("c") {
		t.Error("expected c absent")
	}
}
