package notification

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	n := Notification{Title: "Gym closed Monday", Body: "**Public holiday** — no classes."}
	if err := n.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n.Title = " "
	if err := n.Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	n.Title = "ok"
	n.Body = ""
	if err := n.Validate(); !errors.Is(err, ErrEmptyBody) {
		t.Errorf("expected ErrEmptyBody, got %v", err)
	}
}

func TestIsBroadcast(t *testing.T) {
	n := Notification{Title: "t", Body: "b"}
	if !n.IsBroadcast() {
		t.Error("expected empty target to mean broadcast")
	}
	n.TargetUserID = "user-001"
	if n.IsBroadcast() {
		t.Error("expected targeted notification")
	}
}
