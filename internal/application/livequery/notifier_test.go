package livequery

import (
	"context"
	"testing"
	"time"
)

func TestVersion_StartsAtZero(t *testing.T) {
	n := NewNotifier()
	if v := n.Version("classes"); v != 0 {
		t.Errorf("expected version 0, got %d", v)
	}
}

func TestBump_AdvancesVersion(t *testing.T) {
	n := NewNotifier()
	n.Bump("classes")
	n.Bump("classes")
	if v := n.Version("classes"); v != 2 {
		t.Errorf("expected version 2, got %d", v)
	}
	if v := n.Version("templates"); v != 0 {
		t.Errorf("bump must not leak across collections, got %d", v)
	}
}

func TestWait_ReturnsImmediatelyWhenBehind(t *testing.T) {
	n := NewNotifier()
	n.Bump("classes")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	v, err := n.Wait(ctx, "classes", 0)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if v != 1 {
		t.Errorf("expected version 1, got %d", v)
	}
}

func TestWait_WakesOnBump(t *testing.T) {
	n := NewNotifier()

	done := make(chan uint64, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		v, err := n.Wait(ctx, "classes", 0)
		if err != nil {
			t.Errorf("Wait failed: %v", err)
		}
		done <- v
	}()

	time.Sleep(10 * time.Millisecond)
	n.Bump("classes")

	select {
	case v := <-done:
		if v != 1 {
			t.Errorf("expected version 1, got %d", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("waiter was never woken")
	}
}

func TestWait_TimesOutWithoutChange(t *testing.T) {
	n := NewNotifier()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	v, err := n.Wait(ctx, "classes", 0)
	if err == nil {
		t.Fatal("expected context error")
	}
	if v != 0 {
		t.Errorf("expected version 0 on timeout, got %d", v)
	}
}
