package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"dojo/internal/application/livequery"
	"dojo/internal/domain/class"
	"dojo/internal/domain/ledger"
)

// LedgerStore defines the check-in persistence interface used by the
// check-in orchestrators.
type LedgerStore interface {
	Get(ctx context.Context, userID string) (ledger.Ledger, error)
	CheckIn(ctx context.Context, userID, classID string, at time.Time) error
	Cancel(ctx context.Context, userID, classID string) error
}

// ClassLookupStore defines the class store interface needed to verify a
// class exists before recording attendance against it.
type ClassLookupStore interface {
	GetByID(ctx context.Context, id string) (class.Class, error)
}

// CheckInInput carries input for the check-in orchestrators.
type CheckInInput struct {
	UserID  string
	ClassID string
}

// CheckInDeps holds dependencies for the check-in orchestrators.
type CheckInDeps struct {
	LedgerStore LedgerStore
	ClassStore  ClassLookupStore
	Notifier    *livequery.Notifier
	Now         func() time.Time // optional: defaults to time.Now
}

func (d CheckInDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ExecuteCheckIn records the user's attendance for a class. Checking in
// twice is a no-op; the ledger is a set.
// PRE: UserID identifies an authenticated user
// POST: The user's ledger contains ClassID exactly once
func ExecuteCheckIn(ctx context.Context, input CheckInInput, deps CheckInDeps) error {
	if input.UserID == "" {
		return ledger.ErrUnauthenticated
	}

	c, err := deps.ClassStore.GetByID(ctx, input.ClassID)
	if err != nil {
		return err
	}

	if err := deps.LedgerStore.CheckIn(ctx, input.UserID, input.ClassID, deps.now()); err != nil {
		return err
	}

	slog.Info("checkin_event", "event", "checked_in", "user_id", input.UserID, "class_id", input.ClassID, "class_name", c.Name)
	if deps.Notifier != nil {
		deps.Notifier.Bump(livequery.CollectionCheckins)
	}
	return nil
}

// ExecuteCancelCheckIn removes the user's attendance for a class.
// Cancelling an absent check-in is a no-op.
// PRE: UserID identifies an authenticated user
// POST: The user's ledger does not contain ClassID
func ExecuteCancelCheckIn(ctx context.Context, input CheckInInput, deps CheckInDeps) error {
	if input.UserID == "" {
		return ledger.ErrUnauthenticated
	}

	if err := deps.LedgerStore.Cancel(ctx, input.UserID, input.ClassID); err != nil {
		return err
	}

	slog.Info("checkin_event", "event", "checkin_cancelled", "user_id", input.UserID, "class_id", input.ClassID)
	if deps.Notifier != nil {
		deps.Notifier.Bump(livequery.CollectionCheckins)
	}
	return nil
}
