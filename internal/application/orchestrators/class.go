package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"dojo/internal/application/livequery"
	"dojo/internal/domain/class"
)

// ClassStore defines the class persistence interface used by the class
// orchestrators.
type ClassStore interface {
	GetByID(ctx context.Context, id string) (class.Class, error)
	Save(ctx context.Context, c class.Class) error
	DeleteCascade(ctx context.Context, id string) error
}

// ClassInput carries the fields of a one-off class.
type ClassInput struct {
	Name        string
	Description string
	StartsAt    time.Time
}

// ClassDeps holds dependencies for the class orchestrators.
type ClassDeps struct {
	ClassStore ClassStore
	Notifier   *livequery.Notifier
	GenerateID func() string // optional: defaults to uuid
}

// ExecuteCreateClass creates a one-off class not tied to any template.
// POST: Class persisted with an empty template id
func ExecuteCreateClass(ctx context.Context, input ClassInput, deps ClassDeps) (string, error) {
	c := class.Class{
		ID:          newID(deps.GenerateID),
		Name:        input.Name,
		Description: input.Description,
		StartsAt:    input.StartsAt,
	}
	if err := c.Validate(); err != nil {
		return "", err
	}

	if err := deps.ClassStore.Save(ctx, c); err != nil {
		return "", err
	}

	slog.Info("schedule_event", "event", "class_created", "class_id", c.ID, "name", c.Name)
	if deps.Notifier != nil {
		deps.Notifier.Bump(livequery.CollectionClasses)
	}
	return c.ID, nil
}

// ExecuteUpdateClass overwrites a single class. Updating a missing class
// is a hard failure, unlike deletion.
// PRE: id names an existing class
func ExecuteUpdateClass(ctx context.Context, id string, input ClassInput, deps ClassDeps) error {
	existing, err := deps.ClassStore.GetByID(ctx, id)
	if err != nil {
		return err
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.StartsAt = input.StartsAt
	if err := existing.Validate(); err != nil {
		return err
	}

	if err := deps.ClassStore.Save(ctx, existing); err != nil {
		return err
	}

	slog.Info("schedule_event", "event", "class_updated", "class_id", id)
	if deps.Notifier != nil {
		deps.Notifier.Bump(livequery.CollectionClasses)
	}
	return nil
}

// ExecuteCancelClass removes a single class and every check-in against it
// in one transaction. Sibling instances of the same template survive.
// Cancelling a missing class is a no-op.
// POST: No ledger contains the class id
func ExecuteCancelClass(ctx context.Context, id string, deps ClassDeps) error {
	if err := deps.ClassStore.DeleteCascade(ctx, id); err != nil {
		return err
	}

	slog.Info("schedule_event", "event", "class_cancelled", "class_id", id)
	if deps.Notifier != nil {
		deps.Notifier.Bump(livequery.CollectionClasses)
		deps.Notifier.Bump(livequery.CollectionCheckins)
	}
	return nil
}
