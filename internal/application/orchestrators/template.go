package orchestrators

import (
	"context"
	"log/slog"

	"dojo/internal/application/livequery"
	"dojo/internal/domain/class"
	"dojo/internal/domain/template"
)

// TemplateStore defines the template persistence interface used by the
// template orchestrators.
type TemplateStore interface {
	GetByID(ctx context.Context, id string) (template.Template, error)
	CreateWithInstances(ctx context.Context, t template.Template, classes []class.Class) error
	UpdateWithInstances(ctx context.Context, t template.Template, classes []class.Class) error
	DeleteCascade(ctx context.Context, id string) error
}

// TemplateInput carries the user-editable fields of a recurring template.
type TemplateInput struct {
	Name        string
	Description string
	Days        []string
	StartTime   string
	StartDate   string
	EndDate     string
}

// TemplateDeps holds dependencies for the template orchestrators.
type TemplateDeps struct {
	TemplateStore TemplateStore
	Notifier      *livequery.Notifier
	GenerateID    func() string // optional: defaults to uuid
}

func (d TemplateDeps) bump(collections ...string) {
	if d.Notifier == nil {
		return
	}
	for _, c := range collections {
		d.Notifier.Bump(c)
	}
}

// ExecuteCreateTemplate validates the template, expands it into concrete
// class instances and commits both in one transaction.
// PRE: Input fields come from an admin form
// POST: Template and every generated instance are persisted together
func ExecuteCreateTemplate(ctx context.Context, input TemplateInput, deps TemplateDeps) (string, error) {
	t := template.Template{
		ID:          newID(deps.GenerateID),
		Name:        input.Name,
		Description: input.Description,
		Days:        input.Days,
		StartTime:   input.StartTime,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	classes, err := template.Expand(t, func() string { return newID(deps.GenerateID) })
	if err != nil {
		return "", err
	}

	if err := deps.TemplateStore.CreateWithInstances(ctx, t, classes); err != nil {
		return "", err
	}

	slog.Info("schedule_event", "event", "template_created", "template_id", t.ID, "name", t.Name, "instances", len(classes))
	deps.bump(livequery.CollectionTemplates, livequery.CollectionClasses)
	return t.ID, nil
}

// ExecuteUpdateTemplate overwrites the template and regenerates its
// instance set from the new recurrence. Check-ins pointing at replaced
// instances are left alone; only full deletion scrubs them.
// PRE: ID names an existing template
// POST: Old instances replaced by the fresh expansion
func ExecuteUpdateTemplate(ctx context.Context, id string, input TemplateInput, deps TemplateDeps) error {
	t := template.Template{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Days:        input.Days,
		StartTime:   input.StartTime,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	classes, err := template.Expand(t, func() string { return newID(deps.GenerateID) })
	if err != nil {
		return err
	}

	if err := deps.TemplateStore.UpdateWithInstances(ctx, t, classes); err != nil {
		return err
	}

	slog.Info("schedule_event", "event", "template_updated", "template_id", id, "instances", len(classes))
	deps.bump(livequery.CollectionTemplates, livequery.CollectionClasses)
	return nil
}

// ExecuteDeleteTemplate removes the template, its instances and every
// check-in referencing them. Deleting a missing template is a no-op.
// POST: Nothing references the template id
func ExecuteDeleteTemplate(ctx context.Context, id string, deps TemplateDeps) error {
	if err := deps.TemplateStore.DeleteCascade(ctx, id); err != nil {
		return err
	}

	slog.Info("schedule_event", "event", "template_deleted", "template_id", id)
	deps.bump(livequery.CollectionTemplates, livequery.CollectionClasses, livequery.CollectionCheckins)
	return nil
}
