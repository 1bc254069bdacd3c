package orchestrators

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dojo/internal/domain/class"
	"dojo/internal/domain/template"
)

var fixedTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// seqID returns a generator producing id-1, id-2, ...
func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// mockTemplateStore implements TemplateStore for testing.
type mockTemplateStore struct {
	templates map[string]template.Template
	instances map[string][]class.Class // template id -> generated classes
	deleted   []string
}

func newMockTemplateStore() *mockTemplateStore {
	return &mockTemplateStore{
		templates: make(map[string]template.Template),
		instances: make(map[string][]class.Class),
	}
}

func (m *mockTemplateStore) GetByID(_ context.Context, id string) (template.Template, error) {
	t, ok := m.templates[id]
	if !ok {
		return template.Template{}, template.ErrNotFound
	}
	return t, nil
}

func (m *mockTemplateStore) CreateWithInstances(_ context.Context, t template.Template, classes []class.Class) error {
	m.templates[t.ID] = t
	m.instances[t.ID] = classes
	return nil
}

func (m *mockTemplateStore) UpdateWithInstances(_ context.Context, t template.Template, classes []class.Class) error {
	if _, ok := m.templates[t.ID]; !ok {
		return template.ErrNotFound
	}
	m.templates[t.ID] = t
	m.instances[t.ID] = classes
	return nil
}

func (m *mockTemplateStore) DeleteCascade(_ context.Context, id string) error {
	delete(m.templates, id)
	delete(m.instances, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func validTemplateInput() TemplateInput {
	return TemplateInput{
		Name:        "Adults BJJ",
		Description: "Gi fundamentals",
		Days:        []string{"monday", "wednesday"},
		StartTime:   "18:30",
		StartDate:   "2024-01-01",
		EndDate:     "2024-01-14",
	}
}

func TestExecuteCreateTemplate_ExpandsInstances(t *testing.T) {
	store := newMockTemplateStore()
	id, err := ExecuteCreateTemplate(context.Background(), validTemplateInput(), TemplateDeps{
		TemplateStore: store,
		GenerateID:    seqID(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "id-1" {
		t.Errorf("expected template id id-1, got %s", id)
	}

	// Mon+Wed over two full weeks gives four instances.
	classes := store.instances[id]
	if len(classes) != 4 {
		t.Fatalf("expected 4 instances, got %d", len(classes))
	}
	for _, c := range classes {
		if c.TemplateID != id {
			t.Errorf("instance %s not linked to template", c.ID)
		}
		if c.Name != "Adults BJJ" {
			t.Errorf("instance inherits template name, got %q", c.Name)
		}
		if c.StartsAt.Hour() != 18 || c.StartsAt.Minute() != 30 {
			t.Errorf("instance at wrong time: %v", c.StartsAt)
		}
	}
}

func TestExecuteCreateTemplate_InvalidInput(t *testing.T) {
	store := newMockTemplateStore()
	input := validTemplateInput()
	input.Days = nil

	_, err := ExecuteCreateTemplate(context.Background(), input, TemplateDeps{TemplateStore: store})
	if err != template.ErrNoDays {
		t.Errorf("expected ErrNoDays, got %v", err)
	}
	if len(store.templates) != 0 {
		t.Error("nothing should be persisted on validation failure")
	}
}

func TestExecuteUpdateTemplate_RegeneratesInstances(t *testing.T) {
	store := newMockTemplateStore()
	id, err := ExecuteCreateTemplate(context.Background(), validTemplateInput(), TemplateDeps{
		TemplateStore: store,
		GenerateID:    seqID(),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	input := validTemplateInput()
	input.Days = []string{"friday"}
	if err := ExecuteUpdateTemplate(context.Background(), id, input, TemplateDeps{
		TemplateStore: store,
		GenerateID:    seqID(),
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// Two Fridays in Jan 1-14 2024.
	if got := len(store.instances[id]); got != 2 {
		t.Errorf("expected 2 regenerated instances, got %d", got)
	}
}

func TestExecuteUpdateTemplate_MissingIsHardFailure(t *testing.T) {
	store := newMockTemplateStore()
	err := ExecuteUpdateTemplate(context.Background(), "nope", validTemplateInput(), TemplateDeps{
		TemplateStore: store,
	})
	if err != template.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExecuteDeleteTemplate_MissingIsNoop(t *testing.T) {
	store := newMockTemplateStore()
	if err := ExecuteDeleteTemplate(context.Background(), "nope", TemplateDeps{TemplateStore: store}); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}
