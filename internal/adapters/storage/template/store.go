package template

import (
	"context"

	"dojo/internal/domain/class"
	domain "dojo/internal/domain/template"
)

// Store persists ClassTemplate state together with the class instances a
// template generates. The multi-row operations are atomic: either the
// template and its instances commit together or nothing does.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Template, error)
	List(ctx context.Context) ([]domain.Template, error)
	// CreateWithInstances inserts the template and its expanded instances
	// in one transaction.
	CreateWithInstances(ctx context.Context, t domain.Template, classes []class.Class) error
	// UpdateWithInstances overwrites the template, deletes every instance
	// generated from it, and inserts the fresh expansion, atomically.
	UpdateWithInstances(ctx context.Context, t domain.Template, classes []class.Class) error
	// DeleteCascade removes the template, its instances, and every ledger
	// entry referencing those instances, atomically. Missing templates are
	// a no-op.
	DeleteCascade(ctx context.Context, id string) error
}
