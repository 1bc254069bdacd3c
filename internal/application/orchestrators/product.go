package orchestrators

import (
	"context"
	"log/slog"

	"dojo/internal/application/livequery"
	"dojo/internal/domain/product"
)

// ProductStore defines the product persistence interface used by the
// storefront orchestrators.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
	Save(ctx context.Context, p product.Product) error
	Delete(ctx context.Context, id string) error
}

// ProductInput carries the admin-editable storefront fields.
type ProductInput struct {
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
}

// ProductDeps holds dependencies for the storefront orchestrators.
type ProductDeps struct {
	ProductStore ProductStore
	Notifier     *livequery.Notifier
	GenerateID   func() string
}

func (d ProductDeps) bump() {
	if d.Notifier != nil {
		d.Notifier.Bump(livequery.CollectionProducts)
	}
}

// ExecuteCreateProduct adds a storefront item.
// POST: Product persisted with a positive price
func ExecuteCreateProduct(ctx context.Context, input ProductInput, deps ProductDeps) (string, error) {
	p := product.Product{
		ID:          newID(deps.GenerateID),
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		ImageURL:    input.ImageURL,
	}
	if err := p.Validate(); err != nil {
		return "", err
	}
	if err := deps.ProductStore.Save(ctx, p); err != nil {
		return "", err
	}

	slog.Info("store_event", "event", "product_created", "product_id", p.ID, "name", p.Name)
	deps.bump()
	return p.ID, nil
}

// ExecuteUpdateProduct overwrites a storefront item.
// PRE: id names an existing product
func ExecuteUpdateProduct(ctx context.Context, id string, input ProductInput, deps ProductDeps) error {
	p, err := deps.ProductStore.GetByID(ctx, id)
	if err != nil {
		return err
	}

	p.Name = input.Name
	p.Description = input.Description
	p.PriceCents = input.PriceCents
	p.ImageURL = input.ImageURL
	if err := p.Validate(); err != nil {
		return err
	}
	if err := deps.ProductStore.Save(ctx, p); err != nil {
		return err
	}

	slog.Info("store_event", "event", "product_updated", "product_id", id)
	deps.bump()
	return nil
}

// ExecuteDeleteProduct removes a storefront item. Missing ids are a no-op.
func ExecuteDeleteProduct(ctx context.Context, id string, deps ProductDeps) error {
	if err := deps.ProductStore.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("store_event", "event", "product_deleted", "product_id", id)
	deps.bump()
	return nil
}
