package product

import (
	"context"

	domain "dojo/internal/domain/product"
)

// Store persists storefront products.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Product, error)
	Save(ctx context.Context, p domain.Product) error
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id string) error
}
