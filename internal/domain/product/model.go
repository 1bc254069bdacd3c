package product

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrEmptyName        = errors.New("product name cannot be empty")
	ErrNonPositivePrice = errors.New("product price must be positive")
	ErrNotFound         = errors.New("product not found")
)

// Product is a storefront item. Prices are stored in cents to avoid
// floating-point money.
type Product struct {
	ID          string
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string // optional
}

// Validate checks if the Product has valid data.
// PRE: Product struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: PriceCents > 0
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.PriceCents <= 0 {
		return ErrNonPositivePrice
	}
	return nil
}

// PriceLabel formats the price as a decimal string, e.g. "24.99".
func (p *Product) PriceLabel() string {
	return fmt.Sprintf("%d.%02d", p.PriceCents/100, p.PriceCents%100)
}
