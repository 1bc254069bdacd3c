package product

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	p := Product{Name: "Rash Guard", PriceCents: 4500}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Name = ""
	if err := p.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	p.Name = "Rash Guard"
	p.PriceCents = 0
	if err := p.Validate(); !errors.Is(err, ErrNonPositivePrice) {
		t.Errorf("expected ErrNonPositivePrice for zero, got %v", err)
	}
	p.PriceCents = -100
	if err := p.Validate(); !errors.Is(err, ErrNonPositivePrice) {
		t.Errorf("expected ErrNonPositivePrice for negative, got %v", err)
	}
}

func TestPriceLabel(t *testing.T) {
	p := Product{PriceCents: 2499}
	if got := p.PriceLabel(); got != "24.99" {
		t.Errorf("expected 24.99, got %s", got)
	}
	p.PriceCents = 500
	if got := p.PriceLabel(); got != "5.00" {
		t.Errorf("expected 5.00, got %s", got)
	}
}
