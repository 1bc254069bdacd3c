package product

import (
	"context"
	"database/sql"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/product"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new product store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Product by its ID.
// POST: Returns the product or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Product, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, price_cents, image_url FROM product WHERE id = ?", id)

	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.ImageURL)
	if err == sql.ErrNoRows {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

// Save persists a Product (insert or update).
// PRE: p has been validated
func (s *SQLiteStore) Save(ctx context.Context, p domain.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO product (id, name, description, price_cents, image_url) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, description=excluded.description,
		 price_cents=excluded.price_cents, image_url=excluded.image_url`,
		p.ID, p.Name, p.Description, p.PriceCents, p.ImageURL)
	return err
}

// List returns all products ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, price_cents, image_url FROM product ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.ImageURL); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Delete removes a product. Missing ids are a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM product WHERE id = ?", id)
	return err
}
