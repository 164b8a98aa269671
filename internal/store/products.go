package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hanbit-mall/storefront-api/internal/pricing"
)

// ListProducts returns the full catalog ordered by name.
func (s *Store) ListProducts(ctx context.Context) ([]pricing.Product, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, price, stock, discounts
		FROM products
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []pricing.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// GetProduct fetches a single product by identifier.
func (s *Store) GetProduct(ctx context.Context, id string) (pricing.Product, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, name, price, stock, discounts
		FROM products
		WHERE id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pricing.Product{}, ErrNotFound
		}
		return pricing.Product{}, fmt.Errorf("get product %q: %w", id, err)
	}
	return product, nil
}

// GetProducts fetches the given identifiers, keyed by id. Missing ids are
// simply absent from the result.
func (s *Store) GetProducts(ctx context.Context, ids []string) (map[string]pricing.Product, error) {
	if len(ids) == 0 {
		return map[string]pricing.Product{}, nil
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, price, stock, discounts
		FROM products
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer rows.Close()

	result := make(map[string]pricing.Product, len(ids))
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result[product.ID] = product
	}
	return result, rows.Err()
}

// CreateProduct inserts a catalog entry.
func (s *Store) CreateProduct(ctx context.Context, product pricing.Product) error {
	discounts, err := json.Marshal(product.Discounts)
	if err != nil {
		return fmt.Errorf("encode discounts: %w", err)
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO products (id, name, price, stock, discounts)
		VALUES ($1, $2, $3, $4, $5)`,
		product.ID, product.Name, product.Price, product.Stock, discounts)
	if err != nil {
		return fmt.Errorf("create product %q: %w", product.ID, err)
	}
	return nil
}

// UpdateProduct replaces the mutable fields of a catalog entry.
func (s *Store) UpdateProduct(ctx context.Context, product pricing.Product) error {
	discounts, err := json.Marshal(product.Discounts)
	if err != nil {
		return fmt.Errorf("encode discounts: %w", err)
	}
	tag, err := s.Pool.Exec(ctx, `
		UPDATE products
		SET name = $2, price = $3, stock = $4, discounts = $5, updated_at = now()
		WHERE id = $1`,
		product.ID, product.Name, product.Price, product.Stock, discounts)
	if err != nil {
		return fmt.Errorf("update product %q: %w", product.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes a catalog entry.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (pricing.Product, error) {
	var (
		product   pricing.Product
		discounts []byte
	)
	if err := row.Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &discounts); err != nil {
		return pricing.Product{}, err
	}
	if len(discounts) > 0 {
		if err := json.Unmarshal(discounts, &product.Discounts); err != nil {
			return pricing.Product{}, fmt.Errorf("decode discounts: %w", err)
		}
	}
	return product, nil
}
