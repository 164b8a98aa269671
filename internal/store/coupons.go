package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hanbit-mall/storefront-api/internal/pricing"
)

// ErrDuplicateCode indicates a coupon with the same code already exists.
var ErrDuplicateCode = errors.New("coupon code already exists")

// ListCoupons returns every coupon ordered by code.
func (s *Store) ListCoupons(ctx context.Context) ([]pricing.Coupon, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT code, name, discount_type, discount_value
		FROM coupons
		ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []pricing.Coupon
	for rows.Next() {
		var coupon pricing.Coupon
		if err := rows.Scan(&coupon.Code, &coupon.Name, &coupon.DiscountType, &coupon.DiscountValue); err != nil {
			return nil, err
		}
		coupons = append(coupons, coupon)
	}
	return coupons, rows.Err()
}

// GetCoupon fetches a coupon by code.
func (s *Store) GetCoupon(ctx context.Context, code string) (pricing.Coupon, error) {
	var coupon pricing.Coupon
	err := s.Pool.QueryRow(ctx, `
		SELECT code, name, discount_type, discount_value
		FROM coupons
		WHERE code = $1`, code).
		Scan(&coupon.Code, &coupon.Name, &coupon.DiscountType, &coupon.DiscountValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pricing.Coupon{}, ErrNotFound
		}
		return pricing.Coupon{}, fmt.Errorf("get coupon %q: %w", code, err)
	}
	return coupon, nil
}

// CreateCoupon inserts a coupon, rejecting duplicate codes.
func (s *Store) CreateCoupon(ctx context.Context, coupon pricing.Coupon) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO coupons (code, name, discount_type, discount_value)
		VALUES ($1, $2, $3, $4)`,
		coupon.Code, coupon.Name, coupon.DiscountType, coupon.DiscountValue)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return fmt.Errorf("create coupon %q: %w", coupon.Code, err)
	}
	return nil
}

// DeleteCoupon removes a coupon by code.
func (s *Store) DeleteCoupon(ctx context.Context, code string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM coupons WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete coupon %q: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
