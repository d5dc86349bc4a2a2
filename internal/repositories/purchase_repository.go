package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

type purchaseRepository struct {
	db *sql.DB
}

// NewPurchaseRepository creates a new member purchase repository
func NewPurchaseRepository(db *sql.DB) *purchaseRepository {
	return &purchaseRepository{
		db: db,
	}
}

// HasApprovedPurchase checks if an approved purchase exists for the e-mail
func (r *purchaseRepository) HasApprovedPurchase(ctx context.Context, email string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM member_purchases WHERE email = ? AND purchase_status = 'approved')"
	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return exists, nil
}
