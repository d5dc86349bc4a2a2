package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/memberclass/platform/internal/models"
)

// PurchaseRepository is the interface that wraps the member purchase lookup
type PurchaseRepository interface {
	// Method HasApprovedPurchase reports whether an approved purchase exists for the e-mail.
	HasApprovedPurchase(ctx context.Context, email string) (bool, error)
}

type purchaseService struct {
	repo PurchaseRepository
}

// NewPurchaseService creates a new purchase verification service
func NewPurchaseService(repo PurchaseRepository) *purchaseService {
	return &purchaseService{repo: repo}
}

// Verify reports whether the e-mail belongs to an approved purchase
func (s *purchaseService) Verify(ctx context.Context, email string) (*models.PurchaseVerification, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, newValidationError("email is required")
	}

	approved, err := s.repo.HasApprovedPurchase(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to verify purchase: %w", err)
	}

	return &models.PurchaseVerification{Email: email, Approved: approved}, nil
}
