package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/memberclass/platform/internal/models"
	"go.uber.org/zap"
)

// PurchaseService is the interface that wraps purchase verification
type PurchaseService interface {
	// Method Verify reports whether the e-mail has an approved purchase.
	//
	// A blank e-mail returns a validation error.
	Verify(ctx context.Context, email string) (*models.PurchaseVerification, error)
}

// PurchaseHandler exposes purchase checks to other services
type PurchaseHandler struct {
	BaseHandler
	purchases PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchases PurchaseService, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		BaseHandler: BaseHandler{Logger: logger},
		purchases:   purchases,
	}
}

// RegisterRoutes registers all purchase handler routes
// Note: This assumes the router is already scoped to /api/v1 and guarded by the API key
func (h *PurchaseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/purchases/verify", h.Verify)
}

// Verify handles GET /purchases/verify
// @Summary Verify a purchase
// @Tags purchases
// @Produce json
// @Param email query string true "Buyer e-mail"
// @Param X-API-Key header string true "API Key"
// @Success 200 {object} models.PurchaseVerification
// @Failure 400 {object} map[string]string "Invalid e-mail"
// @Failure 401 {object} map[string]string "Invalid API key"
// @Router /purchases/verify [get]
func (h *PurchaseHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.purchases.Verify(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to verify purchase")
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}
