package handlers

import (
	"context"
	"net/http"

	"github.com/courseloom/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PaymentIntakeService is the interface that wraps the payment record
// intake.
type PaymentIntakeService interface {
	// Method RecordPayment store an already-verified payment record pushed
	// by the payment subsystem. A repeated post with a known externalRef
	// updates the stored status instead of inserting a second row.
	RecordPayment(ctx context.Context, req *models.RecordPaymentRequest) (*models.Payment, error)
}

// PaymentHandler handles the internal payment intake endpoint. Its routes
// are registered behind the API key middleware; only the payment subsystem
// holds the key.
type PaymentHandler struct {
	BaseHandler
	service PaymentIntakeService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(svc PaymentIntakeService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all payment handler routes
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/internal/payments", h.RecordPayment)
}

// RecordPayment handles POST /api/v1/internal/payments
// @Summary Record a payment
// @Description Store a verified payment record from the payment subsystem; repeated posts with the same externalRef update the status
// @Tags internal
// @Accept json
// @Produce json
// @Param request body models.RecordPaymentRequest true "Payment record"
// @Success 200 {object} models.Payment
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/internal/payments [post]
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req models.RecordPaymentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), &req)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, payment)
}
