package services

import (
	"context"
	"fmt"
	"time"

	"github.com/courseloom/backend/internal/models"
	"go.uber.org/zap"
)

// PaymentRepository defines the payment data access used by the payment
// intake service
type PaymentRepository interface {
	// GetByExternalRef retrieves a payment by its provider transaction
	// reference, nil when absent.
	GetByExternalRef(ctx context.Context, externalRef string) (*models.Payment, error)
	// Create inserts a payment record.
	Create(ctx context.Context, payment *models.Payment) error
	// UpdateStatus updates the provider-reported status of a payment.
	UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) error
}

type paymentService struct {
	paymentRepo PaymentRepository
	logger      *zap.Logger
}

// NewPaymentService creates a new payment intake service
func NewPaymentService(paymentRepo PaymentRepository, logger *zap.Logger) *paymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// RecordPayment stores an already-verified payment record pushed by the
// payment subsystem. The external reference keys the record: a repeated
// post with a known reference updates the stored status instead of
// inserting a second row, which is how refunds and late confirmations
// arrive.
func (s *paymentService) RecordPayment(ctx context.Context, req *models.RecordPaymentRequest) (*models.Payment, error) {
	status := models.PaymentStatus(req.Status)

	existing, err := s.paymentRepo.GetByExternalRef(ctx, req.ExternalRef)
	if err != nil {
		s.logger.Error("failed to look up payment by external ref", zap.Error(err),
			zap.String("external_ref", req.ExternalRef))
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}

	if existing != nil {
		if existing.Status != status {
			if err := s.paymentRepo.UpdateStatus(ctx, existing.ID, status); err != nil {
				s.logger.Error("failed to update payment status", zap.Error(err), zap.Int64("payment_id", existing.ID))
				return nil, fmt.Errorf("failed to update payment status: %w", err)
			}
			existing.Status = status
		}
		return existing, nil
	}

	payment := &models.Payment{
		StudentID:   req.StudentID,
		CourseID:    req.CourseID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Status:      status,
		ExternalRef: req.ExternalRef,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		s.logger.Error("failed to create payment", zap.Error(err), zap.String("external_ref", req.ExternalRef))
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return payment, nil
}
