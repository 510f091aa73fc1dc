package services

import (
	"context"
	"fmt"
)

// PaymentReadRepository defines the read-side payment data access used by
// the payment gate
type PaymentReadRepository interface {
	// HasCompleted checks if any completed payment exists for a
	// (student, course) pair.
	//
	// "ctx" is the context for the request.
	// "studentID" is the ID of the student.
	// "courseID" is the ID of the course.
	//
	// Returns a boolean and an error if any.
	HasCompleted(ctx context.Context, studentID, courseID int64) (bool, error)
}

type paymentGate struct {
	repo PaymentReadRepository
}

// NewPaymentGate creates a new payment gate
func NewPaymentGate(repo PaymentReadRepository) *paymentGate {
	return &paymentGate{
		repo: repo,
	}
}

// HasCompletedPayment reports whether a completed payment exists for the
// (student, course) pair. Any completed payment satisfies the gate, not
// only the latest one; absence is false, never an error. No existence
// validation is done here, callers validate the course first.
func (g *paymentGate) HasCompletedPayment(ctx context.Context, studentID, courseID int64) (bool, error) {
	ok, err := g.repo.HasCompleted(ctx, studentID, courseID)
	if err != nil {
		return false, fmt.Errorf("failed to check payment: %w", err)
	}
	return ok, nil
}
