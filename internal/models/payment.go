package models

import "time"

// PaymentStatus is the provider-reported state of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment is a payment record supplied by the payment subsystem.
// The platform never talks to a payment provider itself; records arrive
// already verified through the internal payments endpoint and are only
// read afterwards.
type Payment struct {
	ID          int64         `json:"id"`
	StudentID   int64         `json:"studentId"`
	CourseID    int64         `json:"courseId"`
	AmountCents int64         `json:"amountCents"`
	Currency    string        `json:"currency"`
	Status      PaymentStatus `json:"status"`
	ExternalRef string        `json:"externalRef"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// RecordPaymentRequest represents an already-verified payment record pushed
// by the payment subsystem. Repeated posts with the same externalRef update
// the stored status (e.g. completed -> refunded).
type RecordPaymentRequest struct {
	StudentID   int64  `json:"studentId" validate:"required,gt=0"`
	CourseID    int64  `json:"courseId" validate:"required,gt=0"`
	AmountCents int64  `json:"amountCents" validate:"gte=0"`
	Currency    string `json:"currency" validate:"required,len=3"`
	Status      string `json:"status" validate:"required,oneof=pending completed failed refunded"`
	ExternalRef string `json:"externalRef" validate:"required,max=128"`
}
