package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/courseloom/backend/internal/models"
)

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sql.DB) *paymentRepository {
	return &paymentRepository{
		db: db,
	}
}

// GetByID retrieves a payment by its ID. Returns (nil, nil) when absent.
func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	query := `
		SELECT id, student_id, course_id, amount_cents, currency, status, external_ref, created_at
		FROM payments
		WHERE id = ?
		LIMIT 1
	`

	return r.scanPayment(r.db.QueryRowContext(ctx, query, id))
}

// GetByExternalRef retrieves a payment by its provider transaction
// reference. Returns (nil, nil) when absent.
func (r *paymentRepository) GetByExternalRef(ctx context.Context, externalRef string) (*models.Payment, error) {
	query := `
		SELECT id, student_id, course_id, amount_cents, currency, status, external_ref, created_at
		FROM payments
		WHERE external_ref = ?
		LIMIT 1
	`

	return r.scanPayment(r.db.QueryRowContext(ctx, query, externalRef))
}

// HasCompleted checks if any completed payment exists for a
// (student, course) pair
func (r *paymentRepository) HasCompleted(ctx context.Context, studentID, courseID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM payments WHERE student_id = ? AND course_id = ? AND status = 'completed')`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, studentID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check completed payment: %w", err)
	}

	return exists, nil
}

// Create inserts a payment record
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (student_id, course_id, amount_cents, currency, status, external_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		payment.StudentID,
		payment.CourseID,
		payment.AmountCents,
		payment.Currency,
		payment.Status,
		payment.ExternalRef,
		payment.CreatedAt,
	)
	if err != nil {
		return translateInsertError("failed to create payment", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	payment.ID = id
	return nil
}

// UpdateStatus updates the provider-reported status of a payment
func (r *paymentRepository) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) error {
	query := `UPDATE payments SET status = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	return nil
}

func (r *paymentRepository) scanPayment(row *sql.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(
		&p.ID,
		&p.StudentID,
		&p.CourseID,
		&p.AmountCents,
		&p.Currency,
		&p.Status,
		&p.ExternalRef,
		&p.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &p, nil
}
