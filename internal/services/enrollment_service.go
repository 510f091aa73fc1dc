package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courseloom/backend/internal/events"
	"github.com/courseloom/backend/internal/models"
	"go.uber.org/zap"
)

// CourseReadRepository defines the course read access used by services
type CourseReadRepository interface {
	// GetByID retrieves a course by its ID.
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns the course (nil when absent) and an error if any.
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// EnrollmentRepository defines the enrollment data access used by the
// enrollment service
type EnrollmentRepository interface {
	// GetByStudentAndCourse retrieves the enrollment for a (student, course)
	// pair, nil when absent.
	GetByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	// Exists checks if an enrollment exists for a (student, course) pair.
	Exists(ctx context.Context, studentID, courseID int64) (bool, error)
	// Create inserts an enrollment row; returns models.ErrDuplicateEntry
	// when the (student_id, course_id) unique key is violated.
	Create(ctx context.Context, enrollment *models.Enrollment) error
	// ListByStudent retrieves all enrollments of a student.
	ListByStudent(ctx context.Context, studentID int64) ([]models.Enrollment, error)
	// Delete removes an enrollment (administrative action only).
	Delete(ctx context.Context, studentID, courseID int64) error
}

// PaymentLookupRepository defines the payment-by-id access used to validate
// an enrollment payment
type PaymentLookupRepository interface {
	// GetByID retrieves a payment by its ID, nil when absent.
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
}

type enrollmentService struct {
	courseRepo     CourseReadRepository
	enrollmentRepo EnrollmentRepository
	paymentRepo    PaymentLookupRepository
	publisher      events.Publisher
	logger         *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	courseRepo CourseReadRepository,
	enrollmentRepo EnrollmentRepository,
	paymentRepo PaymentLookupRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *enrollmentService {
	return &enrollmentService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		paymentRepo:    paymentRepo,
		publisher:      publisher,
		logger:         logger,
	}
}

// Enroll enrolls a student into a course.
//
// Priced courses require a paymentID referencing a completed payment for the
// same student and course; for free courses paymentID is ignored. The
// existing-enrollment check here is advisory only, it shortcuts the common
// case and skips payment validation work; the (student_id, course_id) unique
// key is the authoritative duplicate guard, and a constraint hit from a
// concurrent winner is returned as models.ErrAlreadyEnrolled.
func (s *enrollmentService) Enroll(ctx context.Context, studentID, courseID int64, paymentID *int64) (*models.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		s.logger.Error("failed to load course for enrollment", zap.Error(err), zap.Int64("course_id", courseID))
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course == nil {
		return nil, models.ErrCourseNotFound
	}
	if !course.Published {
		return nil, models.ErrCourseNotAvailable
	}

	exists, err := s.enrollmentRepo.Exists(ctx, studentID, courseID)
	if err != nil {
		s.logger.Error("failed to check existing enrollment", zap.Error(err))
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if exists {
		return nil, models.ErrAlreadyEnrolled
	}

	if !course.Free() {
		if err := s.validatePayment(ctx, studentID, courseID, paymentID); err != nil {
			return nil, err
		}
	}

	enrollment := &models.Enrollment{
		StudentID:          studentID,
		CourseID:           courseID,
		Status:             models.EnrollmentStatusActive,
		ProgressPercentage: 0,
		EnrolledAt:         time.Now().UTC(),
	}

	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, models.ErrDuplicateEntry) {
			// A concurrent request won the race; a duplicate enrollment is a
			// business outcome, not a storage failure.
			return nil, models.ErrAlreadyEnrolled
		}
		s.logger.Error("failed to create enrollment", zap.Error(err),
			zap.Int64("student_id", studentID), zap.Int64("course_id", courseID))
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.publisher.Publish(ctx, events.Event{
		Name:       events.EnrollmentCreated,
		StudentID:  studentID,
		CourseID:   courseID,
		OccurredAt: enrollment.EnrolledAt,
	})

	return enrollment, nil
}

// validatePayment checks the payment referenced by a priced enrollment
func (s *enrollmentService) validatePayment(ctx context.Context, studentID, courseID int64, paymentID *int64) error {
	if paymentID == nil {
		return models.ErrPaymentRequired
	}

	payment, err := s.paymentRepo.GetByID(ctx, *paymentID)
	if err != nil {
		s.logger.Error("failed to load payment", zap.Error(err), zap.Int64("payment_id", *paymentID))
		return fmt.Errorf("failed to load payment: %w", err)
	}
	if payment == nil {
		return models.ErrPaymentNotFound
	}
	if payment.StudentID != studentID || payment.CourseID != courseID {
		return models.ErrPaymentMismatch
	}
	if payment.Status != models.PaymentStatusCompleted {
		return models.ErrPaymentNotCompleted
	}

	return nil
}

// ListEnrollments retrieves all enrollments of a student
func (s *enrollmentService) ListEnrollments(ctx context.Context, studentID int64) ([]models.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("failed to list enrollments", zap.Error(err), zap.Int64("student_id", studentID))
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

// RemoveEnrollment deletes an enrollment. This is the explicit
// administrative removal path; normal flows never delete enrollments.
func (s *enrollmentService) RemoveEnrollment(ctx context.Context, studentID, courseID int64) error {
	if err := s.enrollmentRepo.Delete(ctx, studentID, courseID); err != nil {
		if errors.Is(err, models.ErrEnrollmentNotFound) {
			return err
		}
		s.logger.Error("failed to delete enrollment", zap.Error(err),
			zap.Int64("student_id", studentID), zap.Int64("course_id", courseID))
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return nil
}
