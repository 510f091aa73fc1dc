package models

import "time"

// EnrollmentStatus is the lifecycle state of an enrollment
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
)

// Enrollment grants a student standing access to a course's lessons.
// At most one enrollment exists per (student, course); the database enforces
// this with a composite unique key.
type Enrollment struct {
	ID                 int64            `json:"id"`
	StudentID          int64            `json:"studentId"`
	CourseID           int64            `json:"courseId"`
	Status             EnrollmentStatus `json:"status"`
	ProgressPercentage int              `json:"progressPercentage"`
	EnrolledAt         time.Time        `json:"enrolledAt"`
	CompletedAt        *time.Time       `json:"completedAt,omitempty"`
}

// EnrollRequest represents a request to enroll into a course
type EnrollRequest struct {
	PaymentID *int64 `json:"paymentId,omitempty" validate:"omitempty,gt=0"`
}
