package models

import "errors"

// Domain errors returned by services. Handlers match these with errors.Is
// and map them to HTTP statuses; anything else is treated as an internal error.
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseNotAvailable = errors.New("course not available")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrLessonNotAvailable = errors.New("lesson not available")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrPaymentNotFound    = errors.New("payment not found")

	ErrAlreadyEnrolled     = errors.New("already enrolled in this course")
	ErrNotEnrolled         = errors.New("not enrolled in this course")
	ErrPaymentRequired     = errors.New("payment required for this course")
	ErrPaymentNotCompleted = errors.New("payment is not completed")
	ErrPaymentMismatch     = errors.New("payment does not match student or course")
	ErrPermissionDenied    = errors.New("permission denied")

	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// ErrDuplicateEntry is returned by repositories when an insert hits a
	// unique constraint. Services translate it into the matching domain
	// outcome (ErrAlreadyEnrolled, idempotent completion); it never reaches
	// handlers.
	ErrDuplicateEntry = errors.New("duplicate entry")
)
