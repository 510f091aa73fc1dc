package models

import "time"

// Assignment represents a course assignment
type Assignment struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"courseId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
}

// Submission is a student's answer to an assignment. One submission exists
// per (assignment, student); resubmitting overwrites the stored body.
type Submission struct {
	ID           int64     `json:"id"`
	AssignmentID int64     `json:"assignmentId"`
	StudentID    int64     `json:"studentId"`
	Body         string    `json:"body"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// CreateAssignmentRequest represents a request to create an assignment
type CreateAssignmentRequest struct {
	Title string `json:"title" validate:"required,max=255"`
	Body  string `json:"body" validate:"required"`
}

// SubmitAssignmentRequest represents a student submission
type SubmitAssignmentRequest struct {
	Body string `json:"body" validate:"required"`
}
