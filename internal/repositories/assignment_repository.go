package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/courseloom/backend/internal/models"
)

type assignmentRepository struct {
	db *sql.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *sql.DB) *assignmentRepository {
	return &assignmentRepository{
		db: db,
	}
}

// GetByID retrieves an assignment by its ID. Returns (nil, nil) when absent.
func (r *assignmentRepository) GetByID(ctx context.Context, id int64) (*models.Assignment, error) {
	query := `
		SELECT id, course_id, title, body, published, created_at
		FROM assignments
		WHERE id = ?
		LIMIT 1
	`

	var a models.Assignment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.CourseID,
		&a.Title,
		&a.Body,
		&a.Published,
		&a.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment by id: %w", err)
	}

	return &a, nil
}

// Create creates a new assignment
func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	query := `
		INSERT INTO assignments (course_id, title, body, published, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		assignment.CourseID,
		assignment.Title,
		assignment.Body,
		assignment.Published,
		assignment.CreatedAt,
	)
	if err != nil {
		return translateInsertError("failed to create assignment", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	assignment.ID = id
	return nil
}

// GetSubmission retrieves a student's submission for an assignment.
// Returns (nil, nil) when absent.
func (r *assignmentRepository) GetSubmission(ctx context.Context, assignmentID, studentID int64) (*models.Submission, error) {
	query := `
		SELECT id, assignment_id, student_id, body, submitted_at
		FROM submissions
		WHERE assignment_id = ? AND student_id = ?
		LIMIT 1
	`

	var s models.Submission
	err := r.db.QueryRowContext(ctx, query, assignmentID, studentID).Scan(
		&s.ID,
		&s.AssignmentID,
		&s.StudentID,
		&s.Body,
		&s.SubmittedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return &s, nil
}

// CreateSubmission inserts a submission row under the (assignment_id,
// student_id) unique key; a constraint hit is models.ErrDuplicateEntry
func (r *assignmentRepository) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (assignment_id, student_id, body, submitted_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		submission.AssignmentID,
		submission.StudentID,
		submission.Body,
		submission.SubmittedAt,
	)
	if err != nil {
		return translateInsertError("failed to create submission", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	submission.ID = id
	return nil
}

// UpdateSubmission overwrites the stored body for a resubmission
func (r *assignmentRepository) UpdateSubmission(ctx context.Context, submission *models.Submission) error {
	query := `
		UPDATE submissions
		SET body = ?, submitted_at = ?
		WHERE assignment_id = ? AND student_id = ?
	`

	if _, err := r.db.ExecContext(ctx, query,
		submission.Body, submission.SubmittedAt, submission.AssignmentID, submission.StudentID,
	); err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}

	return nil
}
