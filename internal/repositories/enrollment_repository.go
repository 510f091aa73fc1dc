package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/courseloom/backend/internal/models"
)

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{
		db: db,
	}
}

// GetByStudentAndCourse retrieves the enrollment for a (student, course)
// pair. Returns (nil, nil) when absent.
func (r *enrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, status, progress_percentage, enrolled_at, completed_at
		FROM enrollments
		WHERE student_id = ? AND course_id = ?
		LIMIT 1
	`

	var e models.Enrollment
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, studentID, courseID).Scan(
		&e.ID,
		&e.StudentID,
		&e.CourseID,
		&e.Status,
		&e.ProgressPercentage,
		&e.EnrolledAt,
		&completedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	if completedAt.Valid {
		e.CompletedAt = &completedAt.Time
	}
	return &e, nil
}

// Exists checks if an enrollment exists for a (student, course) pair
func (r *enrollmentRepository) Exists(ctx context.Context, studentID, courseID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = ? AND course_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, studentID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check enrollment existence: %w", err)
	}

	return exists, nil
}

// Create inserts an enrollment row. The composite unique key on
// (student_id, course_id) is the authoritative duplicate guard; a constraint
// hit is returned as models.ErrDuplicateEntry.
func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, course_id, status, progress_percentage, enrolled_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		enrollment.StudentID,
		enrollment.CourseID,
		enrollment.Status,
		enrollment.ProgressPercentage,
		enrollment.EnrolledAt,
	)
	if err != nil {
		return translateInsertError("failed to create enrollment", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	enrollment.ID = id
	return nil
}

// UpdateProgress persists a recomputed progress snapshot for an enrollment
func (r *enrollmentRepository) UpdateProgress(ctx context.Context, studentID, courseID int64, progress int, status models.EnrollmentStatus, completedAt *time.Time) error {
	query := `
		UPDATE enrollments
		SET progress_percentage = ?, status = ?, completed_at = ?
		WHERE student_id = ? AND course_id = ?
	`

	var completed sql.NullTime
	if completedAt != nil {
		completed = sql.NullTime{Time: *completedAt, Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, query, progress, status, completed, studentID, courseID); err != nil {
		return fmt.Errorf("failed to update enrollment progress: %w", err)
	}

	return nil
}

// ListByStudent retrieves all enrollments of a student, newest first
func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, status, progress_percentage, enrolled_at, completed_at
		FROM enrollments
		WHERE student_id = ?
		ORDER BY enrolled_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.Enrollment{}
	for rows.Next() {
		var e models.Enrollment
		var completedAt sql.NullTime
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Status,
			&e.ProgressPercentage, &e.EnrolledAt, &completedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment row: %w", err)
		}
		if completedAt.Valid {
			e.CompletedAt = &completedAt.Time
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate enrollment rows: %w", err)
	}

	return enrollments, nil
}

// Delete removes an enrollment. Used only by the administrative removal
// path; normal flows never delete enrollments.
func (r *enrollmentRepository) Delete(ctx context.Context, studentID, courseID int64) error {
	query := `DELETE FROM enrollments WHERE student_id = ? AND course_id = ?`

	result, err := r.db.ExecContext(ctx, query, studentID, courseID)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrEnrollmentNotFound
	}

	return nil
}
