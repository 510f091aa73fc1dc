package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/courseloom/backend/internal/models"
)

type completionRepository struct {
	db *sql.DB
}

// NewCompletionRepository creates a new lesson completion repository
func NewCompletionRepository(db *sql.DB) *completionRepository {
	return &completionRepository{
		db: db,
	}
}

// Get retrieves the completion for a (student, lesson) pair.
// Returns (nil, nil) when absent.
func (r *completionRepository) Get(ctx context.Context, studentID, lessonID int64) (*models.LessonCompletion, error) {
	query := `
		SELECT id, student_id, lesson_id, completed_at
		FROM lesson_completions
		WHERE student_id = ? AND lesson_id = ?
		LIMIT 1
	`

	var c models.LessonCompletion
	err := r.db.QueryRowContext(ctx, query, studentID, lessonID).Scan(
		&c.ID,
		&c.StudentID,
		&c.LessonID,
		&c.CompletedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson completion: %w", err)
	}

	return &c, nil
}

// Create inserts a completion row. The composite unique key on
// (student_id, lesson_id) is the authoritative duplicate guard; a constraint
// hit is returned as models.ErrDuplicateEntry so the caller can resolve the
// race by re-reading the winning row.
func (r *completionRepository) Create(ctx context.Context, completion *models.LessonCompletion) error {
	query := `
		INSERT INTO lesson_completions (student_id, lesson_id, completed_at)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		completion.StudentID,
		completion.LessonID,
		completion.CompletedAt,
	)
	if err != nil {
		return translateInsertError("failed to create lesson completion", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	completion.ID = id
	return nil
}

// CountCompletedPublished counts a student's distinct completions of
// published lessons within a course
func (r *completionRepository) CountCompletedPublished(ctx context.Context, studentID, courseID int64) (int, error) {
	query := `
		SELECT COUNT(DISTINCT lc.lesson_id)
		FROM lesson_completions lc
		JOIN lessons l ON l.id = lc.lesson_id
		WHERE lc.student_id = ? AND l.course_id = ? AND l.published = 1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, studentID, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}

	return count, nil
}
