package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/courseloom/backend/internal/models"
)

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *sql.DB) *lessonRepository {
	return &lessonRepository{
		db: db,
	}
}

// GetByID retrieves a lesson by its ID. Returns (nil, nil) when absent.
func (r *lessonRepository) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	query := `
		SELECT id, course_id, slug, title, position, published, created_at
		FROM lessons
		WHERE id = ?
		LIMIT 1
	`

	var lesson models.Lesson
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lesson.ID,
		&lesson.CourseID,
		&lesson.Slug,
		&lesson.Title,
		&lesson.Position,
		&lesson.Published,
		&lesson.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by id: %w", err)
	}

	return &lesson, nil
}

// ListPublishedWithCompletion retrieves a course's published lessons with the
// student's completion state, sorted by position
func (r *lessonRepository) ListPublishedWithCompletion(ctx context.Context, courseID, studentID int64) ([]models.LessonListItem, error) {
	query := `
		SELECT l.id, l.slug, l.title, l.position,
			CASE WHEN lc.id IS NOT NULL THEN 1 ELSE 0 END AS completed
		FROM lessons l
		LEFT JOIN lesson_completions lc ON lc.lesson_id = l.id AND lc.student_id = ?
		WHERE l.course_id = ? AND l.published = 1
		ORDER BY l.position
	`

	rows, err := r.db.QueryContext(ctx, query, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.LessonListItem{}
	for rows.Next() {
		var item models.LessonListItem
		var completed int
		if err := rows.Scan(&item.ID, &item.Slug, &item.Title, &item.Position, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan lesson row: %w", err)
		}
		item.Completed = completed == 1
		lessons = append(lessons, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lesson rows: %w", err)
	}

	return lessons, nil
}

// ListByCourse retrieves all lessons for a course regardless of publish state
func (r *lessonRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Lesson, error) {
	query := `
		SELECT id, course_id, slug, title, position, published, created_at
		FROM lessons
		WHERE course_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Slug, &l.Title, &l.Position, &l.Published, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lesson row: %w", err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lesson rows: %w", err)
	}

	return lessons, nil
}

// CountPublishedByCourse counts the published lessons of a course
func (r *lessonRepository) CountPublishedByCourse(ctx context.Context, courseID int64) (int, error) {
	query := `SELECT COUNT(*) FROM lessons WHERE course_id = ? AND published = 1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count published lessons: %w", err)
	}

	return count, nil
}

// Create creates a new lesson
func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	query := `
		INSERT INTO lessons (course_id, slug, title, position, published, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		lesson.CourseID,
		lesson.Slug,
		lesson.Title,
		lesson.Position,
		lesson.Published,
		lesson.CreatedAt,
	)
	if err != nil {
		return translateInsertError("failed to create lesson", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	lesson.ID = id
	return nil
}

// Update updates a lesson's mutable fields
func (r *lessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	query := `UPDATE lessons SET title = ?, position = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, lesson.Title, lesson.Position, lesson.ID); err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}

	return nil
}

// SetPublished flips a lesson's publish flag
func (r *lessonRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	query := `UPDATE lessons SET published = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, published, id); err != nil {
		return fmt.Errorf("failed to set lesson published flag: %w", err)
	}

	return nil
}
