package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/courseloom/backend/internal/models"
)

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

// GetByID retrieves a course by its ID. Returns (nil, nil) when absent.
func (r *courseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, instructor_id, slug, title, description, price_cents, currency, published, created_at
		FROM courses
		WHERE id = ?
		LIMIT 1
	`

	var course models.Course
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.InstructorID,
		&course.Slug,
		&course.Title,
		&course.Description,
		&course.PriceCents,
		&course.Currency,
		&course.Published,
		&course.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}

	return &course, nil
}

// ListPublished retrieves published courses for the catalog, paginated
func (r *courseRepository) ListPublished(ctx context.Context, page, count int) ([]models.CourseListItem, error) {
	query := `
		SELECT id, slug, title, price_cents, currency
		FROM courses
		WHERE published = 1
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, count, (page-1)*count)
	if err != nil {
		return nil, fmt.Errorf("failed to query published courses: %w", err)
	}
	defer rows.Close()

	courses := []models.CourseListItem{}
	for rows.Next() {
		var c models.CourseListItem
		if err := rows.Scan(&c.ID, &c.Slug, &c.Title, &c.PriceCents, &c.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate course rows: %w", err)
	}

	return courses, nil
}

// ListByInstructor retrieves all courses owned by an instructor
func (r *courseRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]models.Course, error) {
	query := `
		SELECT id, instructor_id, slug, title, description, price_cents, currency, published, created_at
		FROM courses
		WHERE instructor_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, instructorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query instructor courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(
			&c.ID, &c.InstructorID, &c.Slug, &c.Title, &c.Description,
			&c.PriceCents, &c.Currency, &c.Published, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate course rows: %w", err)
	}

	return courses, nil
}

// ExistsBySlug checks if a course with the given slug exists
func (r *courseRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM courses WHERE slug = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check course slug: %w", err)
	}

	return exists, nil
}

// Create creates a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (instructor_id, slug, title, description, price_cents, currency, published, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		course.InstructorID,
		course.Slug,
		course.Title,
		course.Description,
		course.PriceCents,
		course.Currency,
		course.Published,
		course.CreatedAt,
	)
	if err != nil {
		return translateInsertError("failed to create course", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	course.ID = id
	return nil
}

// Update updates a course's mutable fields
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = ?, description = ?, price_cents = ?, currency = ?
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query,
		course.Title, course.Description, course.PriceCents, course.Currency, course.ID,
	); err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	return nil
}

// SetPublished flips a course's publish flag
func (r *courseRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	query := `UPDATE courses SET published = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, published, id); err != nil {
		return fmt.Errorf("failed to set course published flag: %w", err)
	}

	return nil
}
