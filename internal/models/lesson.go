package models

import "time"

// Lesson represents a lesson inside a course
type Lesson struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"courseId"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
}

// LessonListItem represents a lesson in course content listings,
// with the caller's completion state attached
type LessonListItem struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Position  int    `json:"position"`
	Completed bool   `json:"completed"`
}

// CreateLessonRequest represents a request to create a lesson
type CreateLessonRequest struct {
	Slug     string `json:"slug" validate:"required,max=120"`
	Title    string `json:"title" validate:"required,max=255"`
	Position int    `json:"position" validate:"gte=0"`
}

// UpdateLessonRequest represents a partial lesson update
type UpdateLessonRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Position *int    `json:"position,omitempty" validate:"omitempty,gte=0"`
}
