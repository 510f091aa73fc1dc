package models

import "time"

// LessonCompletion records that a student completed a lesson.
// At most one completion exists per (student, lesson); completion is
// idempotent and rows are never mutated or deleted by students.
type LessonCompletion struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"studentId"`
	LessonID    int64     `json:"lessonId"`
	CompletedAt time.Time `json:"completedAt"`
}
