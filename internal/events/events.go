// Package events carries domain events out of the core services. The
// consuming notification/audit layer lives outside this repository; the
// default publisher records events on the structured log so they are
// observable in every deployment.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Event names emitted by the core services
const (
	EnrollmentCreated = "enrollment.created"
	LessonCompleted   = "lesson.completed"
	ProgressUpdated   = "progress.updated"
)

// Event is a domain event produced by the enrollment or progress services
type Event struct {
	Name       string    `json:"name"`
	StudentID  int64     `json:"studentId"`
	CourseID   int64     `json:"courseId"`
	LessonID   int64     `json:"lessonId,omitempty"`
	Progress   int       `json:"progress,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers domain events to the out-of-process consumer
type Publisher interface {
	// Publish delivers a single event. Delivery is best-effort; event
	// publication never fails the originating operation.
	Publish(ctx context.Context, event Event)
}

type logPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher that records events on the log
func NewLogPublisher(logger *zap.Logger) *logPublisher {
	return &logPublisher{
		logger: logger,
	}
}

// Publish records the event as a structured log entry
func (p *logPublisher) Publish(_ context.Context, event Event) {
	p.logger.Info("domain event",
		zap.String("event", event.Name),
		zap.Int64("student_id", event.StudentID),
		zap.Int64("course_id", event.CourseID),
		zap.Int64("lesson_id", event.LessonID),
		zap.Int("progress", event.Progress),
		zap.Time("occurred_at", event.OccurredAt),
	)
}
