package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/courseloom/backend/internal/events"
	"github.com/courseloom/backend/internal/models"
	"go.uber.org/zap"
)

// LessonReadRepository defines the lesson read access used by services
type LessonReadRepository interface {
	// GetByID retrieves a lesson by its ID, nil when absent.
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	// CountPublishedByCourse counts the published lessons of a course.
	CountPublishedByCourse(ctx context.Context, courseID int64) (int, error)
}

// CompletionRepository defines the lesson completion data access used by the
// progress service
type CompletionRepository interface {
	// Get retrieves the completion for a (student, lesson) pair, nil when
	// absent.
	Get(ctx context.Context, studentID, lessonID int64) (*models.LessonCompletion, error)
	// Create inserts a completion row; returns models.ErrDuplicateEntry when
	// the (student_id, lesson_id) unique key is violated.
	Create(ctx context.Context, completion *models.LessonCompletion) error
	// CountCompletedPublished counts a student's distinct completions of
	// published lessons within a course.
	CountCompletedPublished(ctx context.Context, studentID, courseID int64) (int, error)
}

// ProgressEnrollmentRepository defines the enrollment access used by the
// progress service
type ProgressEnrollmentRepository interface {
	// GetByStudentAndCourse retrieves the enrollment for a (student, course)
	// pair, nil when absent.
	GetByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	// UpdateProgress persists a recomputed progress snapshot.
	UpdateProgress(ctx context.Context, studentID, courseID int64, progress int, status models.EnrollmentStatus, completedAt *time.Time) error
}

type progressService struct {
	lessonRepo     LessonReadRepository
	completionRepo CompletionRepository
	enrollmentRepo ProgressEnrollmentRepository
	publisher      events.Publisher
	logger         *zap.Logger

	// Serializes recomputation per (student, course) so concurrent lesson
	// completions for the same pair cannot land a stale count last.
	mu      sync.Mutex
	recomps map[string]*sync.Mutex
}

// NewProgressService creates a new progress service
func NewProgressService(
	lessonRepo LessonReadRepository,
	completionRepo CompletionRepository,
	enrollmentRepo ProgressEnrollmentRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *progressService {
	return &progressService{
		lessonRepo:     lessonRepo,
		completionRepo: completionRepo,
		enrollmentRepo: enrollmentRepo,
		publisher:      publisher,
		logger:         logger,
		recomps:        make(map[string]*sync.Mutex),
	}
}

// CompleteLesson records a lesson completion for a student and recomputes
// the course progress. Completion is idempotent: repeated calls return the
// existing record as success, and a concurrent duplicate insert resolves to
// the winning row rather than an error.
func (s *progressService) CompleteLesson(ctx context.Context, studentID, lessonID int64) (*models.LessonCompletion, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		s.logger.Error("failed to load lesson for completion", zap.Error(err), zap.Int64("lesson_id", lessonID))
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	if lesson == nil {
		return nil, models.ErrLessonNotFound
	}
	if !lesson.Published {
		return nil, models.ErrLessonNotAvailable
	}

	enrollment, err := s.enrollmentRepo.GetByStudentAndCourse(ctx, studentID, lesson.CourseID)
	if err != nil {
		s.logger.Error("failed to load enrollment for completion", zap.Error(err))
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, models.ErrNotEnrolled
	}

	existing, err := s.completionRepo.Get(ctx, studentID, lessonID)
	if err != nil {
		s.logger.Error("failed to check existing completion", zap.Error(err))
		return nil, fmt.Errorf("failed to check completion: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	completion := &models.LessonCompletion{
		StudentID:   studentID,
		LessonID:    lessonID,
		CompletedAt: time.Now().UTC(),
	}

	if err := s.completionRepo.Create(ctx, completion); err != nil {
		if errors.Is(err, models.ErrDuplicateEntry) {
			// A concurrent call won the race; return the winning row so both
			// callers observe the same completion.
			winner, getErr := s.completionRepo.Get(ctx, studentID, lessonID)
			if getErr != nil {
				s.logger.Error("failed to re-read completion after duplicate", zap.Error(getErr))
				return nil, fmt.Errorf("failed to read completion: %w", getErr)
			}
			if winner == nil {
				return nil, fmt.Errorf("completion missing after duplicate insert")
			}
			return winner, nil
		}
		s.logger.Error("failed to create completion", zap.Error(err),
			zap.Int64("student_id", studentID), zap.Int64("lesson_id", lessonID))
		return nil, fmt.Errorf("failed to create completion: %w", err)
	}

	if err := s.RecomputeProgress(ctx, studentID, lesson.CourseID); err != nil {
		// The completion row is durable; recomputation is idempotent and can
		// be re-triggered by the next completion.
		s.logger.Error("failed to recompute progress after completion", zap.Error(err),
			zap.Int64("student_id", studentID), zap.Int64("course_id", lesson.CourseID))
	}

	s.publisher.Publish(ctx, events.Event{
		Name:       events.LessonCompleted,
		StudentID:  studentID,
		CourseID:   lesson.CourseID,
		LessonID:   lessonID,
		OccurredAt: completion.CompletedAt,
	})

	return completion, nil
}

// RecomputeProgress derives an enrollment's progress from the current
// completion counts and persists it. The percentage is always recomputed
// from counts rather than incremented, so redundant calls are safe and
// cannot drift.
func (s *progressService) RecomputeProgress(ctx context.Context, studentID, courseID int64) error {
	lock := s.recompLock(studentID, courseID)
	lock.Lock()
	defer lock.Unlock()

	total, err := s.lessonRepo.CountPublishedByCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to count published lessons: %w", err)
	}

	completed := 0
	if total > 0 {
		completed, err = s.completionRepo.CountCompletedPublished(ctx, studentID, courseID)
		if err != nil {
			return fmt.Errorf("failed to count completions: %w", err)
		}
	}

	progress := 0
	if total > 0 {
		// Round half away from zero, matching the original behavior.
		progress = int(math.Round(100 * float64(completed) / float64(total)))
	}

	enrollment, err := s.enrollmentRepo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return fmt.Errorf("failed to load enrollment: %w", err)
	}
	if enrollment == nil {
		return models.ErrNotEnrolled
	}

	status := models.EnrollmentStatusActive
	var completedAt *time.Time
	if progress == 100 {
		status = models.EnrollmentStatusCompleted
		if enrollment.Status == models.EnrollmentStatusCompleted && enrollment.CompletedAt != nil {
			completedAt = enrollment.CompletedAt
		} else {
			now := time.Now().UTC()
			completedAt = &now
		}
	}

	if err := s.enrollmentRepo.UpdateProgress(ctx, studentID, courseID, progress, status, completedAt); err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.Event{
		Name:       events.ProgressUpdated,
		StudentID:  studentID,
		CourseID:   courseID,
		Progress:   progress,
		OccurredAt: time.Now().UTC(),
	})

	return nil
}

// recompLock returns the mutex serializing recomputation for a
// (student, course) pair
func (s *progressService) recompLock(studentID, courseID int64) *sync.Mutex {
	key := fmt.Sprintf("%d:%d", studentID, courseID)

	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.recomps[key]
	if !ok {
		lock = &sync.Mutex{}
		s.recomps[key] = lock
	}
	return lock
}
