package services

import (
	"context"
	"fmt"

	"github.com/courseloom/backend/internal/models"
	"go.uber.org/zap"
)

// CatalogCourseRepository defines the course catalog data access
type CatalogCourseRepository interface {
	// GetByID retrieves a course by its ID, nil when absent.
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	// ListPublished retrieves published courses, paginated.
	ListPublished(ctx context.Context, page, count int) ([]models.CourseListItem, error)
}

// CatalogLessonRepository defines the lesson listing access used by the
// catalog service
type CatalogLessonRepository interface {
	// GetByID retrieves a lesson by its ID, nil when absent.
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	// ListPublishedWithCompletion retrieves a course's published lessons in
	// position order with the student's completion state attached.
	ListPublishedWithCompletion(ctx context.Context, courseID, studentID int64) ([]models.LessonListItem, error)
}

// Authorizer decides whether an actor may view course content
type Authorizer interface {
	// AuthorizeCourseContent returns the course when the actor may view its
	// content and a domain error otherwise.
	AuthorizeCourseContent(ctx context.Context, actor *models.Actor, courseID int64) (*models.Course, error)
}

type catalogService struct {
	courseRepo     CatalogCourseRepository
	lessonRepo     CatalogLessonRepository
	enrollmentRepo AccessEnrollmentRepository
	authorizer     Authorizer
	logger         *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	courseRepo CatalogCourseRepository,
	lessonRepo CatalogLessonRepository,
	enrollmentRepo AccessEnrollmentRepository,
	authorizer Authorizer,
	logger *zap.Logger,
) *catalogService {
	return &catalogService{
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		authorizer:     authorizer,
		logger:         logger,
	}
}

// ListCourses retrieves the public catalog page. Listing requires no
// authentication and discloses only published courses.
func (s *catalogService) ListCourses(ctx context.Context, page, count int) ([]models.CourseListItem, error) {
	courses, err := s.courseRepo.ListPublished(ctx, page, count)
	if err != nil {
		s.logger.Error("failed to list courses", zap.Error(err))
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// GetCourse retrieves a course detail with the actor's enrollment state
// attached. The catalog entry of a published course is public; an
// unpublished course is visible only to its instructor and admins.
func (s *catalogService) GetCourse(ctx context.Context, actor *models.Actor, courseID int64) (*models.CourseDetailResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		s.logger.Error("failed to get course", zap.Error(err), zap.Int64("course_id", courseID))
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, models.ErrCourseNotFound
	}

	if !course.Published {
		if actor == nil {
			return nil, models.ErrCourseNotFound
		}
		switch {
		case actor.Role == models.RoleAdmin:
		case actor.Role == models.RoleInstructor && course.InstructorID == actor.ID:
		default:
			return nil, models.ErrCourseNotFound
		}
	}

	detail := &models.CourseDetailResponse{Course: *course}

	if actor != nil && actor.Role == models.RoleStudent {
		enrollment, err := s.enrollmentRepo.GetByStudentAndCourse(ctx, actor.ID, courseID)
		if err != nil {
			s.logger.Error("failed to get enrollment for course detail", zap.Error(err))
			return nil, fmt.Errorf("failed to get enrollment: %w", err)
		}
		if enrollment != nil {
			detail.Enrolled = true
			detail.ProgressPercentage = enrollment.ProgressPercentage
		}
	}

	return detail, nil
}

// GetLessons retrieves a course's published lessons with the actor's
// completion state. Access to lesson listings requires content authorization.
func (s *catalogService) GetLessons(ctx context.Context, actor *models.Actor, courseID int64) ([]models.LessonListItem, error) {
	if _, err := s.authorizer.AuthorizeCourseContent(ctx, actor, courseID); err != nil {
		return nil, err
	}

	var studentID int64
	if actor != nil {
		studentID = actor.ID
	}

	lessons, err := s.lessonRepo.ListPublishedWithCompletion(ctx, courseID, studentID)
	if err != nil {
		s.logger.Error("failed to list lessons", zap.Error(err), zap.Int64("course_id", courseID))
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}

	return lessons, nil
}

// GetLesson retrieves a single lesson, subject to content authorization on
// its course. Unpublished lessons read as absent for students.
func (s *catalogService) GetLesson(ctx context.Context, actor *models.Actor, lessonID int64) (*models.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		s.logger.Error("failed to get lesson", zap.Error(err), zap.Int64("lesson_id", lessonID))
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	if lesson == nil {
		return nil, models.ErrLessonNotFound
	}

	course, err := s.authorizer.AuthorizeCourseContent(ctx, actor, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	if !lesson.Published {
		if actor == nil || actor.Role == models.RoleStudent {
			return nil, models.ErrLessonNotFound
		}
		if actor.Role == models.RoleInstructor && course.InstructorID != actor.ID {
			return nil, models.ErrLessonNotFound
		}
	}

	return lesson, nil
}
