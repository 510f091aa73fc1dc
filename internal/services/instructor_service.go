package services

import (
	"context"
	"fmt"
	"time"

	"github.com/courseloom/backend/internal/models"
	"go.uber.org/zap"
)

// InstructorCourseRepository defines the course write access used by the
// instructor service
type InstructorCourseRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]models.Course, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	SetPublished(ctx context.Context, id int64, published bool) error
}

// InstructorLessonRepository defines the lesson write access used by the
// instructor service
type InstructorLessonRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	SetPublished(ctx context.Context, id int64, published bool) error
}

// AssignmentWriteRepository defines the assignment write access used by the
// instructor service
type AssignmentWriteRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
}

// ManagementAuthorizer decides whether an actor may manage a course
type ManagementAuthorizer interface {
	// AuthorizeCourseManagement returns the course when the actor may modify
	// it and a domain error otherwise.
	AuthorizeCourseManagement(ctx context.Context, actor *models.Actor, courseID int64) (*models.Course, error)
}

type instructorService struct {
	courseRepo     InstructorCourseRepository
	lessonRepo     InstructorLessonRepository
	assignmentRepo AssignmentWriteRepository
	authorizer     ManagementAuthorizer
	logger         *zap.Logger
}

// NewInstructorService creates a new instructor service
func NewInstructorService(
	courseRepo InstructorCourseRepository,
	lessonRepo InstructorLessonRepository,
	assignmentRepo AssignmentWriteRepository,
	authorizer ManagementAuthorizer,
	logger *zap.Logger,
) *instructorService {
	return &instructorService{
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		assignmentRepo: assignmentRepo,
		authorizer:     authorizer,
		logger:         logger,
	}
}

// CreateCourse creates an unpublished course owned by the acting instructor
func (s *instructorService) CreateCourse(ctx context.Context, actor *models.Actor, req *models.CreateCourseRequest) (*models.Course, error) {
	if actor == nil || (actor.Role != models.RoleInstructor && actor.Role != models.RoleAdmin) {
		return nil, models.ErrPermissionDenied
	}

	exists, err := s.courseRepo.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		s.logger.Error("failed to check course slug", zap.Error(err))
		return nil, fmt.Errorf("failed to check course slug: %w", err)
	}
	if exists {
		return nil, models.ErrDuplicateEntry
	}

	currency := req.Currency
	if req.PriceCents == 0 {
		currency = ""
	}

	course := &models.Course{
		InstructorID: actor.ID,
		Slug:         req.Slug,
		Title:        req.Title,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		Currency:     currency,
		Published:    false,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		s.logger.Error("failed to create course", zap.Error(err))
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	return course, nil
}

// ListOwnCourses retrieves all courses owned by the acting instructor,
// published or not
func (s *instructorService) ListOwnCourses(ctx context.Context, actor *models.Actor) ([]models.Course, error) {
	if actor == nil || (actor.Role != models.RoleInstructor && actor.Role != models.RoleAdmin) {
		return nil, models.ErrPermissionDenied
	}

	courses, err := s.courseRepo.ListByInstructor(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to list instructor courses", zap.Error(err), zap.Int64("instructor_id", actor.ID))
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// UpdateCourse applies a partial update to a course the actor manages
func (s *instructorService) UpdateCourse(ctx context.Context, actor *models.Actor, courseID int64, req *models.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.authorizer.AuthorizeCourseManagement(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.PriceCents != nil {
		course.PriceCents = *req.PriceCents
	}
	if req.Currency != nil {
		course.Currency = *req.Currency
	}
	if course.PriceCents == 0 {
		course.Currency = ""
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		s.logger.Error("failed to update course", zap.Error(err), zap.Int64("course_id", courseID))
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	return course, nil
}

// SetCoursePublished flips a course's publish flag. Unpublishing does not
// touch existing enrollments; enrolled students keep their progress and the
// course simply stops accepting new enrollments and content reads.
func (s *instructorService) SetCoursePublished(ctx context.Context, actor *models.Actor, courseID int64, published bool) error {
	if _, err := s.authorizer.AuthorizeCourseManagement(ctx, actor, courseID); err != nil {
		return err
	}

	if err := s.courseRepo.SetPublished(ctx, courseID, published); err != nil {
		s.logger.Error("failed to set course published flag", zap.Error(err), zap.Int64("course_id", courseID))
		return fmt.Errorf("failed to set course published flag: %w", err)
	}

	return nil
}

// CreateLesson adds an unpublished lesson to a course the actor manages
func (s *instructorService) CreateLesson(ctx context.Context, actor *models.Actor, courseID int64, req *models.CreateLessonRequest) (*models.Lesson, error) {
	if _, err := s.authorizer.AuthorizeCourseManagement(ctx, actor, courseID); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		CourseID:  courseID,
		Slug:      req.Slug,
		Title:     req.Title,
		Position:  req.Position,
		Published: false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		s.logger.Error("failed to create lesson", zap.Error(err), zap.Int64("course_id", courseID))
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	return lesson, nil
}

// ListCourseLessons retrieves all lessons of a managed course, including
// unpublished ones
func (s *instructorService) ListCourseLessons(ctx context.Context, actor *models.Actor, courseID int64) ([]models.Lesson, error) {
	if _, err := s.authorizer.AuthorizeCourseManagement(ctx, actor, courseID); err != nil {
		return nil, err
	}

	lessons, err := s.lessonRepo.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("failed to list course lessons", zap.Error(err), zap.Int64("course_id", courseID))
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

// UpdateLesson applies a partial update to a lesson in a managed course
func (s *instructorService) UpdateLesson(ctx context.Context, actor *models.Actor, lessonID int64, req *models.UpdateLessonRequest) (*models.Lesson, error) {
	lesson, err := s.manageableLesson(ctx, actor, lessonID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Position != nil {
		lesson.Position = *req.Position
	}

	if err := s.lessonRepo.Update(ctx, lesson); err != nil {
		s.logger.Error("failed to update lesson", zap.Error(err), zap.Int64("lesson_id", lessonID))
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}

	return lesson, nil
}

// SetLessonPublished flips a lesson's publish flag. Changing the set of
// published lessons changes the progress denominator; stored percentages
// refresh on each student's next completion rather than eagerly here.
func (s *instructorService) SetLessonPublished(ctx context.Context, actor *models.Actor, lessonID int64, published bool) error {
	if _, err := s.manageableLesson(ctx, actor, lessonID); err != nil {
		return err
	}

	if err := s.lessonRepo.SetPublished(ctx, lessonID, published); err != nil {
		s.logger.Error("failed to set lesson published flag", zap.Error(err), zap.Int64("lesson_id", lessonID))
		return fmt.Errorf("failed to set lesson published flag: %w", err)
	}

	return nil
}

// CreateAssignment adds an assignment to a course the actor manages
func (s *instructorService) CreateAssignment(ctx context.Context, actor *models.Actor, courseID int64, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	if _, err := s.authorizer.AuthorizeCourseManagement(ctx, actor, courseID); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		CourseID:  courseID,
		Title:     req.Title,
		Body:      req.Body,
		Published: true,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		s.logger.Error("failed to create assignment", zap.Error(err), zap.Int64("course_id", courseID))
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	return assignment, nil
}

// manageableLesson loads a lesson and checks management rights on its course
func (s *instructorService) manageableLesson(ctx context.Context, actor *models.Actor, lessonID int64) (*models.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		s.logger.Error("failed to get lesson", zap.Error(err), zap.Int64("lesson_id", lessonID))
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	if lesson == nil {
		return nil, models.ErrLessonNotFound
	}

	if _, err := s.authorizer.AuthorizeCourseManagement(ctx, actor, lesson.CourseID); err != nil {
		return nil, err
	}

	return lesson, nil
}
