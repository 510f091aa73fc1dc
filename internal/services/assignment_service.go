package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courseloom/backend/internal/models"
	"go.uber.org/zap"
)

// AssignmentRepository defines the assignment and submission data access
// used by the assignment service
type AssignmentRepository interface {
	// GetByID retrieves an assignment by its ID, nil when absent.
	GetByID(ctx context.Context, id int64) (*models.Assignment, error)
	// GetSubmission retrieves a student's submission, nil when absent.
	GetSubmission(ctx context.Context, assignmentID, studentID int64) (*models.Submission, error)
	// CreateSubmission inserts a submission row; returns
	// models.ErrDuplicateEntry when the (assignment_id, student_id) unique
	// key is violated.
	CreateSubmission(ctx context.Context, submission *models.Submission) error
	// UpdateSubmission overwrites the stored body for a resubmission.
	UpdateSubmission(ctx context.Context, submission *models.Submission) error
}

type assignmentService struct {
	assignmentRepo AssignmentRepository
	authorizer     Authorizer
	logger         *zap.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	assignmentRepo AssignmentRepository,
	authorizer Authorizer,
	logger *zap.Logger,
) *assignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		authorizer:     authorizer,
		logger:         logger,
	}
}

// GetAssignment retrieves an assignment, subject to content authorization
// on its course. Unpublished assignments read as absent for students.
func (s *assignmentService) GetAssignment(ctx context.Context, actor *models.Actor, assignmentID int64) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		s.logger.Error("failed to get assignment", zap.Error(err), zap.Int64("assignment_id", assignmentID))
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, models.ErrAssignmentNotFound
	}

	course, err := s.authorizer.AuthorizeCourseContent(ctx, actor, assignment.CourseID)
	if err != nil {
		return nil, err
	}

	if !assignment.Published {
		if actor == nil || actor.Role == models.RoleStudent {
			return nil, models.ErrAssignmentNotFound
		}
		if actor.Role == models.RoleInstructor && course.InstructorID != actor.ID {
			return nil, models.ErrAssignmentNotFound
		}
	}

	return assignment, nil
}

// Submit stores a student's answer to an assignment. One submission exists
// per (assignment, student); resubmitting overwrites the stored body. A
// concurrent first submission that loses the insert race falls through to
// the overwrite path, so the last writer wins either way.
func (s *assignmentService) Submit(ctx context.Context, actor *models.Actor, assignmentID int64, body string) (*models.Submission, error) {
	if actor == nil || actor.Role != models.RoleStudent {
		return nil, models.ErrPermissionDenied
	}

	assignment, err := s.GetAssignment(ctx, actor, assignmentID)
	if err != nil {
		return nil, err
	}

	submission := &models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    actor.ID,
		Body:         body,
		SubmittedAt:  time.Now().UTC(),
	}

	existing, err := s.assignmentRepo.GetSubmission(ctx, assignment.ID, actor.ID)
	if err != nil {
		s.logger.Error("failed to check existing submission", zap.Error(err))
		return nil, fmt.Errorf("failed to check submission: %w", err)
	}

	if existing == nil {
		err := s.assignmentRepo.CreateSubmission(ctx, submission)
		if err == nil {
			return submission, nil
		}
		if !errors.Is(err, models.ErrDuplicateEntry) {
			s.logger.Error("failed to create submission", zap.Error(err),
				zap.Int64("assignment_id", assignment.ID), zap.Int64("student_id", actor.ID))
			return nil, fmt.Errorf("failed to create submission: %w", err)
		}
	}

	if err := s.assignmentRepo.UpdateSubmission(ctx, submission); err != nil {
		s.logger.Error("failed to update submission", zap.Error(err),
			zap.Int64("assignment_id", assignment.ID), zap.Int64("student_id", actor.ID))
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}

	stored, err := s.assignmentRepo.GetSubmission(ctx, assignment.ID, actor.ID)
	if err != nil {
		s.logger.Error("failed to read submission after update", zap.Error(err))
		return nil, fmt.Errorf("failed to read submission: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("submission missing after update")
	}

	return stored, nil
}
