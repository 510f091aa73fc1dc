package handlers

import (
	"context"
	"net/http"

	"github.com/courseloom/backend/internal/middleware"
	"github.com/courseloom/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LessonService is the interface that wraps methods for lesson viewing
// business logic.
type LessonService interface {
	// Method GetLesson retrieve a single lesson, subject to content
	// authorization on its course.
	GetLesson(ctx context.Context, actor *models.Actor, lessonID int64) (*models.Lesson, error)
}

// ProgressService is the interface that wraps methods for progress tracking
// business logic.
type ProgressService interface {
	// Method CompleteLesson record a lesson completion for a student and
	// recompute the course progress. Repeated completion of the same lesson
	// returns the existing record as success.
	CompleteLesson(ctx context.Context, studentID, lessonID int64) (*models.LessonCompletion, error)
}

// LessonHandler handles HTTP requests for lesson viewing and completion
type LessonHandler struct {
	BaseHandler
	lessons  LessonService
	progress ProgressService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessons LessonService, progress ProgressService, logger *zap.Logger) *LessonHandler {
	return &LessonHandler{
		BaseHandler: BaseHandler{logger: logger},
		lessons:     lessons,
		progress:    progress,
	}
}

// RegisterRoutes registers all lesson handler routes
func (h *LessonHandler) RegisterRoutes(r chi.Router) {
	r.Route("/lessons", func(r chi.Router) {
		r.Get("/{id}", h.GetLesson)
		r.Post("/{id}/complete", h.CompleteLesson)
	})
}

// GetLesson handles GET /api/v1/lessons/{id}
// @Summary Get a lesson
// @Description Get a single lesson; requires access to its course content
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} models.Lesson
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/lessons/{id} [get]
func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	lesson, err := h.lessons.GetLesson(r.Context(), middleware.GetActor(r.Context()), lessonID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, lesson)
}

// CompleteLesson handles POST /api/v1/lessons/{id}/complete
// @Summary Complete a lesson
// @Description Mark a lesson as completed for the authenticated student; idempotent
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} models.LessonCompletion
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/lessons/{id}/complete [post]
func (h *LessonHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())
	if actor == nil || actor.Role != models.RoleStudent {
		h.respondError(w, http.StatusForbidden, "only students can complete lessons")
		return
	}

	// Viewing implies content authorization, including the payment gate.
	if _, err := h.lessons.GetLesson(r.Context(), actor, lessonID); err != nil {
		h.respondDomainError(w, err)
		return
	}

	completion, err := h.progress.CompleteLesson(r.Context(), actor.ID, lessonID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, completion)
}
