package handlers

import (
	"context"
	"net/http"

	"github.com/courseloom/backend/internal/middleware"
	"github.com/courseloom/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AssignmentService is the interface that wraps methods for assignment
// business logic.
type AssignmentService interface {
	// Method GetAssignment retrieve an assignment, subject to content
	// authorization on its course.
	GetAssignment(ctx context.Context, actor *models.Actor, assignmentID int64) (*models.Assignment, error)
	// Method Submit store a student's answer. Resubmitting overwrites the
	// stored body.
	Submit(ctx context.Context, actor *models.Actor, assignmentID int64, body string) (*models.Submission, error)
}

// AssignmentHandler handles HTTP requests for assignments
type AssignmentHandler struct {
	BaseHandler
	service AssignmentService
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(svc AssignmentService, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all assignment handler routes
func (h *AssignmentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/assignments", func(r chi.Router) {
		r.Get("/{id}", h.GetAssignment)
		r.Post("/{id}/submissions", h.Submit)
	})
}

// GetAssignment handles GET /api/v1/assignments/{id}
// @Summary Get an assignment
// @Description Get a single assignment; requires access to its course content
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} models.Assignment
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/assignments/{id} [get]
func (h *AssignmentHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	assignment, err := h.service.GetAssignment(r.Context(), middleware.GetActor(r.Context()), assignmentID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, assignment)
}

// Submit handles POST /api/v1/assignments/{id}/submissions
// @Summary Submit an assignment answer
// @Description Store the authenticated student's answer; resubmitting overwrites the previous one
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param request body models.SubmitAssignmentRequest true "Submission body"
// @Success 200 {object} models.Submission
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/assignments/{id}/submissions [post]
func (h *AssignmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	assignmentID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.SubmitAssignmentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	submission, err := h.service.Submit(r.Context(), middleware.GetActor(r.Context()), assignmentID, req.Body)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, submission)
}
