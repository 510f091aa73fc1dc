package handlers

import (
	"context"
	"net/http"

	"github.com/courseloom/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminEnrollmentService is the interface that wraps the administrative
// enrollment operations.
type AdminEnrollmentService interface {
	// Method RemoveEnrollment delete an enrollment. Normal flows never
	// delete enrollments; this is the explicit administrative path.
	RemoveEnrollment(ctx context.Context, studentID, courseID int64) error
	// Method ListEnrollments retrieve all enrollments of a student.
	ListEnrollments(ctx context.Context, studentID int64) ([]models.Enrollment, error)
}

// AdminHandler handles administrative HTTP requests. All routes are
// registered behind the admin role middleware.
type AdminHandler struct {
	BaseHandler
	enrollments AdminEnrollmentService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(enrollments AdminEnrollmentService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: BaseHandler{logger: logger},
		enrollments: enrollments,
	}
}

// RegisterRoutes registers all admin handler routes
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/students/{studentID}/enrollments", h.ListStudentEnrollments)
		r.Delete("/students/{studentID}/courses/{courseID}/enrollment", h.RemoveEnrollment)
	})
}

// ListStudentEnrollments handles GET /api/v1/admin/students/{studentID}/enrollments
// @Summary List a student's enrollments
// @Description Get all enrollments of a student (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Param studentID path int true "Student ID"
// @Success 200 {array} models.Enrollment
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/admin/students/{studentID}/enrollments [get]
func (h *AdminHandler) ListStudentEnrollments(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.pathID(w, r, "studentID")
	if !ok {
		return
	}

	enrollments, err := h.enrollments.ListEnrollments(r.Context(), studentID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, enrollments)
}

// RemoveEnrollment handles DELETE /api/v1/admin/students/{studentID}/courses/{courseID}/enrollment
// @Summary Remove an enrollment
// @Description Delete a student's enrollment in a course (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Param studentID path int true "Student ID"
// @Param courseID path int true "Course ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/admin/students/{studentID}/courses/{courseID}/enrollment [delete]
func (h *AdminHandler) RemoveEnrollment(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.pathID(w, r, "studentID")
	if !ok {
		return
	}
	courseID, ok := h.pathID(w, r, "courseID")
	if !ok {
		return
	}

	if err := h.enrollments.RemoveEnrollment(r.Context(), studentID, courseID); err != nil {
		h.respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
