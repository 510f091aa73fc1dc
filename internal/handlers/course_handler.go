package handlers

import (
	"context"
	"net/http"

	"github.com/courseloom/backend/internal/middleware"
	"github.com/courseloom/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogService is the interface that wraps methods for course catalog
// business logic.
type CatalogService interface {
	// Method ListCourses retrieve a page of published courses using configured repository.
	//
	// "page" and "count" parameters control pagination; page numbering starts at 1.
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	ListCourses(ctx context.Context, page, count int) ([]models.CourseListItem, error)
	// Method GetCourse retrieve a course detail with the caller's enrollment state.
	//
	// "actor" is the acting user, nil when anonymous.
	// "courseID" is the ID of the course.
	// If the course is absent or not visible to the actor, models.ErrCourseNotFound will be returned.
	GetCourse(ctx context.Context, actor *models.Actor, courseID int64) (*models.CourseDetailResponse, error)
	// Method GetLessons retrieve a course's published lessons with the caller's completion state.
	//
	// Access requires content authorization; reference the access service for the rules.
	GetLessons(ctx context.Context, actor *models.Actor, courseID int64) ([]models.LessonListItem, error)
}

// EnrollmentService is the interface that wraps methods for enrollment
// business logic.
type EnrollmentService interface {
	// Method Enroll enrolls a student into a course.
	//
	// "paymentID" references a completed payment and is required for priced courses.
	// Domain errors describe every refusal; reference the models error values.
	Enroll(ctx context.Context, studentID, courseID int64, paymentID *int64) (*models.Enrollment, error)
	// Method ListEnrollments retrieve all enrollments of a student.
	ListEnrollments(ctx context.Context, studentID int64) ([]models.Enrollment, error)
}

// CourseHandler handles HTTP requests for the course catalog and enrollment
type CourseHandler struct {
	BaseHandler
	catalog     CatalogService
	enrollments EnrollmentService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(catalog CatalogService, enrollments EnrollmentService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: BaseHandler{logger: logger},
		catalog:     catalog,
		enrollments: enrollments,
	}
}

// RegisterRoutes registers catalog routes behind optional authentication and
// enrollment routes behind required authentication
func (h *CourseHandler) RegisterRoutes(r chi.Router, optionalAuth, requireAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/courses", h.ListCourses)
		r.Get("/courses/{id}", h.GetCourse)
		r.Get("/courses/{id}/lessons", h.GetLessons)
	})
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/courses/{id}/enroll", h.Enroll)
		r.Get("/enrollments", h.ListEnrollments)
	})
}

// ListCourses handles GET /api/v1/courses
// @Summary List published courses
// @Description Get a page of the public course catalog
// @Tags courses
// @Accept json
// @Produce json
// @Param page query int false "Page number, default: 1"
// @Param count query int false "Page size, default: 20, max: 100"
// @Success 200 {array} models.CourseListItem
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/courses [get]
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	page, count, ok := h.pagination(w, r)
	if !ok {
		return
	}

	courses, err := h.catalog.ListCourses(r.Context(), page, count)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /api/v1/courses/{id}
// @Summary Get course detail
// @Description Get a course with the caller's enrollment state
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.CourseDetailResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/courses/{id} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	course, err := h.catalog.GetCourse(r.Context(), middleware.GetActor(r.Context()), courseID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, course)
}

// GetLessons handles GET /api/v1/courses/{id}/lessons
// @Summary List course lessons
// @Description Get a course's published lessons with the caller's completion state
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {array} models.LessonListItem
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/courses/{id}/lessons [get]
func (h *CourseHandler) GetLessons(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	lessons, err := h.catalog.GetLessons(r.Context(), middleware.GetActor(r.Context()), courseID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, lessons)
}

// Enroll handles POST /api/v1/courses/{id}/enroll
// @Summary Enroll into a course
// @Description Enroll the authenticated student into a course; priced courses require a completed payment reference
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.EnrollRequest false "Enrollment request"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	actor := middleware.GetActor(r.Context())
	if actor == nil || actor.Role != models.RoleStudent {
		h.respondError(w, http.StatusForbidden, "only students can enroll")
		return
	}

	// The body is optional: free courses need no payment reference.
	var req models.EnrollRequest
	if r.ContentLength > 0 {
		if !h.decodeAndValidate(w, r, &req) {
			return
		}
	}

	enrollment, err := h.enrollments.Enroll(r.Context(), actor.ID, courseID, req.PaymentID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, enrollment)
}

// ListEnrollments handles GET /api/v1/enrollments
// @Summary List own enrollments
// @Description Get all enrollments of the authenticated student
// @Tags courses
// @Accept json
// @Produce json
// @Success 200 {array} models.Enrollment
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/enrollments [get]
func (h *CourseHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	if actor == nil {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	enrollments, err := h.enrollments.ListEnrollments(r.Context(), actor.ID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, enrollments)
}
