package handlers

import (
	"context"
	"net/http"

	"github.com/courseloom/backend/internal/middleware"
	"github.com/courseloom/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// InstructorService is the interface that wraps methods for the instructor
// back office.
type InstructorService interface {
	CreateCourse(ctx context.Context, actor *models.Actor, req *models.CreateCourseRequest) (*models.Course, error)
	ListOwnCourses(ctx context.Context, actor *models.Actor) ([]models.Course, error)
	UpdateCourse(ctx context.Context, actor *models.Actor, courseID int64, req *models.UpdateCourseRequest) (*models.Course, error)
	SetCoursePublished(ctx context.Context, actor *models.Actor, courseID int64, published bool) error
	CreateLesson(ctx context.Context, actor *models.Actor, courseID int64, req *models.CreateLessonRequest) (*models.Lesson, error)
	ListCourseLessons(ctx context.Context, actor *models.Actor, courseID int64) ([]models.Lesson, error)
	UpdateLesson(ctx context.Context, actor *models.Actor, lessonID int64, req *models.UpdateLessonRequest) (*models.Lesson, error)
	SetLessonPublished(ctx context.Context, actor *models.Actor, lessonID int64, published bool) error
	CreateAssignment(ctx context.Context, actor *models.Actor, courseID int64, req *models.CreateAssignmentRequest) (*models.Assignment, error)
}

// publishRequest is the body of the publish toggles
type publishRequest struct {
	Published bool `json:"published"`
}

// InstructorHandler handles HTTP requests for the instructor back office
type InstructorHandler struct {
	BaseHandler
	service InstructorService
}

// NewInstructorHandler creates a new instructor handler
func NewInstructorHandler(svc InstructorService, logger *zap.Logger) *InstructorHandler {
	return &InstructorHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all instructor handler routes
func (h *InstructorHandler) RegisterRoutes(r chi.Router) {
	r.Route("/instructor", func(r chi.Router) {
		r.Route("/courses", func(r chi.Router) {
			r.Post("/", h.CreateCourse)
			r.Get("/", h.ListOwnCourses)
			r.Patch("/{id}", h.UpdateCourse)
			r.Put("/{id}/publish", h.SetCoursePublished)
			r.Post("/{id}/lessons", h.CreateLesson)
			r.Get("/{id}/lessons", h.ListCourseLessons)
			r.Post("/{id}/assignments", h.CreateAssignment)
		})
		r.Route("/lessons", func(r chi.Router) {
			r.Patch("/{id}", h.UpdateLesson)
			r.Put("/{id}/publish", h.SetLessonPublished)
		})
	})
}

// CreateCourse handles POST /api/v1/instructor/courses
// @Summary Create a course
// @Description Create an unpublished course owned by the authenticated instructor
// @Tags instructor
// @Accept json
// @Produce json
// @Param request body models.CreateCourseRequest true "Course definition"
// @Success 201 {object} models.Course
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/instructor/courses [post]
func (h *InstructorHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	course, err := h.service.CreateCourse(r.Context(), middleware.GetActor(r.Context()), &req)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, course)
}

// ListOwnCourses handles GET /api/v1/instructor/courses
// @Summary List own courses
// @Description List all courses owned by the authenticated instructor, published or not
// @Tags instructor
// @Accept json
// @Produce json
// @Success 200 {array} models.Course
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/instructor/courses [get]
func (h *InstructorHandler) ListOwnCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListOwnCourses(r.Context(), middleware.GetActor(r.Context()))
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, courses)
}

// UpdateCourse handles PATCH /api/v1/instructor/courses/{id}
// @Summary Update a course
// @Description Apply a partial update to an owned course
// @Tags instructor
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} models.Course
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/instructor/courses/{id} [patch]
func (h *InstructorHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateCourseRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	course, err := h.service.UpdateCourse(r.Context(), middleware.GetActor(r.Context()), courseID, &req)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, course)
}

// SetCoursePublished handles PUT /api/v1/instructor/courses/{id}/publish
// @Summary Publish or unpublish a course
// @Description Flip the publish flag of an owned course
// @Tags instructor
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body publishRequest true "Publish flag"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/instructor/courses/{id}/publish [put]
func (h *InstructorHandler) SetCoursePublished(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req publishRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.SetCoursePublished(r.Context(), middleware.GetActor(r.Context()), courseID, req.Published); err != nil {
		h.respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateLesson handles POST /api/v1/instructor/courses/{id}/lessons
// @Summary Create a lesson
// @Description Add an unpublished lesson to an owned course
// @Tags instructor
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.CreateLessonRequest true "Lesson definition"
// @Success 201 {object} models.Lesson
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/instructor/courses/{id}/lessons [post]
func (h *InstructorHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.CreateLessonRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	lesson, err := h.service.CreateLesson(r.Context(), middleware.GetActor(r.Context()), courseID, &req)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, lesson)
}

// ListCourseLessons handles GET /api/v1/instructor/courses/{id}/lessons
// @Summary List lessons of an owned course
// @Description List all lessons of an owned course, including unpublished ones
// @Tags instructor
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {array} models.Lesson
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/instructor/courses/{id}/lessons [get]
func (h *InstructorHandler) ListCourseLessons(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	lessons, err := h.service.ListCourseLessons(r.Context(), middleware.GetActor(r.Context()), courseID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, lessons)
}

// UpdateLesson handles PATCH /api/v1/instructor/lessons/{id}
// @Summary Update a lesson
// @Description Apply a partial update to a lesson in an owned course
// @Tags instructor
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param request body models.UpdateLessonRequest true "Fields to update"
// @Success 200 {object} models.Lesson
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/instructor/lessons/{id} [patch]
func (h *InstructorHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateLessonRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	lesson, err := h.service.UpdateLesson(r.Context(), middleware.GetActor(r.Context()), lessonID, &req)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, lesson)
}

// SetLessonPublished handles PUT /api/v1/instructor/lessons/{id}/publish
// @Summary Publish or unpublish a lesson
// @Description Flip the publish flag of a lesson in an owned course
// @Tags instructor
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param request body publishRequest true "Publish flag"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/instructor/lessons/{id}/publish [put]
func (h *InstructorHandler) SetLessonPublished(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req publishRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.SetLessonPublished(r.Context(), middleware.GetActor(r.Context()), lessonID, req.Published); err != nil {
		h.respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateAssignment handles POST /api/v1/instructor/courses/{id}/assignments
// @Summary Create an assignment
// @Description Add an assignment to an owned course
// @Tags instructor
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.CreateAssignmentRequest true "Assignment definition"
// @Success 201 {object} models.Assignment
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security ApiKeyAuth
// @Router /api/v1/instructor/courses/{id}/assignments [post]
func (h *InstructorHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.CreateAssignmentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	assignment, err := h.service.CreateAssignment(r.Context(), middleware.GetActor(r.Context()), courseID, &req)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, assignment)
}
