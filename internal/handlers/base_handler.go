// Package handlers contains the HTTP layer of the application
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/courseloom/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

const (
	defaultPageCount = 20
	maxPageCount     = 100
)

type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// respondDomainError maps domain errors to HTTP statuses. Anything outside
// the known set is a 500 with a generic message; the cause is already
// logged at the service layer.
func (h *BaseHandler) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrCourseNotFound),
		errors.Is(err, models.ErrCourseNotAvailable),
		errors.Is(err, models.ErrLessonNotFound),
		errors.Is(err, models.ErrLessonNotAvailable),
		errors.Is(err, models.ErrAssignmentNotFound),
		errors.Is(err, models.ErrEnrollmentNotFound),
		errors.Is(err, models.ErrPaymentNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, models.ErrAlreadyEnrolled),
		errors.Is(err, models.ErrPaymentMismatch),
		errors.Is(err, models.ErrDuplicateEntry):
		h.respondError(w, http.StatusConflict, err.Error())

	case errors.Is(err, models.ErrPaymentRequired),
		errors.Is(err, models.ErrPaymentNotCompleted):
		h.respondError(w, http.StatusPaymentRequired, err.Error())

	case errors.Is(err, models.ErrNotEnrolled),
		errors.Is(err, models.ErrPermissionDenied):
		h.respondError(w, http.StatusForbidden, err.Error())

	default:
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeAndValidate decodes a JSON request body into dst and validates it.
// Returns false after writing the error response when the body is unusable.
func (h *BaseHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

// pathID parses an int64 path parameter
func (h *BaseHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	idParam := chi.URLParam(r, name)
	if idParam == "" {
		h.respondError(w, http.StatusBadRequest, name+" parameter is required")
		return 0, false
	}

	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid "+name+" parameter")
		return 0, false
	}

	return id, true
}

// pagination parses page/count query parameters with defaults
func (h *BaseHandler) pagination(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	page := 1
	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		parsed, err := strconv.Atoi(pageParam)
		if err != nil || parsed < 1 {
			h.respondError(w, http.StatusBadRequest, "invalid page parameter")
			return 0, 0, false
		}
		page = parsed
	}

	count := defaultPageCount
	if countParam := r.URL.Query().Get("count"); countParam != "" {
		parsed, err := strconv.Atoi(countParam)
		if err != nil || parsed < 1 || parsed > maxPageCount {
			h.respondError(w, http.StatusBadRequest, "invalid count parameter")
			return 0, 0, false
		}
		count = parsed
	}

	return page, count, true
}
