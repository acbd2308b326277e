package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"clubmanagement/internal/delivery/http/helpers"
	"clubmanagement/internal/delivery/http/middleware"
	"clubmanagement/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type AttendanceController struct {
	Logger  *slog.Logger
	Service domain.AttendanceService
}

func NewAttendanceController(logger *slog.Logger, svc domain.AttendanceService) *AttendanceController {
	return &AttendanceController{
		Logger:  logger,
		Service: svc,
	}
}

// pathEventID validates the eventID path value. Writes a 400 and returns
// false when missing or malformed.
func pathEventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return "", false
	}
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return "", false
	}
	return eventID, true
}

// RosterSuccessResponse is the success response envelope for GET /events/{eventID}/attendees (200).
type RosterSuccessResponse struct {
	Data  *domain.EventRoster `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// Roster godoc
// @Summary Get the attendee roster for an event
// @Description Returns the event's registrants with their current present status. Committed attendance is overlaid with the requesting coordinator's saved draft, if any. Requires coordinator or admin role.
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RosterSuccessResponse "data contains the roster"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendees [get]
func (c *AttendanceController) Roster(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	roster, err := c.Service.Roster(r.Context(), eventID, *requester)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, roster)
}

// MarkOneRequest is the request body for POST /events/{eventID}/attendance/{studentID}.
type MarkOneRequest struct {
	Present *bool `json:"present"`
}

// Validate implements helpers.Validator.
func (m *MarkOneRequest) Validate() []string {
	if m.Present == nil {
		return []string{"present is required"}
	}
	return nil
}

// MarkOne godoc
// @Summary Mark attendance for a single student
// @Description Sets one registration's attended value prior to finalization. Requires coordinator or admin role. Rejected once attendance has been submitted.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param studentID path string true "Student ID (UUID)"
// @Param body body controllers.MarkOneRequest true "Present flag"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event or registration)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (attendance already submitted)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendance/{studentID} [post]
func (c *AttendanceController) MarkOne(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	studentID := r.PathValue("studentID")
	if studentID == "" || !uuidRegex.MatchString(studentID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid studentID")
		return
	}
	var req MarkOneRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	err := c.Service.MarkOne(r.Context(), eventID, studentID, *req.Present, *requester)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event or registration not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrAlreadyFinalized) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "attendance has already been submitted for this event")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "attendance marked"})
}

// MarksRequest is the request body for saving or submitting attendance marks.
type MarksRequest struct {
	Marks []domain.AttendanceMark `json:"marks"`
}

// Validate implements helpers.Validator.
func (m *MarksRequest) Validate() []string {
	var errs []string
	for i, mark := range m.Marks {
		if mark.StudentID == "" {
			errs = append(errs, fmt.Sprintf("marks[%d].student_id is required", i))
		}
	}
	return errs
}

// SaveProgress godoc
// @Summary Save attendance progress for later completion
// @Description Upserts the requesting coordinator's draft marks for the event. Drafts are private scratch space and never trigger certificates.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.MarksRequest true "Full replacement list of marks"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendance/save [post]
func (c *AttendanceController) SaveProgress(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	var req MarksRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	err := c.Service.SaveProgress(r.Context(), eventID, *requester, req.Marks)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "attendance progress saved"})
}

// LoadProgressSuccessResponse is the success response envelope for GET /events/{eventID}/attendance/saved (200).
type LoadProgressSuccessResponse struct {
	Data  []domain.AttendanceMark `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// LoadProgress godoc
// @Summary Get saved attendance progress
// @Description Returns the requesting coordinator's most recently saved draft marks, or an empty list if none exists.
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.LoadProgressSuccessResponse "data is the list of saved marks"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendance/saved [get]
func (c *AttendanceController) LoadProgress(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	marks, err := c.Service.LoadProgress(r.Context(), eventID, *requester)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, marks)
}

// SubmitSuccessResponse is the success response envelope for POST /events/{eventID}/attendance/submit (200).
type SubmitSuccessResponse struct {
	Data  *domain.SubmitResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Submit godoc
// @Summary Submit final attendance for an event
// @Description Applies the marks to the event's registrations, flips the event to attendance-completed exactly once, issues certificates for present students, and discards the requester's draft. A second submission fails with 409. Certificate and email failures never fail the submission; they are counted in the result.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.MarksRequest true "Final list of marks"
// @Success 200 {object} controllers.SubmitSuccessResponse "data contains certificates_generated"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (attendance already submitted)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendance/submit [post]
func (c *AttendanceController) Submit(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	var req MarksRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	requester, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	result, err := c.Service.Submit(r.Context(), eventID, *requester, req.Marks)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrAlreadyFinalized) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "attendance has already been submitted for this event")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
