package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"goodplace/internal/delivery/http/helpers"
	"goodplace/internal/delivery/http/middleware"
	"goodplace/internal/domain"
)

type ParticipantController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewParticipantController(logger *slog.Logger, svc domain.RegistrationService) *ParticipantController {
	return &ParticipantController{
		Logger:  logger,
		Service: svc,
	}
}

// validID reports whether s is a UUID as stored by the database.
func validID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// pathEventID reads and validates the eventID path value. On failure it writes a 400 and returns false.
func pathEventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return "", false
	}
	if !validID(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return "", false
	}
	return eventID, true
}

// writeServiceError maps domain errors to API errors and logs anything unexpected.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the event's company owner can cancel another user's participation")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeAlreadyRegistered, "already registered for this event")
	case errors.Is(err, domain.ErrEventNotOpen):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeEventNotOpen, "event is not open for registration")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}

// ListParticipantsResponse is the data payload for GET /events/{eventID}/participants.
type ListParticipantsResponse struct {
	Participants []*domain.ParticipantWithUser `json:"participants"`
	domain.ParticipantCounts
}

// ListParticipantsSuccessResponse is the success response envelope for GET /events/{eventID}/participants (200).
type ListParticipantsSuccessResponse struct {
	Data  ListParticipantsResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// ListParticipants godoc
// @Summary List an event's participants
// @Description Returns every participation for the event, cancelled ones included, oldest first, with user display fields and derived confirmed and waitlist counts.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListParticipantsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants [get]
func (c *ParticipantController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}

	list, err := c.Service.ListParticipants(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	if list == nil {
		list = []*domain.ParticipantWithUser{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListParticipantsResponse{
		Participants:      list,
		ParticipantCounts: domain.CountParticipants(list),
	})
}

// RegisterSuccessResponse is the success response envelope for POST /events/{eventID}/participants (201).
type RegisterSuccessResponse struct {
	Data  *domain.RegistrationResult `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// Register godoc
// @Summary Register the current user for an event
// @Description Registers the authenticated user. The participation is confirmed while seats remain, otherwise it joins the waitlist; message tells which. A previously cancelled participation is reactivated.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.RegisterSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, already_registered or event_not_open"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants [post]
func (c *ParticipantController) Register(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	result, err := c.Service.Register(r.Context(), eventID, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// CancelResponse is the data payload for DELETE /events/{eventID}/participants.
type CancelResponse struct {
	Promoted bool `json:"promoted"`
}

// CancelSuccessResponse is the success response envelope for DELETE /events/{eventID}/participants (200).
type CancelSuccessResponse struct {
	Data  CancelResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Cancel godoc
// @Summary Cancel a participation
// @Description Cancels the authenticated user's participation, or another user's when userId is given and the caller owns the event's company. Cancelling a confirmed seat promotes the oldest waitlisted participant.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param userId query string false "User to cancel (UUID); defaults to the caller"
// @Success 200 {object} controllers.CancelSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants [delete]
func (c *ParticipantController) Cancel(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}
	targetUserID := r.URL.Query().Get("userId")
	if targetUserID != "" && !validID(targetUserID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid userId")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	result, err := c.Service.Cancel(r.Context(), eventID, userID, targetUserID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "no active participation found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CancelResponse{Promoted: result.WasPromoted()})
}
