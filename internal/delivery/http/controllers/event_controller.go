package controllers

import (
	"log/slog"
	"net/http"

	"goodplace/internal/delivery/http/helpers"
	"goodplace/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewEventController(logger *slog.Logger, svc domain.RegistrationService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// GetEventSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type GetEventSuccessResponse struct {
	Data  *domain.EventDetail `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// GetEvent godoc
// @Summary Get an event
// @Description Returns the event with its current confirmed and waitlist counts.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathEventID(w, r)
	if !ok {
		return
	}

	detail, err := c.Service.GetEventDetail(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}
