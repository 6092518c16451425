package controllers

import (
	"log/slog"
	"net/http"

	"goodplace/internal/delivery/http/helpers"
	"goodplace/internal/delivery/http/middleware"
	"goodplace/internal/domain"
)

type UserController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewUserController(logger *slog.Logger, svc domain.RegistrationService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// ListMyParticipationsResponse is the data payload for GET /users/me/participations.
type ListMyParticipationsResponse struct {
	Items      []*domain.ParticipationWithEvent `json:"items"`
	Pagination helpers.PaginationMeta           `json:"pagination"`
}

// ListMyParticipationsSuccessResponse is the success response envelope for GET /users/me/participations (200).
type ListMyParticipationsSuccessResponse struct {
	Data  ListMyParticipationsResponse `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// ListMyParticipations godoc
// @Summary List the current user's participations
// @Description Returns the authenticated user's participations with their events, newest first. Cancelled participations are included.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListMyParticipationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me/participations [get]
func (c *UserController) ListMyParticipations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	params := helpers.ParsePagination(r)
	items, total, err := c.Service.ListMyParticipations(r.Context(), userID, params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "not found")
		return
	}
	if items == nil {
		items = []*domain.ParticipationWithEvent{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListMyParticipationsResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}
