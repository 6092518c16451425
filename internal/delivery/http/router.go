package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"goodplace/internal/delivery/http/controllers"
	"goodplace/internal/delivery/http/helpers"
	"goodplace/internal/delivery/http/middleware"
	"goodplace/internal/domain"
	"goodplace/internal/metrics"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	participantController *controllers.ParticipantController,
	eventController *controllers.EventController,
	userController *controllers.UserController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)

	// Participants
	mux.HandleFunc("GET /events/{eventID}/participants", auth(participantController.ListParticipants))
	mux.HandleFunc("POST /events/{eventID}/participants", auth(participantController.Register))
	mux.HandleFunc("DELETE /events/{eventID}/participants", auth(participantController.Cancel))

	// Users
	mux.HandleFunc("GET /users/me/participations", auth(userController.ListMyParticipations))

	// Ops
	mux.HandleFunc("GET /health", health)
	mux.Handle("GET /metrics", metrics.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// WithMiddleware wraps the router with metrics, request logging and CORS.
// Metrics must stay outermost and none of the layers may replace the request,
// so the matched route pattern is visible after the mux returns.
func WithMiddleware(mux *http.ServeMux, logger *slog.Logger, allowedOrigins []string) http.Handler {
	return middleware.Metrics(middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux)))
}

func health(w http.ResponseWriter, _ *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
