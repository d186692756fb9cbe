package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"virtualbarcamp/internal/delivery/http/controllers"
	"virtualbarcamp/internal/delivery/http/middleware"
	"virtualbarcamp/internal/domain"
)

// RouterConfig carries the settings the middleware stack needs.
type RouterConfig struct {
	Debug          bool
	DevServer      string
	AllowedOrigins []string
	// CSRFKey must be 32 bytes.
	CSRFKey      []byte
	SecureCookie bool
}

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Grid          *controllers.GridController
	Settings      *controllers.SettingsController
	Subscriptions *controllers.SubscriptionController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig, c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	staff := func(h http.HandlerFunc) http.HandlerFunc { return auth(middleware.RequireStaff(h)) }

	mux.HandleFunc("GET /up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Grid
	mux.HandleFunc("GET /grid", auth(c.Grid.GetGrid))
	mux.HandleFunc("GET /speakers", auth(c.Grid.ListSpeakers))
	mux.HandleFunc("POST /grid/talks", auth(c.Grid.AddTalk))
	mux.HandleFunc("POST /grid/talks/{talkID}/move", auth(c.Grid.MoveTalk))
	mux.HandleFunc("PATCH /grid/talks/{talkID}", auth(c.Grid.UpdateTalk))
	mux.HandleFunc("DELETE /grid/slots/{slotID}/talk", auth(c.Grid.RemoveTalk))

	// Settings
	mux.HandleFunc("GET /settings", auth(c.Settings.GetSettings))
	mux.HandleFunc("POST /settings/event-state", staff(c.Settings.TransitionEventState))
	mux.HandleFunc("PATCH /rooms/{roomID}", staff(c.Settings.UpdateRoom))

	// Subscriptions
	mux.HandleFunc("GET /subscriptions", auth(c.Subscriptions.Subscribe))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.Chain(mux,
		middleware.CSRF(cfg.CSRFKey, cfg.SecureCookie, cfg.AllowedOrigins),
		middleware.SecurityHeaders(cfg.Debug, cfg.DevServer),
		func(h http.Handler) http.Handler { return middleware.CORS(cfg.AllowedOrigins, h) },
		func(h http.Handler) http.Handler { return middleware.LoggingMiddleware(logger, h) },
	)
}
