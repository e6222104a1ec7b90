package adapthttp

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"

	"quitplan/internal/app"
	"quitplan/internal/metrics"
)

// Services bundles the application services the HTTP adapter drives.
type Services struct {
	Consumption *app.ConsumptionService
	Profiles    *app.ProfileService
	Progress    *app.ProgressService
	Stats       *app.StatsService
	Auth        *app.AuthService
}

// OIDCConfig holds the single sign-on provider. Enabled is false when no
// issuer is configured.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	consumption *app.ConsumptionService
	profiles    *app.ProfileService
	progress    *app.ProgressService
	stats       *app.StatsService
	authSvc     *app.AuthService
	oidcConfig  OIDCConfig
	webDir      string
	metrics     *metrics.Metrics
	log         *slog.Logger
	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(svc Services, oidcConfig OIDCConfig, webDir string, m *metrics.Metrics, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		consumption: svc.Consumption,
		profiles:    svc.Profiles,
		progress:    svc.Progress,
		stats:       svc.Stats,
		authSvc:     svc.Auth,
		oidcConfig:  oidcConfig,
		webDir:      webDir,
		metrics:     m,
		log:         log,
	}
}

// WithoutAuth disables authentication; every request acts as user 1.
// Tests only.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	root := mux.NewRouter()
	root.Use(s.loggingMiddleware)
	root.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := root.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)
	api.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)

	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/setup", s.handleSetupUser).Methods(http.MethodPost)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin).Methods(http.MethodGet)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.authMiddleware)

	protected.HandleFunc("/consumption", s.handleConsumptionRecord).Methods(http.MethodPost)
	protected.HandleFunc("/consumption/recent", s.handleConsumptionRecent).Methods(http.MethodGet)
	protected.HandleFunc("/consumption/undo-last", s.handleConsumptionUndoLast).Methods(http.MethodPost)
	protected.HandleFunc("/consumption/{id}", s.handleConsumptionDelete).Methods(http.MethodDelete)

	protected.HandleFunc("/profile", s.handleProfileGet).Methods(http.MethodGet)
	protected.HandleFunc("/profile", s.handleProfileUpdate).Methods(http.MethodPut)
	protected.HandleFunc("/profile/program", s.handleProgramSet).Methods(http.MethodPut)
	protected.HandleFunc("/profile/program", s.handleProgramClear).Methods(http.MethodDelete)

	protected.HandleFunc("/progress/today", s.handleProgressToday).Methods(http.MethodGet)
	protected.HandleFunc("/progress/week", s.handleProgressWeek).Methods(http.MethodGet)
	protected.HandleFunc("/progress/projection", s.handleProgressProjection).Methods(http.MethodGet)

	protected.HandleFunc("/stats/daily", s.handleStatsDaily).Methods(http.MethodGet)
	protected.HandleFunc("/stats/triggers", s.handleStatsTriggers).Methods(http.MethodGet)

	root.PathPrefix("/").MatcherFunc(notAPI).Handler(spaFromDisk(s.webDir))

	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(slog.NewLogLogger(s.log.Handler(), slog.LevelError)))
	return recovery(withNoCache(root))
}

// notAPI keeps unknown /api paths out of the SPA fallback so they 404 or
// 405 instead of serving index.html.
func notAPI(r *http.Request, _ *mux.RouteMatch) bool {
	return r.URL.Path != "/api" && !strings.HasPrefix(r.URL.Path, "/api/")
}
