package http

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/healthsweep"
	"github.com/paradoxie/niche-dashboard/internal/infrastructure/observability/metrics"
	"github.com/paradoxie/niche-dashboard/internal/interfaces/http/handler"
	"github.com/paradoxie/niche-dashboard/internal/interfaces/http/middleware"
	"github.com/paradoxie/niche-dashboard/pkg/config"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// Handlers - все HTTP handlers приложения
type Handlers struct {
	Dashboard   *handler.DashboardHandler
	WebSocket   *handler.WebSocketHandler
	Auth        *handler.AuthAPIHandler
	System      *handler.SystemHandler
	Projects    *handler.ProjectAPIHandler
	Backlinks   *handler.RecordAPIHandler[*entity.Backlink]
	Resources   *handler.RecordAPIHandler[*entity.Resource]
	Expenses    *handler.RecordAPIHandler[*entity.Expense]
	Tools       *handler.RecordAPIHandler[*entity.Tool]
	Presets     *handler.PresetAPIHandler
	Analytics   *handler.AnalyticsAPIHandler
	Data        *handler.DataAPIHandler
	Github      *handler.GithubAPIHandler
	HealthSweep *healthsweep.Handler
}

// Router настраивает маршруты приложения
type Router struct {
	handlers  Handlers
	metrics   *metrics.Metrics
	localizer port.Localizer
	security  config.SecurityConfig
	logger    *logger.Logger
}

// NewRouter создает новый router
func NewRouter(
	handlers Handlers,
	metrics *metrics.Metrics,
	localizer port.Localizer,
	security config.SecurityConfig,
	logger *logger.Logger,
) *Router {
	return &Router{
		handlers:  handlers,
		metrics:   metrics,
		localizer: localizer,
		security:  security,
		logger:    logger,
	}
}

// AuthConfig собирает настройки пароля; неудачные попытки считаются в metrics
func AuthConfig(security config.SecurityConfig, m *metrics.Metrics) middleware.AuthConfig {
	cfg := middleware.AuthConfig{
		Enabled:    security.AuthEnabled,
		Password:   security.AdminPassword,
		SessionTTL: security.SessionTTL,
	}
	if m != nil {
		cfg.OnFailure = m.AuthFailures.Inc
	}
	return cfg
}

// StaticFS - встроенные ресурсы UI (index.html, css, js)
func StaticFS() fs.FS {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("failed to initialize embedded static assets: " + err.Error())
	}
	return staticFS
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	h := rt.handlers
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.Recovery(rt.logger),
		middleware.Logger(rt.logger),
		rt.metrics.Middleware,
		middleware.Compression,
	)

	// Health endpoints are intentionally unauthenticated for probes.
	r.Get("/healthz", h.System.Healthz)
	r.Get("/readyz", h.System.Readyz)
	r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(StaticFS())))

	// Страница - только оболочка без данных; вход выполняет сама страница через /api/v1/auth
	r.Get("/", h.Dashboard.ShowDashboard)

	authMiddleware := middleware.Auth(AuthConfig(rt.security, rt.metrics), rt.logger)

	// WebSocket проверяет авторизацию сам (cookie или ?token=)
	r.Get("/ws", h.WebSocket.HandleConnection)

	loginLimiter := middleware.NewIPRateLimiter(rt.security.LoginRPS, rt.security.LoginBurst)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Locale(rt.localizer))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(loginLimiter, rt.metrics.RateLimitDropped.Inc)).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/status", h.Auth.Status)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Route("/projects", h.Projects.Routes)
			r.Route("/backlinks", h.Backlinks.Routes)
			r.Route("/resources", h.Resources.Routes)
			r.Route("/expenses", h.Expenses.Routes)
			r.Route("/tools", h.Tools.Routes)
			r.Route("/presets", h.Presets.Routes)
			r.Get("/analytics", h.Analytics.Get)
			r.Route("/data", h.Data.Routes)
			r.Post("/github/sync", h.Github.Sync)
			r.Route("/health-sweep", h.HealthSweep.Routes)
		})
	})

	return r
}
