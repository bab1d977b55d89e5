package handler

import (
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/tasknest/tasknest/internal/audit"
	"github.com/tasknest/tasknest/internal/middleware"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Users    *UserHandler
	Todos    *TodoHandler
	Managers *ManagerHandler
	Comments *CommentHandler
	Metrics  *MetricsHandler
}

// RouterConfig holds the middleware and handlers for the API router.
type RouterConfig struct {
	Logger             *slog.Logger
	IsDevelopment      bool
	CORS               middleware.CORSConfig
	MaxRequestBodySize int64
	// TrustedProxies are the peers whose forwarding headers are honoured.
	TrustedProxies []netip.Prefix

	Authenticate func(http.Handler) http.Handler
	RequireAdmin func(http.Handler) http.Handler
	// SignupLimit and SigninLimit may be nil.
	SignupLimit func(http.Handler) http.Handler
	SigninLimit func(http.Handler) http.Handler

	Audit    *audit.Logger
	Errors   *ErrorWriter
	Handlers Handlers
}

// Routes returns the route table.
func Routes(h Handlers, signupLimit, signinLimit func(http.Handler) http.Handler) []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: "/healthz", Capability: CapabilityPublic, Handler: h.Health.Healthz},
		{Method: http.MethodGet, Pattern: "/readyz", Capability: CapabilityPublic, Handler: h.Health.Readyz},

		{Method: http.MethodPost, Pattern: "/auth/signup", Capability: CapabilityPublic, Handler: h.Auth.Signup,
			Middlewares: optional(signupLimit)},
		{Method: http.MethodPost, Pattern: "/auth/signin", Capability: CapabilityPublic, Handler: h.Auth.Signin,
			Middlewares: optional(signinLimit)},

		{Method: http.MethodGet, Pattern: "/users/{userId}", Capability: CapabilityUser, Handler: h.Users.Get},
		{Method: http.MethodPut, Pattern: "/users", Capability: CapabilityUser, Handler: h.Users.ChangePassword},

		{Method: http.MethodPost, Pattern: "/todos", Capability: CapabilityUser, Handler: h.Todos.Create},
		{Method: http.MethodGet, Pattern: "/todos", Capability: CapabilityUser, Handler: h.Todos.List},
		{Method: http.MethodGet, Pattern: "/todos/{todoId}", Capability: CapabilityUser, Handler: h.Todos.Get},

		{Method: http.MethodPost, Pattern: "/todos/{todoId}/managers", Capability: CapabilityUser, Handler: h.Managers.Create},
		{Method: http.MethodGet, Pattern: "/todos/{todoId}/managers", Capability: CapabilityUser, Handler: h.Managers.List},
		{Method: http.MethodDelete, Pattern: "/todos/{todoId}/managers/{managerId}", Capability: CapabilityUser, Handler: h.Managers.Delete},

		{Method: http.MethodPost, Pattern: "/todos/{todoId}/comments", Capability: CapabilityUser, Handler: h.Comments.Create},
		{Method: http.MethodGet, Pattern: "/todos/{todoId}/comments", Capability: CapabilityUser, Handler: h.Comments.List},

		{Method: http.MethodDelete, Pattern: "/admin/comments/{commentId}", Capability: CapabilityAdmin, Audited: h.Comments.Delete},
		{Method: http.MethodPatch, Pattern: "/admin/users/{userId}", Capability: CapabilityAdmin, Audited: h.Users.ChangeRole},
		{Method: http.MethodGet, Pattern: "/admin/metrics", Capability: CapabilityAdminRead, Handler: h.Metrics.Metrics},
	}
}

// NewRouter builds the chi router with global middleware and every route.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP(cfg.TrustedProxies))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, cfg.IsDevelopment))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	}

	registrar := NewRegistrar(RegistrarConfig{
		Logger:       cfg.Logger,
		Authenticate: cfg.Authenticate,
		RequireAdmin: cfg.RequireAdmin,
		Audit:        cfg.Audit,
		Errors:       cfg.Errors,
	})
	registrar.Register(r, Routes(cfg.Handlers, cfg.SignupLimit, cfg.SigninLimit)...)

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	return r
}

func optional(mw func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	if mw == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{mw}
}
