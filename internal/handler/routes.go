package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tasknest/tasknest/internal/audit"
	"github.com/tasknest/tasknest/internal/auth"
)

// Capability states what a route requires from the requester.
type Capability int

const (
	// CapabilityPublic routes need no credentials.
	CapabilityPublic Capability = iota
	// CapabilityUser routes need a valid bearer token.
	CapabilityUser
	// CapabilityAdmin routes need an ADMIN token and every call is audited.
	CapabilityAdmin
	// CapabilityAdminRead routes need an ADMIN token but are not audited.
	CapabilityAdminRead
)

// String returns the capability name used in logs.
func (c Capability) String() string {
	switch c {
	case CapabilityPublic:
		return "public"
	case CapabilityUser:
		return "user"
	case CapabilityAdmin:
		return "admin"
	case CapabilityAdminRead:
		return "admin_read"
	default:
		return "unknown"
	}
}

// AuditCall is what an audited handler hands to the audit logger: the
// named arguments of the call and the call itself.
type AuditCall struct {
	Params []audit.Param
	Run    audit.Operation
}

// AuditedFunc prepares an admin call. Errors returned here (bad path ids,
// malformed bodies) are answered directly and never reach the audit log.
type AuditedFunc func(r *http.Request) (AuditCall, error)

// Route is one endpoint. CapabilityAdmin routes set Audited; all others
// set Handler.
type Route struct {
	Method      string
	Pattern     string
	Capability  Capability
	Handler     http.HandlerFunc
	Audited     AuditedFunc
	Middlewares []func(http.Handler) http.Handler
}

// RegistrarConfig holds what route registration applies per capability.
type RegistrarConfig struct {
	Logger       *slog.Logger
	Authenticate func(http.Handler) http.Handler
	RequireAdmin func(http.Handler) http.Handler
	Audit        *audit.Logger
	Errors       *ErrorWriter
}

// Registrar mounts routes with the middleware their capability demands.
type Registrar struct {
	cfg RegistrarConfig
	now func() time.Time
}

// NewRegistrar creates a Registrar.
func NewRegistrar(cfg RegistrarConfig) *Registrar {
	return &Registrar{cfg: cfg, now: time.Now}
}

// Register mounts routes on r. It panics on a route whose capability and
// handler fields disagree, which can only be a wiring mistake.
func (g *Registrar) Register(r chi.Router, routes ...Route) {
	for _, route := range routes {
		var chain []func(http.Handler) http.Handler
		chain = append(chain, route.Middlewares...)

		var h http.Handler
		switch route.Capability {
		case CapabilityPublic:
			h = mustHandler(route)
		case CapabilityUser:
			chain = append(chain, g.cfg.Authenticate)
			h = mustHandler(route)
		case CapabilityAdminRead:
			chain = append(chain, g.cfg.Authenticate, g.cfg.RequireAdmin)
			h = mustHandler(route)
		case CapabilityAdmin:
			if route.Audited == nil {
				panic("handler: admin route " + route.Method + " " + route.Pattern + " has no audited func")
			}
			chain = append(chain, g.cfg.Authenticate, g.cfg.RequireAdmin)
			h = g.audited(route.Audited)
		default:
			panic("handler: unknown capability for " + route.Method + " " + route.Pattern)
		}

		r.With(chain...).Method(route.Method, route.Pattern, h)

		g.cfg.Logger.Debug("route registered",
			"method", route.Method,
			"pattern", route.Pattern,
			"capability", route.Capability.String(),
		)
	}
}

func mustHandler(route Route) http.Handler {
	if route.Handler == nil {
		panic("handler: route " + route.Method + " " + route.Pattern + " has no handler")
	}
	return route.Handler
}

// audited runs prepare, then the call under the audit logger. A nil
// result answers 200 with an empty body.
func (g *Registrar) audited(prepare AuditedFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call, err := prepare(r)
		if err != nil {
			g.cfg.Errors.Write(w, r, err)
			return
		}

		req := audit.Request{
			User:   auth.MustUserFromContext(r.Context()),
			URI:    r.URL.EscapedPath(),
			Time:   g.now(),
			Params: call.Params,
		}

		result, err := g.cfg.Audit.Around(r.Context(), req, call.Run)
		if err != nil {
			g.cfg.Errors.Write(w, r, err)
			return
		}
		if result == nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})
}
