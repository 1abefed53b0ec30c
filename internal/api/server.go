// Package api wires the EDDA HTTP surface: routes, middleware and handlers.
package api

import (
	"net/http"
	"time"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/auth"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/cache"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/logging"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/metrics"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/observability"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/schemas"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/store"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/validation"
)

// Cache TTLs per resource.
const (
	ClientesTTL  = 300 * time.Second
	PecasTTL     = 600 * time.Second
	DashboardTTL = 60 * time.Second
)

// RoleAdmin may delete clientes and pecas.
const RoleAdmin = "admin"

// ServerConfig contains dependencies for the HTTP server.
type ServerConfig struct {
	Repo  store.Repository
	Cache *cache.ResponseCache
	// CacheStore is reported by /health; it may be nil.
	CacheStore cache.Store
	// Authenticators guard write routes and the dashboard. When empty,
	// authentication is disabled and every route is open.
	Authenticators []auth.Authenticator
	PublicPaths    []string
}

// Handler serves the API.
type Handler struct {
	repo           store.Repository
	cache          *cache.ResponseCache
	cacheStore     cache.Store
	authenticators []auth.Authenticator
	publicPaths    []string
}

// NewHandler builds the full middleware stack around the route table.
func NewHandler(cfg ServerConfig) http.Handler {
	h := &Handler{
		repo:           cfg.Repo,
		cache:          cfg.Cache,
		cacheStore:     cfg.CacheStore,
		authenticators: cfg.Authenticators,
		publicPaths:    cfg.PublicPaths,
	}
	if h.cache == nil {
		h.cache = cache.NewResponseCache(nil, cache.Options{})
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = metricsMiddleware(handler)
	handler = observability.HTTPMiddleware(handler)
	handler = accessLog(handler)
	handler = requestID(handler)
	return handler
}

// RegisterRoutes registers every API route on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", metrics.PrometheusHandler())

	list := validation.Gate(schemas.ListQuery, validation.Query)
	byID := validation.Gate(schemas.IDParams, validation.Params)

	// Clientes
	mux.Handle("GET /api/clientes", chain(http.HandlerFunc(h.ListClientes),
		h.optional(), list, h.cache.Middleware(ClientesTTL)))
	mux.Handle("GET /api/clientes/{id}", chain(http.HandlerFunc(h.GetCliente),
		h.optional(), byID, h.cache.Middleware(ClientesTTL)))
	mux.Handle("POST /api/clientes", chain(http.HandlerFunc(h.CreateCliente),
		h.required(), validation.Gate(schemas.ClienteCreate, validation.Body)))
	mux.Handle("PUT /api/clientes/{id}", chain(http.HandlerFunc(h.UpdateCliente),
		h.required(), byID, validation.Gate(schemas.ClienteUpdate, validation.Body)))
	mux.Handle("DELETE /api/clientes/{id}", chain(http.HandlerFunc(h.DeleteCliente),
		h.required(), h.admin(), byID))

	// Pecas
	mux.Handle("GET /api/pecas", chain(http.HandlerFunc(h.ListPecas),
		h.optional(), list, h.cache.Middleware(PecasTTL)))
	mux.Handle("GET /api/pecas/{id}", chain(http.HandlerFunc(h.GetPeca),
		h.optional(), byID, h.cache.Middleware(PecasTTL)))
	mux.Handle("POST /api/pecas", chain(http.HandlerFunc(h.CreatePeca),
		h.required(), validation.Gate(schemas.PecaCreate, validation.Body)))
	mux.Handle("PUT /api/pecas/{id}", chain(http.HandlerFunc(h.UpdatePeca),
		h.required(), byID, validation.Gate(schemas.PecaUpdate, validation.Body)))
	mux.Handle("DELETE /api/pecas/{id}", chain(http.HandlerFunc(h.DeletePeca),
		h.required(), h.admin(), byID))

	// Dashboard
	mux.Handle("GET /api/dashboard", chain(http.HandlerFunc(h.Dashboard),
		h.required(), h.cache.Middleware(DashboardTTL, cache.WithKeyFunc(dashboardKey))))
}

// required rejects unauthenticated callers when authentication is enabled.
func (h *Handler) required() func(http.Handler) http.Handler {
	if len(h.authenticators) == 0 {
		return passthrough
	}
	return auth.Middleware(h.authenticators, h.publicPaths)
}

// admin restricts a route to the admin role when authentication is enabled.
func (h *Handler) admin() func(http.Handler) http.Handler {
	if len(h.authenticators) == 0 {
		return passthrough
	}
	return auth.RequireRole(RoleAdmin)
}

func (h *Handler) optional() func(http.Handler) http.Handler {
	if len(h.authenticators) == 0 {
		return passthrough
	}
	return auth.Optional(h.authenticators)
}

func dashboardKey(r *http.Request) string {
	return "dashboard:user:" + cache.Subject(r)
}

// chain applies mws so that the first one listed runs first.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func passthrough(next http.Handler) http.Handler { return next }

// StartHTTPServer creates and starts the HTTP server.
func StartHTTPServer(addr string, cfg ServerConfig) *http.Server {
	server := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Op().Error("HTTP server error", "error", err)
		}
	}()

	return server
}
