// Package api exposes the record store and resolver over HTTP.
//
// Routes:
//
//	GET  /healthz                          liveness probe
//	GET  /v1/packages                      all record names
//	GET  /v1/packages/{name}               all versions of a name
//	GET  /v1/packages/{name}/{version}     one record
//	POST /v1/resolve                       resolve a record's dependency graph
//
// Resolution results are cached as serialized JSON keyed by
// (name, version, max depth), so repeated resolve calls for unchanged
// records never re-walk the store.
package api

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/DrDeath22/packdex/pkg/cache"
	"github.com/DrDeath22/packdex/pkg/resolver"
	"github.com/DrDeath22/packdex/pkg/store"
)

// Server wires the store, resolver, and cache behind an HTTP router.
type Server struct {
	store    store.Store
	resolver *resolver.Resolver
	cache    cache.Cache
	logger   *log.Logger
	cacheTTL time.Duration
}

// Config holds the server dependencies. Cache and Logger are optional;
// a nil cache disables result caching and a nil logger discards output.
type Config struct {
	Store    store.Store
	Cache    cache.Cache
	Logger   *log.Logger
	CacheTTL time.Duration
}

// NewServer creates a Server from the given configuration.
func NewServer(cfg Config) *Server {
	c := cfg.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Server{
		store:    cfg.Store,
		resolver: resolver.New(cfg.Store),
		cache:    c,
		logger:   logger,
		cacheTTL: ttl,
	}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/packages", s.handleListNames)
		r.Get("/packages/{name}", s.handleListVersions)
		r.Get("/packages/{name}/{version}", s.handleGetRecord)
		r.Post("/resolve", s.handleResolve)
	})

	return r
}
