// Package web exposes the live feed over a JSON API for the presentation layer.
// It serves the current job view with selection and connection status, accepts
// selection changes and bulk commands, and proxies the tag catalog.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"scribefeed/app/client"
	"scribefeed/app/feed"
)

//go:generate moq -out mocks/feed.go -pkg mocks -skip-ensure -fmt goimports . Feed
//go:generate moq -out mocks/tags.go -pkg mocks -skip-ensure -fmt goimports . TagCatalog

// Feed is the engine surface the web server works with.
type Feed interface {
	Jobs() []feed.Job
	Selected() []string
	Select(ids ...string) int
	Deselect(ids ...string) int
	SelectAll() int
	ClearSelection()
	Live() bool
	State() feed.ConnState
	Apply(ctx context.Context, ids []string, cmd feed.Command) (feed.Result, error)
	LastResult() (feed.Result, bool)
}

// TagCatalog provides the tag list for the tag picker.
type TagCatalog interface {
	Tags(ctx context.Context) ([]client.Tag, error)
}

// Server represents the web server.
type Server struct {
	feed        Feed
	tags        TagCatalog // optional, tags endpoint replies 404 when nil
	version     string
	bulkLimiter *limiter.Limiter
}

// Config holds server configuration.
type Config struct {
	Feed    Feed
	Tags    TagCatalog
	Version string
}

// New creates a new web server.
func New(cfg Config) (*Server, error) {
	if cfg.Feed == nil {
		return nil, fmt.Errorf("feed is required")
	}

	// caps bulk command submissions per client, a stuck UI retry loop must not
	// hammer the backend through us
	bulkLimiter := tollbooth.NewLimiter(2, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour}).
		SetBurst(5).
		SetMethods([]string{"POST"})

	return &Server{feed: cfg.Feed, tags: cfg.Tags, version: cfg.Version, bulkLimiter: bulkLimiter}, nil
}

// Run starts the web server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown server: %v", err)
		}
	}()

	log.Printf("[INFO] starting web server on %s", address)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// routes returns the http.Handler with all routes configured
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	// global middleware - applied to all routes
	router.Use(
		rest.RealIP,
		rest.Recoverer(log.Default()),
		rest.Throttle(1000),
		rest.AppInfo("scribefeed", "umputun", s.version),
		rest.Ping,
		rest.Trace,
		rest.SizeLimit(64*1024), // 64KB max request size
		logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler,
	)

	router.Mount("/api/v1").Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache)
		api.HandleFunc("GET /jobs", s.handleJobs)
		api.HandleFunc("POST /selection", s.handleSelection)
		api.With(tollbooth.HTTPMiddleware(s.bulkLimiter)).HandleFunc("POST /bulk", s.handleBulk)
		api.HandleFunc("GET /bulk/last", s.handleLastBulk)
		api.HandleFunc("GET /tags", s.handleTags)
	})

	return router
}
