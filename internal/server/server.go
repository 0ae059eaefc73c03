// Package server exposes the library over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"harshagw/qanun/internal/library"
	"harshagw/qanun/internal/metrics"
)

type Options struct {
	// Limit is the result count used when a request gives none.
	Limit   int
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// Server handles HTTP requests for articles and search.
type Server struct {
	lib     *library.Library
	metrics *metrics.Metrics
	log     zerolog.Logger
	limit   int
	engine  *gin.Engine
}

func New(lib *library.Library, opts Options) *Server {
	s := &Server{
		lib:     lib,
		metrics: opts.Metrics,
		log:     opts.Logger,
		limit:   opts.Limit,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.observe())

	r.GET("/healthz", s.health)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		api.GET("/sources", s.listSources)
		api.GET("/sources/:key/books", s.listBooks)
		api.GET("/search", s.search)
		api.GET("/suggest", s.suggest)
		api.GET("/identifiers/:number", s.byIdentifier)
		api.GET("/articles/:key/:book/:number", s.article)
		api.GET("/books/:key/:book", s.expand)
	}

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// observe records metrics and logs each request.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(route, status, duration)
		}

		event := s.log.Debug()
		if status >= http.StatusInternalServerError {
			event = s.log.Error().Strs("errors", c.Errors.Errors())
		}
		event.
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("duration", duration).
			Msg("request completed")
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("server starting")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
