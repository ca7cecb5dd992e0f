// Package server is the thin HTTP collaborator around the compositing
// core: it accepts an uploaded photo plus a template id and parameter set,
// calls into the generator, and ships the composite back together with the
// validation report. No pipeline logic lives here.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/memeforge/wojak"
)

// Server exposes the generation API over HTTP.
type Server struct {
	cfg    Config
	gen    *wojak.Generator
	log    *zap.Logger
	engine *gin.Engine
}

// New wires the HTTP server from its collaborators.
func New(cfg Config, gen *wojak.Generator, log *zap.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg: cfg,
		gen: gen,
		log: log,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestID(), s.accessLog())
	engine.MaxMultipartMemory = cfg.MaxUploadBytes

	engine.GET("/health", s.handleHealth)
	api := engine.Group("/api")
	{
		api.GET("/templates", s.handleListTemplates)
		api.GET("/templates/:id/thumbnail", s.handleThumbnail)
		api.POST("/generate", s.handleGenerate)
	}

	s.engine = engine
	return s
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.RequestTimeout,
		WriteTimeout: s.cfg.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestID tags every request with a unique id for log correlation.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// accessLog emits one structured log line per request.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.log.Info("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
