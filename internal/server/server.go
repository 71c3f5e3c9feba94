// Package server is the HTTP boundary in front of the analysis pipeline. It
// owns routing, CORS, request identification, and the mapping between pipeline
// outcomes and HTTP status codes. Pipeline failures are modeled in-band as 200
// responses carrying the failure variant; only malformed requests (400),
// rate-limit denials (429), and genuine internal faults (500) use error codes.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finospark/finospark/internal/model"
)

// Analyzer runs one analysis request through the pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (model.Result, error)
}

// Options configures the HTTP server.
type Options struct {
	Version         string
	RateLimitWindow time.Duration
	LLMConfigured   bool
}

// Server carries the router and the handlers' dependencies.
type Server struct {
	analyzer Analyzer
	router   *gin.Engine
	logger   *slog.Logger
	opts     Options
}

// New builds the router with all middleware and routes attached.
func New(analyzer Analyzer, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RateLimitWindow == 0 {
		opts.RateLimitWindow = 60 * time.Second
	}

	s := &Server{
		analyzer: analyzer,
		logger:   logger,
		opts:     opts,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(accessLog(logger))

	// The form frontend may be served from anywhere; allow any origin.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", s.root)
	router.GET("/health", s.health)
	router.POST("/analyze", s.analyze)

	s.router = router
	return s
}

// Handler exposes the router for http.Server wiring and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server on addr and blocks until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestID tags every request with a unique ID for log correlation.
func requestID() gin.HandlerFunc {
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
func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request handled",
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
