package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Alias1177/SetupAnalyzer/internal/analyze"
	"github.com/Alias1177/SetupAnalyzer/internal/config"
)

const (
	ServiceName         = "setup-analyzer"
	ServiceVersion      = "1.0.0"
	DefaultTimeout      = 30 * time.Second
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"

	shutdownTimeout = 10 * time.Second
)

// Analyzer runs the setup pipeline for one request
type Analyzer interface {
	Analyze(ctx context.Context, req analyze.Request) (analyze.Payload, error)
}

// Handler serves the HTTP API
type Handler struct {
	analyzer Analyzer
	cfg      *config.Config
	limiter  *rate.Limiter
	logger   zerolog.Logger
}

// NewHandler creates the HTTP handler. The inbound limiter is enabled when
// cfg.RateLimitRPS is positive.
func NewHandler(analyzer Analyzer, cfg *config.Config) *Handler {
	h := &Handler{
		analyzer: analyzer,
		cfg:      cfg,
		logger:   log.With().Str("component", "http").Logger(),
	}
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}
	return h
}

// SetupRoutes configures all API routes
func (h *Handler) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(h.logger))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	analyzeHandlers := []gin.HandlerFunc{h.Analyze}
	if h.limiter != nil {
		analyzeHandlers = append([]gin.HandlerFunc{rateLimitMiddleware(h.limiter)}, analyzeHandlers...)
	}
	router.GET("/analyze", analyzeHandlers...)
	router.GET("/health", h.HealthCheck)

	return router
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
