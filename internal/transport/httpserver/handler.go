package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Alias1177/SetupAnalyzer/internal/analyze"
)

// Analyze handles GET /analyze requests
func (h *Handler) Analyze(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	req := h.requestFromQuery(c)

	payload, err := h.analyzer.Analyze(ctx, req)
	if err != nil {
		h.handleError(c, err, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, payload)
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

// requestFromQuery reads symbol and interval, falling back to the configured
// defaults. With FixedParams the query is ignored.
func (h *Handler) requestFromQuery(c *gin.Context) analyze.Request {
	req := analyze.Request{
		Symbol:   h.cfg.DefaultSymbol,
		Interval: h.cfg.DefaultInterval,
	}
	if h.cfg.FixedParams {
		return req
	}
	if symbol := strings.TrimSpace(c.Query("symbol")); symbol != "" {
		req.Symbol = symbol
	}
	if interval := strings.TrimSpace(c.Query("interval")); interval != "" {
		req.Interval = interval
	}
	return req
}

// handleError logs the error and sends appropriate HTTP response
func (h *Handler) handleError(c *gin.Context, err error, statusCode int, userMessage string) {
	requestID := requestIDFrom(c)

	h.logger.Error().
		Err(err).
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status_code", statusCode).
		Msg("API error")

	c.AbortWithStatusJSON(statusCode, gin.H{
		"error":      userMessage,
		"request_id": requestID,
	})
}

func requestIDFrom(c *gin.Context) string {
	if id, ok := c.Get(RequestIDContextKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return "unknown"
}
