package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finospark/finospark/internal/analysis"
	"github.com/finospark/finospark/internal/common"
	"github.com/finospark/finospark/internal/model"
)

// root is the basic liveness endpoint.
func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "FinoSpark",
		"version": s.opts.Version,
	})
}

// health reports whether the external-service credential is configured,
// independent of the analysis pipeline.
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"llm_configured": s.opts.LLMConfigured,
		"timestamp":      time.Now().Unix(),
	})
}

// analyze accepts a transaction batch and returns the analysis result. The
// success and failure variants both come back as 200 with one JSON object;
// only request-shaped problems get error status codes.
func (s *Server) analyze(c *gin.Context) {
	var req model.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	if !s.opts.LLMConfigured {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("%s. Set FINOSPARK_LLM_API_KEY.", common.ErrMissingAPIKey),
		})
		return
	}

	result, err := s.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		var vErr *model.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": vErr.Error(),
				"field": vErr.Field,
			})
		case errors.Is(err, analysis.ErrRateLimited):
			seconds := int(s.opts.RateLimitWindow.Seconds())
			c.Header("Retry-After", fmt.Sprintf("%d", seconds))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("rate limit exceeded, retry after %d seconds", seconds),
			})
		default:
			s.logger.Error("pipeline failed unexpectedly",
				"request_id", c.GetString("request_id"),
				"error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
