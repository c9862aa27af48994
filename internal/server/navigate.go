package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/queensconnect/civic-navigate/internal/metrics"
	"github.com/queensconnect/civic-navigate/internal/models"
	"github.com/queensconnect/civic-navigate/internal/pipeline"
)

type navigateRequest struct {
	Query string `json:"query"`
}

// navigateResponse is the single response envelope. RouteParams fields
// are inlined at the top level for routed decisions; unset fields are
// omitted.
type navigateResponse struct {
	Success     bool   `json:"success"`
	Destination string `json:"destination,omitempty"`
	models.RouteParams
	IsGeneralQuery bool   `json:"isGeneralQuery,omitempty"`
	Answer         string `json:"answer,omitempty"`
	Error          string `json:"error,omitempty"`
}

type NavigateHandler struct {
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
}

func NewNavigateHandler(p *pipeline.Pipeline, logger *zap.Logger) *NavigateHandler {
	return &NavigateHandler{pipeline: p, logger: logger}
}

// Navigate handles POST /api/navigate. The caller always receives a
// well-formed JSON body with a success boolean; only the empty-query and
// quota/upstream cases leave HTTP 200.
func (h *NavigateHandler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, navigateResponse{
			Success: false,
			Error:   "Please provide a search query",
		})
		return
	}

	decision := h.pipeline.Resolve(c.Request.Context(), strings.TrimSpace(req.Query))
	metrics.RecordDecision(outcomeLabel(decision))

	switch decision.Kind {
	case models.DecisionCrisis, models.DecisionAnswered:
		c.JSON(http.StatusOK, navigateResponse{
			Success:        true,
			IsGeneralQuery: true,
			Answer:         decision.Answer,
		})
	case models.DecisionRouted:
		c.JSON(http.StatusOK, navigateResponse{
			Success:     true,
			Destination: string(decision.Destination),
			RouteParams: decision.Params,
		})
	default:
		c.JSON(rejectStatus(decision.RejectCode), navigateResponse{
			Success: false,
			Error:   decision.RejectReason,
		})
	}
}

// Usage handles GET /api/usage: today's counter and the configured
// limit, for the admin dashboard. Read-only, no oracle involvement.
func (h *NavigateHandler) Usage(c *gin.Context) {
	counter, limit, err := h.pipeline.Usage(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to read usage counter", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Usage information is temporarily unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"date":    counter.Date,
		"count":   counter.Count,
		"limit":   limit,
	})
}

// rejectStatus maps the reject taxonomy to HTTP: resource exhaustion is
// 429, upstream faults are 500, expected rejections stay 200.
func rejectStatus(code models.RejectCode) int {
	switch code {
	case models.RejectQuotaExceeded:
		return http.StatusTooManyRequests
	case models.RejectUpstream:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func outcomeLabel(d models.Decision) string {
	switch d.Kind {
	case models.DecisionCrisis:
		return "crisis"
	case models.DecisionRouted:
		return "routed"
	case models.DecisionAnswered:
		return "answered"
	default:
		return "rejected_" + string(d.RejectCode)
	}
}
