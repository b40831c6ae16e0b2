package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	advisordomain "github.com/smallbiznis/storefront/internal/advisor/domain"
)

// AdvisorUsage scores the rule table against reported usage signals.
func (s *Server) AdvisorUsage(c *gin.Context) {
	var signals advisordomain.UsageSignals
	if err := c.ShouldBindJSON(&signals); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rec := s.advisorSvc.RecommendFromUsage(c.Request.Context(), signals)
	s.obsMetrics.RecordAdvisorRequest(c.Request.Context(), string(rec.Source))

	c.JSON(http.StatusOK, rec)
}

// AdvisorIntent asks the LLM orchestrator for a recommendation, falling
// back to the keyword heuristic when it is unreachable. The response shape
// is identical on both paths.
func (s *Server) AdvisorIntent(c *gin.Context) {
	var req advisordomain.IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		AbortWithError(c, newValidationError("text", "required", "text is required"))
		return
	}

	rec := s.advisorSvc.RecommendFromIntent(c.Request.Context(), req)

	s.obsMetrics.RecordAdvisorRequest(c.Request.Context(), string(rec.Source))
	if rec.Source == advisordomain.SourceLocal && s.cfg.AdvisorOrchestratorURL != "" {
		s.obsMetrics.RecordAdvisorFallback(c.Request.Context(), "orchestrator_unreachable")
	}

	c.JSON(http.StatusOK, rec)
}
