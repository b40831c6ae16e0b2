package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/storefront/internal/audit/domain"
	"github.com/smallbiznis/storefront/internal/routegate"
)

// EvaluateGate runs the route gate for a destination on behalf of a UI
// shell. The decision is advisory; gated API surfaces enforce their own
// middleware regardless of what the shell renders.
func (s *Server) EvaluateGate(c *gin.Context) {
	dest := strings.TrimSpace(c.Query("dest"))
	if dest == "" {
		AbortWithError(c, newValidationError("dest", "required", "dest is required"))
		return
	}

	req, ok := routegate.RequirementFor(dest)
	if !ok {
		AbortWithError(c, newValidationError("dest", "unknown", "unknown destination"))
		return
	}

	actor := currentActor(c)
	state := routegate.ActorState{
		Actor: actor,
		Mode:  currentMode(c),
	}

	decision := routegate.Evaluate(state, req, dest)

	s.obsMetrics.RecordGateDecision(c.Request.Context(), string(decision.Outcome), string(decision.Reason))
	if decision.Outcome == routegate.OutcomeRedirectNotAuthorized && actor.Authenticated {
		_ = s.auditSvc.Record(c.Request.Context(), actor.Key, auditdomain.ActionGateDenied, map[string]any{
			"dest":   dest,
			"reason": string(decision.Reason),
		})
	}

	c.JSON(http.StatusOK, decision)
}
