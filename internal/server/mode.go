package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/storefront/internal/audit/domain"
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
)

type modeResponse struct {
	Mode string `json:"mode"`
}

type putModeRequest struct {
	Mode string `json:"mode"`
}

// GetMode returns the mode loaded for this request's actor. Anonymous
// callers see ModeNone.
func (s *Server) GetMode(c *gin.Context) {
	c.JSON(http.StatusOK, modeResponse{Mode: string(currentMode(c))})
}

// PutMode writes the mode directly, without resolving a landing path. The
// select endpoint is the write-then-navigate variant.
func (s *Server) PutMode(c *gin.Context) {
	var req putModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	mode := modedomain.ParseMode(req.Mode)
	if !mode.Selected() && req.Mode != string(modedomain.ModeNone) && req.Mode != "" {
		AbortWithError(c, modedomain.ErrInvalidMode)
		return
	}

	actor := currentActor(c)
	if err := s.modeSvc.SetMode(c.Request.Context(), mode, actor.Key); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, modeResponse{Mode: string(mode)})
}

// ClearMode deletes the persisted mode for the current actor and the legacy
// slot.
func (s *Server) ClearMode(c *gin.Context) {
	actor := currentActor(c)

	if err := s.modeSvc.ClearMode(c.Request.Context(), actor.Key); err != nil {
		AbortWithError(c, err)
		return
	}

	_ = s.auditSvc.Record(c.Request.Context(), actor.Key, auditdomain.ActionModeCleared, map[string]any{
		"trigger": "api",
	})

	c.JSON(http.StatusOK, modeResponse{Mode: string(modedomain.ModeNone)})
}

type selectModeRequest struct {
	Mode string `json:"mode"`
}

// SelectMode commits a mode transition and returns where the actor lands.
// Persistence happens before the landing is resolved, so a failed write
// never navigates.
func (s *Server) SelectMode(c *gin.Context) {
	var req selectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	actor := currentActor(c)
	result, err := s.transitionSvc.SelectMode(c.Request.Context(), actor, modedomain.ParseMode(req.Mode))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordModeTransition(c.Request.Context(), string(result.Mode))

	c.JSON(http.StatusOK, result)
}
