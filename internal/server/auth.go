package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/storefront/internal/audit/domain"
	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
	"github.com/smallbiznis/storefront/internal/identity/token"
	"go.uber.org/zap"
)

type meResponse struct {
	Actor identitydomain.Actor `json:"actor"`
	Mode  string               `json:"mode"`
}

// Me reports the resolved actor and the mode active for this request.
// Anonymous callers get the anonymous actor, not an error.
func (s *Server) Me(c *gin.Context) {
	actor := currentActor(c)
	c.JSON(http.StatusOK, meResponse{
		Actor: actor,
		Mode:  string(currentMode(c)),
	})
}

// Logout drops the session cookie and clears the persisted mode for the
// actor logging out, both the actor-scoped record and the legacy slot.
func (s *Server) Logout(c *gin.Context) {
	actor := currentActor(c)

	if err := s.modeSvc.ClearMode(c.Request.Context(), actor.Key); err != nil {
		AbortWithError(c, err)
		return
	}
	s.sessions.Clear(c)

	if actor.Authenticated {
		_ = s.auditSvc.Record(c.Request.Context(), actor.Key, auditdomain.ActionModeCleared, map[string]any{
			"trigger": "logout",
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type switchDemoRoleRequest struct {
	Role string `json:"role"`
}

// SwitchDemoRole reassigns a demo actor's role and reissues the session
// token so the new role survives the next request.
func (s *Server) SwitchDemoRole(c *gin.Context) {
	var req switchDemoRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	actor := currentActor(c)
	switched, err := s.identitySvc.SwitchDemoRole(actor, identitydomain.Role(req.Role))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	expiry := time.Now().Add(24 * time.Hour)
	raw, err := token.Encode(token.Claims{
		Subject: switched.Key,
		Email:   switched.Email,
		Role:    string(switched.Role),
		Demo:    true,
		Expiry:  expiry.Unix(),
	}, s.cfg.AuthJWTSecret)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.sessions.Set(c, raw, expiry)

	s.log.Info("demo role switched",
		zap.String("actor_key", switched.Key),
		zap.String("role", string(switched.Role)),
	)

	c.JSON(http.StatusOK, meResponse{
		Actor: switched,
		Mode:  string(currentMode(c)),
	})
}
