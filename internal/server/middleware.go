package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/storefront/internal/authorization"
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
	obscontext "github.com/smallbiznis/storefront/internal/observability/context"
	"go.uber.org/zap"
)

const (
	contextActorKey = "actor"
	contextModeKey  = "actor_mode"
)

// ActorContext resolves the session token into an actor and loads the
// actor's persisted mode for the request. Both travel in the gin context so
// interleaved requests never read each other's state. Resolution never
// aborts; anonymous requests flow through and fail later at RequireAuth if
// the route demands it.
func (s *Server) ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := identitydomain.Anonymous
		if token, ok := s.sessions.ReadToken(c); ok {
			actor = s.identitySvc.Resolve(c.Request.Context(), token)
		}

		mode := modedomain.ModeNone
		if actor.Authenticated {
			ctx := obscontext.WithActorKey(c.Request.Context(), actor.Key)
			c.Request = c.Request.WithContext(ctx)

			loaded, err := s.modeSvc.LoadModeForActor(c.Request.Context(), actor.Key)
			if err != nil {
				AbortWithError(c, err)
				return
			}
			mode = loaded
		}

		c.Set(contextActorKey, actor)
		c.Set(contextModeKey, mode)
		c.Next()
	}
}

// RequireAuth aborts anonymous requests.
func (s *Server) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := currentActor(c); !actor.Authenticated {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// AuthorizeAction gates a route on a casbin policy check.
func (s *Server) AuthorizeAction(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := currentActor(c)
		if err := s.authzSvc.Authorize(c.Request.Context(), actor, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdminArea is the standing guard on the /admin group.
func (s *Server) RequireAdminArea() gin.HandlerFunc {
	return s.AuthorizeAction(authorization.ObjectAdminArea, authorization.ActionAdminAreaAccess)
}

// AdvisorRateLimit throttles orchestrator-backed advisor calls per actor. A
// missing limiter (Redis disabled) allows everything.
func (s *Server) AdvisorRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.advisorLimiter.Enabled() {
			c.Next()
			return
		}

		actor := currentActor(c)
		result, err := s.advisorLimiter.AllowActor(c.Request.Context(), actor.Key)
		if err != nil {
			// Redis being down should not take the advisor with it.
			s.log.Warn("advisor rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if !result.Allowed {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), c.FullPath(), "bucket_empty")
			if result.RetryAfter > 0 {
				c.Header("Retry-After", formatRetryAfter(result.RetryAfter))
			}
			AbortWithError(c, ErrRateLimited)
			return
		}

		s.obsMetrics.RecordRateLimitAllowed(c.Request.Context(), c.FullPath())
		c.Next()
	}
}

func currentActor(c *gin.Context) identitydomain.Actor {
	if value, ok := c.Get(contextActorKey); ok {
		if actor, ok := value.(identitydomain.Actor); ok {
			return actor
		}
	}
	return identitydomain.Anonymous
}

func currentMode(c *gin.Context) modedomain.Mode {
	if value, ok := c.Get(contextModeKey); ok {
		if mode, ok := value.(modedomain.Mode); ok {
			return mode
		}
	}
	return modedomain.ModeNone
}

func formatRetryAfter(d time.Duration) string {
	seconds := int64(d / time.Second)
	if d%time.Second != 0 {
		seconds++
	}
	if seconds < 1 {
		seconds = 1
	}
	return strconv.FormatInt(seconds, 10)
}
