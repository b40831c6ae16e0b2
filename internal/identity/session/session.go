package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/storefront/internal/config"
)

const DefaultCookieName = "_sid"

// Manager manages the auth session cookie the resolver token rides in.
type Manager struct {
	cookieName string
	secure     bool
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{
		cookieName: DefaultCookieName,
		secure:     cfg.AuthCookieSecure,
	}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

// ReadToken returns the bearer token from the session cookie, falling
// back to the Authorization header for non-browser clients.
func (m *Manager) ReadToken(c *gin.Context) (string, bool) {
	if token, err := c.Cookie(m.cookieName); err == nil {
		if trimmed := strings.TrimSpace(token); trimmed != "" {
			return trimmed, true
		}
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		if trimmed := strings.TrimSpace(after); trimmed != "" {
			return trimmed, true
		}
	}
	return "", false
}

func (m *Manager) Set(c *gin.Context, value string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, value, maxAge, "/", "", m.secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}
