package session

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/megomed/marketplace/internal/role"
)

const (
	DefaultCookieName = "_sid"
	RoleCookieName    = "role"
	RoleHeader        = "X-Marketplace-Role"
)

// Manager reads the bearer token and role the browser keeps for the marketplace backend.
type Manager struct {
	cookieName string
}

func NewManager() *Manager {
	return &Manager{cookieName: DefaultCookieName}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

// ReadToken prefers the Authorization header over the session cookie.
func (m *Manager) ReadToken(c *gin.Context) (string, bool) {
	if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), true
		}
	}

	token, err := c.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}
	if strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

// ReadRole returns the raw role and whether it names a known role.
func (m *Manager) ReadRole(c *gin.Context) (role.Role, string, bool) {
	raw := strings.TrimSpace(c.GetHeader(RoleHeader))
	if raw == "" {
		if cookie, err := c.Cookie(RoleCookieName); err == nil {
			raw = strings.TrimSpace(cookie)
		}
	}
	r, ok := role.Parse(raw)
	return r, raw, ok
}
