package server

import (
	"github.com/gin-gonic/gin"
	"github.com/megomed/marketplace/internal/auth/session"
)

// SessionRequired forwards the caller's bearer token to the services. The
// backend is the authority on whether the token is still valid.
func (s *Server) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		r, _, _ := s.sessions.ReadRole(c)
		ctx := session.WithCredentials(c.Request.Context(), session.Credentials{Token: token, Role: r})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RoleRequired rejects requests whose role is missing or unknown.
func (s *Server) RoleRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, raw, ok := s.sessions.ReadRole(c)
		if !ok {
			if raw == "" {
				AbortWithError(c, newValidationError("role", "required", "role is required"))
			} else {
				AbortWithError(c, newValidationError("role", "invalid_role", "unknown role"))
			}
			return
		}
		c.Next()
	}
}
