package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/megomed/marketplace/internal/role"
	"github.com/stretchr/testify/assert"
)

func newTestContext(req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestReadTokenPrefersBearerHeader(t *testing.T) {
	m := NewManager()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "cookie-token"})

	token, ok := m.ReadToken(newTestContext(req))
	assert.True(t, ok)
	assert.Equal(t, "header-token", token)
}

func TestReadTokenFallsBackToCookie(t *testing.T) {
	m := NewManager()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "cookie-token"})

	token, ok := m.ReadToken(newTestContext(req))
	assert.True(t, ok)
	assert.Equal(t, "cookie-token", token)

	_, ok = m.ReadToken(newTestContext(httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.False(t, ok)
}

func TestReadRole(t *testing.T) {
	m := NewManager()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RoleHeader, "Client")
	r, _, ok := m.ReadRole(newTestContext(req))
	assert.True(t, ok)
	assert.Equal(t, role.Client, r)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: RoleCookieName, Value: "freelancer"})
	r, _, ok = m.ReadRole(newTestContext(req))
	assert.True(t, ok)
	assert.Equal(t, role.Freelancer, r)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RoleHeader, "admin")
	_, raw, ok := m.ReadRole(newTestContext(req))
	assert.False(t, ok)
	assert.Equal(t, "admin", raw)
}

func TestCredentialsContext(t *testing.T) {
	_, ok := CredentialsFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithCredentials(context.Background(), Credentials{Token: "t", Role: role.Client})
	creds, ok := CredentialsFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "t", creds.Token)
	assert.Equal(t, role.Client, creds.Role)
}
