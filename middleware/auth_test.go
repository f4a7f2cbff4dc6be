package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(sessions *auth.Sessions, trustHeader bool, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Authenticate(sessions, trustHeader), RequireRole(role), func(c *gin.Context) {
		identity, _ := CurrentIdentity(c)
		c.String(http.StatusOK, identity.UserID)
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	sessions := auth.NewSessions([]byte("secret"), time.Hour, false)
	userToken, err := sessions.Issue("user-1", auth.RoleUser)
	require.NoError(t, err)
	adminToken, err := sessions.Issue("admin-1", auth.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name     string
		trust    bool
		setup    func(r *http.Request)
		wantCode int
		wantBody string
	}{
		{
			name:     "no credentials",
			setup:    func(r *http.Request) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "bearer token",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+userToken) },
			wantCode: http.StatusOK,
			wantBody: "user-1",
		},
		{
			name:     "cookie",
			setup:    func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.TokenCookie, Value: userToken}) },
			wantCode: http.StatusOK,
			wantBody: "user-1",
		},
		{
			name:     "bad token",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "wrong role",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+adminToken) },
			wantCode: http.StatusForbidden,
		},
		{
			name:     "header ignored unless trusted",
			setup:    func(r *http.Request) { r.Header.Set(UserIDHeader, "user-2") },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "trusted header",
			trust:    true,
			setup:    func(r *http.Request) { r.Header.Set(UserIDHeader, "user-2") },
			wantCode: http.StatusOK,
			wantBody: "user-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newProtectedRouter(sessions, tt.trust, auth.RoleUser)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireRole(auth.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
