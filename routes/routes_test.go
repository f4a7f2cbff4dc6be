package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/config"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	"github.com/junaidrashid-git/storefront-api/images"
	"github.com/junaidrashid-git/storefront-api/notify"
	"github.com/junaidrashid-git/storefront-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutesGuardsGroups(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "9876543210", true)

	cfg := &config.Config{Policy: config.DefaultPolicy()}
	sessions := auth.NewSessions([]byte("secret"), time.Hour, false)
	workflow, err := orderControllers.NewWorkflow(cfg.Policy.Orders)
	require.NoError(t, err)
	recorder := &notify.Recorder{}

	r := gin.New()
	require.NotPanics(t, func() {
		SetupRoutes(r, Deps{
			DB:       db,
			Config:   cfg,
			Sessions: sessions,
			Images:   images.NewMemory(),
			Mailer:   recorder,
			SMS:      recorder,
			Hub:      orderControllers.NewHub(),
			Workflow: workflow,
		})
	})

	userToken, err := sessions.Issue(user.ID, auth.RoleUser)
	require.NoError(t, err)
	adminToken, err := sessions.Issue("admin-1", auth.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		method, path, token string
		want                int
	}{
		{http.MethodGet, "/api/products", "", http.StatusOK},
		{http.MethodGet, "/api/categories", "", http.StatusOK},
		{http.MethodGet, "/api/banners", "", http.StatusOK},
		{http.MethodGet, "/api/cart", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/cart", userToken, http.StatusOK},
		{http.MethodGet, "/api/cart", adminToken, http.StatusForbidden},
		{http.MethodGet, "/api/profile", userToken, http.StatusOK},
		{http.MethodGet, "/api/orders", userToken, http.StatusForbidden},
		{http.MethodGet, "/api/orders", adminToken, http.StatusOK},
		{http.MethodGet, "/api/products/export", adminToken, http.StatusOK},
		{http.MethodGet, "/api/users", adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		if tt.token != "" {
			req.Header.Set("Authorization", "Bearer "+tt.token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}
}
