package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dinedash-server/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret-key")

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": GetEmail(c), "role": GetRole(c)})
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentify(t *testing.T) {
	r := newRouter(Identify(secret))

	w := do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"","role":""}`, w.Body.String())

	token, err := GenerateToken("rider@example.com", models.RoleRider, secret, time.Hour)
	require.NoError(t, err)
	w = do(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"rider@example.com","role":"rider"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "garbage").Code)

	expired, err := GenerateToken("rider@example.com", models.RoleRider, secret, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, expired).Code)

	forged, err := GenerateToken("rider@example.com", models.RoleAdmin, []byte("other-secret"), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, forged).Code)
}

func TestRoleRequired(t *testing.T) {
	r := newRouter(Identify(secret), AuthRequired(), RoleRequired(models.RoleAdmin, models.RoleRestaurantHandler))

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)

	rider, _ := GenerateToken("r@example.com", models.RoleRider, secret, time.Hour)
	w := do(r, rider)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "admin, restaurant-handler")

	noRole, _ := GenerateToken("c@example.com", "", secret, time.Hour)
	assert.Equal(t, http.StatusForbidden, do(r, noRole).Code)

	admin, _ := GenerateToken("a@example.com", models.RoleAdmin, secret, time.Hour)
	assert.Equal(t, http.StatusOK, do(r, admin).Code)
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS([]string{"https://dine-dash-client.web.app"}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://dine-dash-client.web.app")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://dine-dash-client.web.app", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
