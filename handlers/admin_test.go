package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"dinedash-server/config"
	"dinedash-server/middleware"
	"dinedash-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partnerRequest(email string) map[string]any {
	return map[string]any{
		"email":          email,
		"name":           "Joe",
		"restaurantName": "Joe's Diner",
		"phone":          "0171",
		"details":        map[string]any{"tradeLicense": "TL-42"},
	}
}

func TestPartnerRequestAccept(t *testing.T) {
	ts := newTestServer(t)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/partner-request", partnerRequest("joe@example.com")).Code)
	assert.Equal(t, http.StatusConflict,
		ts.do(t, http.MethodPost, "/partner-request", partnerRequest("joe@example.com")).Code, "pending requests cannot be resubmitted")

	w := ts.do(t, http.MethodGet, "/partner-requests", nil)
	require.Equal(t, http.StatusOK, w.Code)
	pending := decode[[]models.PartnerRequest](t, w)
	require.Len(t, pending, 1)
	assert.Equal(t, "TL-42", pending[0].Details["tradeLicense"])

	w = ts.do(t, http.MethodPost, "/accept/partner-request", map[string]any{"email": "joe@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"partner:joe@example.com"}, ts.notifier.instructions)

	w = ts.do(t, http.MethodGet, "/get-role?email=joe@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"joe@example.com","role":"restaurant-handler"}`, w.Body.String())

	w = ts.do(t, http.MethodGet, "/partner-request?email=joe@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	req := decode[models.PartnerRequest](t, w)
	assert.Equal(t, models.RequestAccepted, req.Status)
	assert.False(t, req.Resolved)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/register-restaurant", map[string]any{
		"email": "joe@example.com", "restaurantName": "Joe's Diner",
	}).Code)
	resolved, err := ts.store.PartnerRequest(context.Background(), "joe@example.com")
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)

	w = ts.do(t, http.MethodGet, "/partner-requests", nil)
	assert.Empty(t, decode[[]models.PartnerRequest](t, w))
}

func TestPartnerRequestRejectAndReapply(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/partner-request", partnerRequest("joe@example.com")).Code)

	w := ts.do(t, http.MethodPost, "/reject/partner-request?email=joe@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"joe@example.com"}, ts.notifier.rejections)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/get-role?email=joe@example.com", nil).Code)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/partner-request", partnerRequest("joe@example.com")).Code)
	w = ts.do(t, http.MethodGet, "/partner-request?email=joe@example.com", nil)
	assert.Equal(t, models.RequestPending, decode[models.PartnerRequest](t, w).Status)

	assert.Equal(t, http.StatusNotFound,
		ts.do(t, http.MethodPost, "/reject/partner-request?email=nobody@example.com", nil).Code)
	assert.Len(t, ts.notifier.rejections, 1)
}

func TestRiderOnboarding(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/rider-request", map[string]any{
		"email": "rafi@example.com", "name": "Rafi", "region": "Dhanmondi", "vehicle": "bicycle",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusBadRequest,
		ts.do(t, http.MethodPost, "/rider-request", map[string]any{"email": "x@example.com", "name": "X"}).Code)

	w = ts.do(t, http.MethodGet, "/rider-requests", nil)
	require.Len(t, decode[[]models.RiderRequest](t, w), 1)

	w = ts.do(t, http.MethodPost, "/accept/rider-request", map[string]any{"email": "rafi@example.com", "name": "Rafi Ahmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"rider:rafi@example.com"}, ts.notifier.instructions)

	ts.registerRider(t, "rafi@example.com", "Rafi", "Dhanmondi")
	w = ts.do(t, http.MethodGet, "/rider-request?email=rafi@example.com", nil)
	req := decode[models.RiderRequest](t, w)
	assert.Equal(t, models.RequestAccepted, req.Status)
	assert.True(t, req.Resolved)

	w = ts.do(t, http.MethodPost, "/register-rider", map[string]any{
		"email": "other@example.com", "name": "Rafi", "region": "Gulshan",
	})
	assert.Equal(t, http.StatusConflict, w.Code, "rider names are unique")

	w = ts.do(t, http.MethodPost, "/reject/rider-request?email=rafi@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"rafi@example.com"}, ts.notifier.rejections)
}

func TestRoleEnforcement(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Settings) { cfg.Auth.EnforceRoles = true })
	secret := []byte(ts.cfg.Auth.JWTSecret)

	token := func(email string, role models.UserRole) string {
		tok, err := middleware.GenerateToken(email, role, secret, ts.cfg.Auth.TokenTTL)
		require.NoError(t, err)
		return "Bearer " + tok
	}

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/partner-requests", nil).Code)
	assert.Equal(t, http.StatusForbidden,
		ts.do(t, http.MethodGet, "/partner-requests", nil, "Authorization", token("rafi@example.com", models.RoleRider)).Code)
	assert.Equal(t, http.StatusOK,
		ts.do(t, http.MethodGet, "/partner-requests", nil, "Authorization", token("root@example.com", models.RoleAdmin)).Code)

	assert.Equal(t, http.StatusForbidden,
		ts.do(t, http.MethodGet, "/deliveries/incoming?region=Dhanmondi", nil, "Authorization", token("joe@example.com", models.RoleRestaurantHandler)).Code)
	assert.Equal(t, http.StatusOK,
		ts.do(t, http.MethodGet, "/deliveries/incoming?region=Dhanmondi", nil, "Authorization", token("rafi@example.com", models.RoleRider)).Code)

	// admins may act for restaurants
	assert.Equal(t, http.StatusOK,
		ts.do(t, http.MethodGet, "/restaurant-orders?name=x", nil, "Authorization", token("root@example.com", models.RoleAdmin)).Code)

	// public routes stay open
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/foods", nil).Code)
}

func TestRolesAdvisoryByDefault(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/partner-requests", nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		ts.do(t, http.MethodGet, "/partner-requests", nil, "Authorization", "Bearer not-a-token").Code)
}
