package store

import (
	"context"
	"testing"

	"dinedash-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartnerOnboarding(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	req := &models.PartnerRequest{Email: "joe@example.com", Name: "Joe", RestaurantName: "Joe's Diner"}
	require.NoError(t, s.SubmitPartnerRequest(ctx, req))
	assert.ErrorIs(t, s.SubmitPartnerRequest(ctx, &models.PartnerRequest{Email: "joe@example.com"}), ErrConflict)

	pending, err := s.PendingPartnerRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	accepted, err := s.AcceptPartnerRequest(ctx, "joe@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, accepted.Status)
	assert.False(t, accepted.Resolved)

	role, err := s.RoleFor(ctx, "joe@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleRestaurantHandler, role.Role)

	r, err := s.RegisterRestaurant(ctx, "joe@example.com", "Joe's Diner", "https://img/joe.png")
	require.NoError(t, err)
	assert.Equal(t, "joe's-diner", r.Pathname)

	found, err := s.RestaurantByPathname(ctx, "joe's-diner")
	require.NoError(t, err)
	assert.Equal(t, "Joe's Diner", found.Name)

	got, err := s.PartnerRequest(ctx, "joe@example.com")
	require.NoError(t, err)
	assert.True(t, got.Resolved)

	_, err = s.RegisterRestaurant(ctx, "other@example.com", "joe's   DINER", "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRejectedRequestStaysUnresolvedAndMayReapply(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SubmitRiderRequest(ctx, &models.RiderRequest{Email: "r@example.com", Name: "Rahim", Region: "Dhanmondi"}))
	rejected, err := s.RejectRiderRequest(ctx, "r@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, rejected.Status)
	assert.False(t, rejected.Resolved)

	pending, err := s.PendingRiderRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, s.SubmitRiderRequest(ctx, &models.RiderRequest{Email: "r@example.com", Name: "Rahim", Region: "Gulshan"}))
	again, err := s.RiderRequest(ctx, "r@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, again.Status)
	assert.Equal(t, "Gulshan", again.Region)

	_, err = s.RejectRiderRequest(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRiderOnboarding(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SubmitRiderRequest(ctx, &models.RiderRequest{Email: "r@example.com", Name: "Rahim"}))
	_, err := s.AcceptRiderRequest(ctx, "r@example.com")
	require.NoError(t, err)

	role, err := s.RoleFor(ctx, "r@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleRider, role.Role)

	rider := &models.Rider{Email: "r@example.com", Name: "Rahim", Region: "Dhanmondi", Delivered: 40, Earned: 9000}
	require.NoError(t, s.RegisterRider(ctx, rider))
	assert.Zero(t, rider.Delivered)
	assert.Zero(t, rider.Earned)

	req, err := s.RiderRequest(ctx, "r@example.com")
	require.NoError(t, err)
	assert.True(t, req.Resolved)

	assert.ErrorIs(t, s.RegisterRider(ctx, &models.Rider{Email: "x@example.com", Name: "Rahim"}), ErrConflict)
}

// Registration does not require prior acceptance.
func TestRegisterWithoutRequest(t *testing.T) {
	s := newTestStore(t)
	r, err := s.RegisterRestaurant(context.Background(), "walkin@example.com", "Walk In", "")
	require.NoError(t, err)
	assert.Equal(t, "walk-in", r.Pathname)
}
