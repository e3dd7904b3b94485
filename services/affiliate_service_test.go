package services

import (
	"context"
	"testing"

	"github.com/HSouheill/academy_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAffiliateLifecycle(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	affiliates := newFakeAffiliates()
	svc := NewAffiliateService(affiliates, users, DefaultCommissionPolicy())
	u := users.add(&models.User{Email: "aff@example.com", ReferralCode: "USR-AFF234"})

	a, err := svc.Register(ctx, u.ID, models.RegisterAffiliateRequest{PayoutMethod: "momo"})
	require.NoError(t, err)
	assert.Equal(t, "USR-AFF234", a.Code)
	assert.Equal(t, TierBronze, a.Tier)

	_, err = svc.Register(ctx, u.ID, models.RegisterAffiliateRequest{})
	assert.ErrorIs(t, err, ErrAffiliateExists)

	_, err = affiliates.Credit(ctx, u.ID, models.AffiliateReferral{Reference: "p1", Commission: 420.5})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, TierBronze, stats.Tier)
	assert.Equal(t, 0.08, stats.Rate)
	assert.Equal(t, 1, stats.ReferralCount)
	assert.Equal(t, TierSilver, stats.NextTier)
	require.NotNil(t, stats.RemainingToNext)
	assert.Equal(t, 79.5, *stats.RemainingToNext)

	require.NoError(t, svc.SetStatus(ctx, a.ID, models.AffiliateSuspended))
	stats, err = svc.Stats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, TierStandard, stats.Tier)

	suspended, err := svc.List(ctx, models.AffiliateSuspended)
	require.NoError(t, err)
	assert.Len(t, suspended, 1)

	assert.ErrorIs(t, svc.SetStatus(ctx, primitive.NewObjectID(), models.AffiliateActive), ErrAffiliateNotFound)
	_, err = svc.Stats(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrAffiliateNotFound)
}
