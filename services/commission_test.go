package services

import (
	"testing"

	"github.com/HSouheill/academy_backend/models"
	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	policy := DefaultCommissionPolicy()

	tests := []struct {
		earnings float64
		tier     string
		rate     string
	}{
		{0, TierBronze, "0.08"},
		{499.99, TierBronze, "0.08"},
		{500, TierSilver, "0.1"},
		{1999.99, TierSilver, "0.1"},
		{2000, TierGold, "0.12"},
		{4999.99, TierGold, "0.12"},
		{5000, TierPlatinum, "0.15"},
		{125000, TierPlatinum, "0.15"},
	}

	for _, tt := range tests {
		got := policy.TierFor(tt.earnings)
		assert.Equal(t, tt.tier, got.Tier, "earnings %.2f", tt.earnings)
		assert.Equal(t, tt.rate, got.Rate.String(), "earnings %.2f", tt.earnings)
	}
}

func TestNextTier(t *testing.T) {
	policy := DefaultCommissionPolicy()

	next, ok := policy.NextTier(120)
	assert.True(t, ok)
	assert.Equal(t, TierSilver, next.Tier)

	next, ok = policy.NextTier(2000)
	assert.True(t, ok)
	assert.Equal(t, TierPlatinum, next.Tier)

	_, ok = policy.NextTier(5000)
	assert.False(t, ok)
}

func TestQuote(t *testing.T) {
	policy := DefaultCommissionPolicy()

	t.Run("no affiliate profile gets the standard rate", func(t *testing.T) {
		q := policy.Quote(nil, 250)
		assert.Equal(t, TierStandard, q.Tier)
		assert.Equal(t, 0.1, q.Rate)
		assert.Equal(t, 25.0, q.Amount)
	})

	t.Run("suspended affiliate gets the standard rate", func(t *testing.T) {
		a := &models.Affiliate{Status: models.AffiliateSuspended, TotalEarnings: 9000}
		q := policy.Quote(a, 100)
		assert.Equal(t, TierStandard, q.Tier)
		assert.Equal(t, 10.0, q.Amount)
	})

	t.Run("active affiliate uses its tier", func(t *testing.T) {
		a := &models.Affiliate{Status: models.AffiliateActive, TotalEarnings: 2500}
		q := policy.Quote(a, 199.99)
		assert.Equal(t, TierGold, q.Tier)
		assert.Equal(t, 0.12, q.Rate)
		assert.Equal(t, 24.0, q.Amount)
	})

	t.Run("commission rounds to cents", func(t *testing.T) {
		a := &models.Affiliate{Status: models.AffiliateActive}
		q := policy.Quote(a, 33.33)
		assert.Equal(t, TierBronze, q.Tier)
		assert.Equal(t, 2.67, q.Amount)
	})
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 19.99, roundMoney(19.994))
	assert.Equal(t, 20.0, roundMoney(19.995))
	assert.Equal(t, 0.3, roundMoney(0.1+0.2))
	assert.Equal(t, 89.99, subMoney(99.99, 10))
}
