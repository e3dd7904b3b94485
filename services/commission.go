package services

import (
	"github.com/HSouheill/academy_backend/models"
	"github.com/shopspring/decimal"
)

// Commission tiers
const (
	TierStandard = "standard"
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// TierRate is one row of the commission table. Affiliates qualify for a row
// once their cumulative earnings reach MinEarnings.
type TierRate struct {
	Tier        string
	MinEarnings decimal.Decimal
	Rate        decimal.Decimal
}

// CommissionQuote is the commission selected for one sale
type CommissionQuote struct {
	Tier   string
	Rate   float64
	Amount float64
}

// CommissionPolicy is the single source of referral commission rates
type CommissionPolicy struct {
	standard decimal.Decimal
	tiers    []TierRate // ascending by MinEarnings
}

// DefaultCommissionPolicy returns the production rate table
func DefaultCommissionPolicy() *CommissionPolicy {
	return &CommissionPolicy{
		standard: decimal.RequireFromString("0.10"),
		tiers: []TierRate{
			{TierBronze, decimal.Zero, decimal.RequireFromString("0.08")},
			{TierSilver, decimal.NewFromInt(500), decimal.RequireFromString("0.10")},
			{TierGold, decimal.NewFromInt(2000), decimal.RequireFromString("0.12")},
			{TierPlatinum, decimal.NewFromInt(5000), decimal.RequireFromString("0.15")},
		},
	}
}

// Tiers returns the affiliate rate table
func (p *CommissionPolicy) Tiers() []TierRate {
	return p.tiers
}

// TierFor returns the affiliate tier reached with the given earnings
func (p *CommissionPolicy) TierFor(earnings float64) TierRate {
	e := decimal.NewFromFloat(earnings)
	current := p.tiers[0]
	for _, t := range p.tiers[1:] {
		if e.GreaterThanOrEqual(t.MinEarnings) {
			current = t
		}
	}
	return current
}

// NextTier returns the tier after the one reached with earnings, if any
func (p *CommissionPolicy) NextTier(earnings float64) (TierRate, bool) {
	e := decimal.NewFromFloat(earnings)
	for _, t := range p.tiers {
		if e.LessThan(t.MinEarnings) {
			return t, true
		}
	}
	return TierRate{}, false
}

// Quote selects the rate for a referrer and computes the commission on
// saleAmount. A nil or suspended affiliate gets the standard rate.
func (p *CommissionPolicy) Quote(affiliate *models.Affiliate, saleAmount float64) CommissionQuote {
	tier, rate := TierStandard, p.standard
	if affiliate != nil && affiliate.Status == models.AffiliateActive {
		t := p.TierFor(affiliate.TotalEarnings)
		tier, rate = t.Tier, t.Rate
	}

	amount := decimal.NewFromFloat(saleAmount).Mul(rate).Round(2)
	return CommissionQuote{
		Tier:   tier,
		Rate:   rate.InexactFloat64(),
		Amount: amount.InexactFloat64(),
	}
}

// roundMoney rounds half away from zero to two decimals
func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// subMoney returns a-b rounded to two decimals
func subMoney(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}
