package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AffiliateActive    = "active"
	AffiliateSuspended = "suspended"
)

// Affiliate is the registration entity of a referrer. Its code is the
// owner's referral code; TotalEarnings drives the commission tier.
type Affiliate struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID  `json:"userId" bson:"userId"`
	Code          string              `json:"code" bson:"code"`
	Status        string              `json:"status" bson:"status"`
	Tier          string              `json:"tier" bson:"tier"`
	TotalEarnings float64             `json:"totalEarnings" bson:"totalEarnings"`
	Referrals     []AffiliateReferral `json:"referrals" bson:"referrals"`
	PayoutMethod  string              `json:"payoutMethod,omitempty" bson:"payoutMethod,omitempty"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type AffiliateReferral struct {
	ReferredUser primitive.ObjectID `json:"referredUser" bson:"referredUser"`
	Reference    string             `json:"reference" bson:"reference"`
	SaleAmount   float64            `json:"saleAmount" bson:"saleAmount"`
	Commission   float64            `json:"commission" bson:"commission"`
	Rate         float64            `json:"rate" bson:"rate"`
	Date         time.Time          `json:"date" bson:"date"`
}

type RegisterAffiliateRequest struct {
	PayoutMethod string `json:"payoutMethod,omitempty" validate:"omitempty,oneof=momo bank"`
}

type AffiliateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended"`
}

// AffiliateStats is the affiliate dashboard summary
type AffiliateStats struct {
	Code            string   `json:"code"`
	Status          string   `json:"status"`
	Tier            string   `json:"tier"`
	Rate            float64  `json:"rate"`
	TotalEarnings   float64  `json:"totalEarnings"`
	ReferralCount   int      `json:"referralCount"`
	NextTier        string   `json:"nextTier,omitempty"`
	NextTierAt      *float64 `json:"nextTierAt,omitempty"`
	RemainingToNext *float64 `json:"remainingToNext,omitempty"`
}
