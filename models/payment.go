package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

const (
	ItemCourse = "course"
	ItemBook   = "book"
)

// Payment is one checkout attempt. Reference is the provider transaction
// reference and the dedupe key of every side effect of the payment.
type Payment struct {
	ID               primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Reference        string              `json:"reference" bson:"reference"`
	UserID           primitive.ObjectID  `json:"userId" bson:"userId"`
	Email            string              `json:"email" bson:"email"`
	ItemType         string              `json:"itemType" bson:"itemType"`
	ItemID           primitive.ObjectID  `json:"itemId" bson:"itemId"`
	ItemTitle        string              `json:"itemTitle" bson:"itemTitle"`
	Currency         string              `json:"currency" bson:"currency"`
	OriginalAmount   float64             `json:"originalAmount" bson:"originalAmount"`
	DiscountAmount   float64             `json:"discountAmount" bson:"discountAmount"`
	CouponCode       string              `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	ChargedAmount    float64             `json:"chargedAmount" bson:"chargedAmount"`
	CommissionAmount float64             `json:"commissionAmount" bson:"commissionAmount"`
	CommissionRate   float64             `json:"commissionRate" bson:"commissionRate"`
	CommissionTier   string              `json:"commissionTier,omitempty" bson:"commissionTier,omitempty"`
	FinalAmount      float64             `json:"finalAmount" bson:"finalAmount"`
	ReferralCode     string              `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	ReferringUserID  *primitive.ObjectID `json:"referringUserId,omitempty" bson:"referringUserId,omitempty"`
	Status           string              `json:"status" bson:"status"`
	Settled          bool                `json:"settled" bson:"settled"`
	AuthorizationURL string              `json:"authorizationUrl,omitempty" bson:"authorizationUrl,omitempty"`
	ProviderStatus   string              `json:"providerStatus,omitempty" bson:"providerStatus,omitempty"`
	Channel          string              `json:"channel,omitempty" bson:"channel,omitempty"`
	FailureReason    string              `json:"failureReason,omitempty" bson:"failureReason,omitempty"`
	VerifiedAt       *time.Time          `json:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
	SettledAt        *time.Time          `json:"settledAt,omitempty" bson:"settledAt,omitempty"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type InitializePaymentRequest struct {
	ItemType     string `json:"itemType" validate:"required,oneof=course book"`
	ItemID       string `json:"itemId" validate:"required"`
	ReferralCode string `json:"referralCode,omitempty"`
	CouponCode   string `json:"couponCode,omitempty"`
}

type InitializePaymentResponse struct {
	Reference        string  `json:"reference"`
	AuthorizationURL string  `json:"authorizationUrl,omitempty"`
	Amount           float64 `json:"amount"`
	Discount         float64 `json:"discount"`
	Status           string  `json:"status"`
}
