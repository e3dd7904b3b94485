package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CouponPercent = "percent"
	CouponFixed   = "fixed"
)

type Coupon struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Code        string               `json:"code" bson:"code"`
	Type        string               `json:"type" bson:"type"`
	Value       float64              `json:"value" bson:"value"`
	MaxUses     int                  `json:"maxUses" bson:"maxUses"` // 0 means unlimited
	UsedCount   int                  `json:"usedCount" bson:"usedCount"`
	Redemptions []string             `json:"-" bson:"redemptions"`
	CourseIDs   []primitive.ObjectID `json:"courseIds,omitempty" bson:"courseIds,omitempty"`
	ExpiresAt   *time.Time           `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	IsActive    bool                 `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type CouponRequest struct {
	Code      string     `json:"code" validate:"required,alphanum,min=3,max=32"`
	Type      string     `json:"type" validate:"required,oneof=percent fixed"`
	Value     float64    `json:"value" validate:"gt=0"`
	MaxUses   int        `json:"maxUses" validate:"gte=0"`
	CourseIDs []string   `json:"courseIds,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	IsActive  bool       `json:"isActive"`
}

type ValidateCouponRequest struct {
	Code     string `json:"code" validate:"required"`
	ItemType string `json:"itemType" validate:"required,oneof=course book"`
	ItemID   string `json:"itemId" validate:"required"`
}

type CouponQuote struct {
	Code     string  `json:"code"`
	Original float64 `json:"original"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}
