package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PurchaseCompleted = "completed"
	PurchasePending   = "pending"
	PurchaseFailed    = "failed"
	PurchaseRefunded  = "refunded"
)

// Purchase is unique per (userId, courseId)
type Purchase struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	CourseID    primitive.ObjectID `json:"courseId" bson:"courseId"`
	Amount      float64            `json:"amount" bson:"amount"`
	Reference   string             `json:"reference,omitempty" bson:"reference,omitempty"`
	Status      string             `json:"status" bson:"status"`
	PurchasedAt time.Time          `json:"purchasedAt" bson:"purchasedAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ManualPurchaseRequest is an admin grant of a course outside the payment
// flow. ReferralCode credits a referrer for an offline sale.
type ManualPurchaseRequest struct {
	UserID       string  `json:"userId" validate:"required"`
	CourseID     string  `json:"courseId" validate:"required"`
	Amount       float64 `json:"amount" validate:"gte=0"`
	ReferralCode string  `json:"referralCode,omitempty"`
}
