// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserTypeUser is the token user type of learners
const UserTypeUser = "user"

// Withdrawal request states
const (
	WithdrawalPending   = "pending"
	WithdrawalCompleted = "completed"
	WithdrawalRejected  = "rejected"
	WithdrawalFailed    = "failed"
)

// User model
type User struct {
	ID                 primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Email              string               `json:"email" bson:"email"`
	Password           string               `json:"-" bson:"password"`
	FullName           string               `json:"fullName" bson:"fullName"`
	Phone              string               `json:"phone,omitempty" bson:"phone,omitempty"`
	UserType           string               `json:"userType" bson:"userType"`
	IsActive           bool                 `json:"isActive" bson:"isActive"`
	ReferralCode       string               `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	ReferredBy         string               `json:"referredBy,omitempty" bson:"referredBy,omitempty"`
	ReferralEarnings   float64              `json:"referralEarnings" bson:"referralEarnings"`
	ReferralHistory    []ReferralEntry      `json:"referralHistory" bson:"referralHistory"`
	MomoDetails        *MomoDetails         `json:"momoDetails,omitempty" bson:"momoDetails,omitempty"`
	WithdrawalRequests []WithdrawalRequest  `json:"withdrawalRequests" bson:"withdrawalRequests"`
	PurchasedCourses   []primitive.ObjectID `json:"purchasedCourses" bson:"purchasedCourses"`
	PurchasedBooks     []primitive.ObjectID `json:"purchasedBooks" bson:"purchasedBooks"`
	FCMToken           string               `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	LastLoginAt        *time.Time           `json:"lastLoginAt,omitempty" bson:"lastLoginAt,omitempty"`
	CreatedAt          time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// ReferralEntry is one credited referral. Reference is the payment reference
// that produced the credit and is never repeated for the same referrer.
type ReferralEntry struct {
	ReferredUser primitive.ObjectID `json:"referredUser" bson:"referredUser"`
	CourseID     primitive.ObjectID `json:"courseId" bson:"courseId"`
	ItemType     string             `json:"itemType" bson:"itemType"`
	Amount       float64            `json:"amount" bson:"amount"`
	Rate         float64            `json:"rate" bson:"rate"`
	Reference    string             `json:"reference" bson:"reference"`
	Date         time.Time          `json:"date" bson:"date"`
}

// MomoDetails is the mobile money payout destination
type MomoDetails struct {
	Number      string `json:"number" bson:"number" validate:"required,min=9,max=15"`
	Network     string `json:"network" bson:"network" validate:"required,oneof=MTN VODAFONE AIRTELTIGO"`
	AccountName string `json:"accountName" bson:"accountName" validate:"required"`
}

type WithdrawalRequest struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id"`
	Amount      float64             `json:"amount" bson:"amount"`
	MomoNumber  string              `json:"momoNumber" bson:"momoNumber"`
	Network     string              `json:"network" bson:"network"`
	Status      string              `json:"status" bson:"status"`
	RequestedAt time.Time           `json:"requestedAt" bson:"requestedAt"`
	ProcessedAt *time.Time          `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	ProcessedBy *primitive.ObjectID `json:"processedBy,omitempty" bson:"processedBy,omitempty"`
	Note        string              `json:"note,omitempty" bson:"note,omitempty"`
}

// PendingWithdrawal returns the user's pending request, if any
func (u *User) PendingWithdrawal() *WithdrawalRequest {
	for i := range u.WithdrawalRequests {
		if u.WithdrawalRequests[i].Status == WithdrawalPending {
			return &u.WithdrawalRequests[i]
		}
	}
	return nil
}

// FindWithdrawal returns the request with the given id
func (u *User) FindWithdrawal(id primitive.ObjectID) *WithdrawalRequest {
	for i := range u.WithdrawalRequests {
		if u.WithdrawalRequests[i].ID == id {
			return &u.WithdrawalRequests[i]
		}
	}
	return nil
}

// OwnsCourse reports whether the course is in the user's library
func (u *User) OwnsCourse(courseID primitive.ObjectID) bool {
	return containsID(u.PurchasedCourses, courseID)
}

// OwnsBook reports whether the book is in the user's library
func (u *User) OwnsBook(bookID primitive.ObjectID) bool {
	return containsID(u.PurchasedBooks, bookID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// UserWithdrawal pairs a withdrawal request with its owner for admin listings
type UserWithdrawal struct {
	UserID     primitive.ObjectID `json:"userId" bson:"userId"`
	FullName   string             `json:"fullName" bson:"fullName"`
	Email      string             `json:"email" bson:"email"`
	Withdrawal WithdrawalRequest  `json:"withdrawal" bson:"withdrawal"`
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    string `json:"phone,omitempty"`
}

type FCMTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type ReferralRequest struct {
	ReferralCode string `json:"referralCode" validate:"required"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
