package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MentorshipPending  = "pending"
	MentorshipApproved = "approved"
	MentorshipDeclined = "declined"
)

type MentorshipApplication struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	FullName  string             `json:"fullName" bson:"fullName"`
	Email     string             `json:"email" bson:"email"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Plan      string             `json:"plan" bson:"plan"`
	Goals     string             `json:"goals" bson:"goals"`
	Status    string             `json:"status" bson:"status"`
	AdminNote string             `json:"adminNote,omitempty" bson:"adminNote,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type MentorshipRequest struct {
	Phone string `json:"phone,omitempty"`
	Plan  string `json:"plan" validate:"required,oneof=one_on_one group"`
	Goals string `json:"goals" validate:"required,max=2000"`
}

type MentorshipStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=pending approved declined"`
	AdminNote string `json:"adminNote,omitempty"`
}
