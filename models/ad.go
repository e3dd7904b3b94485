package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Advertisement struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	ImageURL  string             `json:"imageUrl" bson:"imageUrl"`
	LinkURL   string             `json:"linkUrl,omitempty" bson:"linkUrl,omitempty"`
	Placement string             `json:"placement" bson:"placement"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	StartsAt  *time.Time         `json:"startsAt,omitempty" bson:"startsAt,omitempty"`
	EndsAt    *time.Time         `json:"endsAt,omitempty" bson:"endsAt,omitempty"`
	CreatedBy primitive.ObjectID `json:"createdBy" bson:"createdBy"` // The admin who posted the ad
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type AdRequest struct {
	Title     string     `json:"title" validate:"required"`
	ImageURL  string     `json:"imageUrl" validate:"required"`
	LinkURL   string     `json:"linkUrl,omitempty" validate:"omitempty,url"`
	Placement string     `json:"placement" validate:"required,oneof=home course checkout"`
	IsActive  bool       `json:"isActive"`
	StartsAt  *time.Time `json:"startsAt,omitempty"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
}

// Live reports whether the ad should be shown at t
func (a *Advertisement) Live(t time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.StartsAt != nil && t.Before(*a.StartsAt) {
		return false
	}
	if a.EndsAt != nil && t.After(*a.EndsAt) {
		return false
	}
	return true
}
