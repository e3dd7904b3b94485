package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TagForex marks e-books that belong to the forex bundle
const TagForex = "forex"

type Book struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Author        string             `json:"author" bson:"author"`
	Description   string             `json:"description" bson:"description"`
	Category      string             `json:"category" bson:"category"`
	Tags          []string           `json:"tags" bson:"tags"`
	Price         float64            `json:"price" bson:"price"`
	CoverURL      string             `json:"coverUrl,omitempty" bson:"coverUrl,omitempty"`
	FileURL       string             `json:"fileUrl,omitempty" bson:"fileUrl,omitempty"`
	IsPublished   bool               `json:"isPublished" bson:"isPublished"`
	PurchaseCount int                `json:"purchaseCount" bson:"purchaseCount"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type BookRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Author      string   `json:"author" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required"`
	Tags        []string `json:"tags,omitempty"`
	Price       float64  `json:"price" validate:"gte=0"`
	CoverURL    string   `json:"coverUrl,omitempty"`
	FileURL     string   `json:"fileUrl,omitempty"`
	IsPublished bool     `json:"isPublished"`
}
