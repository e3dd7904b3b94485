package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryForex marks courses whose purchase grants the forex e-book bundle
const CategoryForex = "forex"

type Course struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	Category      string             `json:"category" bson:"category"`
	Level         string             `json:"level,omitempty" bson:"level,omitempty"`
	Price         float64            `json:"price" bson:"price"`
	Thumbnail     string             `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	PreviewVideo  string             `json:"previewVideo,omitempty" bson:"previewVideo,omitempty"`
	Instructor    string             `json:"instructor,omitempty" bson:"instructor,omitempty"`
	Tags          []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	IsPublished   bool               `json:"isPublished" bson:"isPublished"`
	PurchaseCount int                `json:"purchaseCount" bson:"purchaseCount"`
	CreatedBy     primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsForex reports whether buying the course grants the forex bundle
func (c *Course) IsForex() bool {
	return c.Category == CategoryForex
}

type CourseRequest struct {
	Title        string   `json:"title" validate:"required,min=3,max=200"`
	Description  string   `json:"description" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Level        string   `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price        float64  `json:"price" validate:"gte=0"`
	Thumbnail    string   `json:"thumbnail,omitempty"`
	PreviewVideo string   `json:"previewVideo,omitempty"`
	Instructor   string   `json:"instructor,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	IsPublished  bool     `json:"isPublished"`
}

// CourseDetail is a course with its curriculum tree, assembled from the
// modules, sections and lessons collections.
type CourseDetail struct {
	Course
	Modules []ModuleDetail `json:"modules"`
	Owned   bool           `json:"owned"`
}

type ModuleDetail struct {
	Module
	Sections []SectionDetail `json:"sections"`
}

type SectionDetail struct {
	Section
	Lessons []Lesson `json:"lessons"`
}
