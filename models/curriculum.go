package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Module, Section and Lesson live in their own collections keyed by courseId
// so a nested edit touches a single small document.
type Module struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CourseID  primitive.ObjectID `json:"courseId" bson:"courseId"`
	Title     string             `json:"title" bson:"title"`
	Position  int                `json:"position" bson:"position"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Section struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CourseID  primitive.ObjectID `json:"courseId" bson:"courseId"`
	ModuleID  primitive.ObjectID `json:"moduleId" bson:"moduleId"`
	Title     string             `json:"title" bson:"title"`
	Position  int                `json:"position" bson:"position"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Lesson struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CourseID  primitive.ObjectID `json:"courseId" bson:"courseId"`
	SectionID primitive.ObjectID `json:"sectionId" bson:"sectionId"`
	Title     string             `json:"title" bson:"title"`
	VideoURL  string             `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	Content   string             `json:"content,omitempty" bson:"content,omitempty"`
	Duration  int                `json:"duration" bson:"duration"` // seconds
	IsPreview bool               `json:"isPreview" bson:"isPreview"`
	Position  int                `json:"position" bson:"position"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ModuleRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Position int    `json:"position" validate:"gte=0"`
}

type SectionRequest struct {
	ModuleID string `json:"moduleId" validate:"required"`
	Title    string `json:"title" validate:"required,max=200"`
	Position int    `json:"position" validate:"gte=0"`
}

type LessonRequest struct {
	SectionID string `json:"sectionId" validate:"required"`
	Title     string `json:"title" validate:"required,max=200"`
	VideoURL  string `json:"videoUrl,omitempty" validate:"omitempty,url"`
	Content   string `json:"content,omitempty"`
	Duration  int    `json:"duration" validate:"gte=0"`
	IsPreview bool   `json:"isPreview"`
	Position  int    `json:"position" validate:"gte=0"`
}
