package repositories

import (
	"context"
	"time"

	"github.com/HSouheill/academy_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MentorshipRepository struct {
	collection *mongo.Collection
}

func NewMentorshipRepository(db *mongo.Database) *MentorshipRepository {
	return &MentorshipRepository{collection: db.Collection("mentorship_applications")}
}

func (r *MentorshipRepository) Create(ctx context.Context, app *models.MentorshipApplication) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if app.ID.IsZero() {
		app.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, app)
	return translate(err)
}

// List returns applications, filtered by user and/or status when set
func (r *MentorshipRepository) List(ctx context.Context, userID *primitive.ObjectID, status string) ([]models.MentorshipApplication, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if userID != nil {
		filter["userId"] = *userID
	}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	apps := []models.MentorshipApplication{}
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *MentorshipRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status, note string) (*models.MentorshipApplication, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var app models.MentorshipApplication
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "adminNote": note, "updatedAt": time.Now()}},
		opts).Decode(&app)
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}
