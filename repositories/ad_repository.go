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

type AdRepository struct {
	collection *mongo.Collection
}

func NewAdRepository(db *mongo.Database) *AdRepository {
	return &AdRepository{collection: db.Collection("advertisements")}
}

func (r *AdRepository) Create(ctx context.Context, ad *models.Advertisement) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if ad.ID.IsZero() {
		ad.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, ad)
	return translate(err)
}

func (r *AdRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Advertisement, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var ad models.Advertisement
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ad); err != nil {
		return nil, translate(err)
	}
	return &ad, nil
}

// List returns ads; activeOnly restricts to ads flagged active. The
// start/end window is applied by the caller.
func (r *AdRepository) List(ctx context.Context, activeOnly bool) ([]models.Advertisement, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ads := []models.Advertisement{}
	if err := cursor.All(ctx, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *AdRepository) Update(ctx context.Context, ad *models.Advertisement) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	ad.UpdatedAt = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": ad.ID}, bson.M{"$set": bson.M{
		"title":     ad.Title,
		"imageUrl":  ad.ImageURL,
		"linkUrl":   ad.LinkURL,
		"placement": ad.Placement,
		"isActive":  ad.IsActive,
		"startsAt":  ad.StartsAt,
		"endsAt":    ad.EndsAt,
		"updatedAt": ad.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
