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

type PurchaseRepository struct {
	collection *mongo.Collection
}

func NewPurchaseRepository(db *mongo.Database) *PurchaseRepository {
	return &PurchaseRepository{collection: db.Collection("purchases")}
}

// Create inserts a purchase; a second purchase of the same course by the
// same user fails with ErrDuplicate.
func (r *PurchaseRepository) Create(ctx context.Context, p *models.Purchase) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, p)
	return translate(err)
}

// Upsert records the purchase if the user does not own the course yet and
// reports whether a new document was inserted.
func (r *PurchaseRepository) Upsert(ctx context.Context, p *models.Purchase) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now()
	filter := bson.M{"userId": p.UserID, "courseId": p.CourseID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"amount":      p.Amount,
			"reference":   p.Reference,
			"purchasedAt": p.PurchasedAt,
		},
		"$set": bson.M{"status": models.PurchaseCompleted, "updatedAt": now},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// a concurrent upsert of the same pair lost the race to the unique index
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *PurchaseRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Purchase, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.M{"purchasedAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	purchases := []models.Purchase{}
	if err := cursor.All(ctx, &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}
