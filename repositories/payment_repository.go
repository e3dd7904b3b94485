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

type PaymentRepository struct {
	collection *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{collection: db.Collection("payments")}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, p)
	return translate(err)
}

func (r *PaymentRepository) FindByReference(ctx context.Context, reference string) (*models.Payment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var p models.Payment
	if err := r.collection.FindOne(ctx, bson.M{"reference": reference}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PaymentRepository) list(ctx context.Context, filter bson.M) ([]models.Payment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(500))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payment, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

// List returns payments for the admin console; an empty status lists all
func (r *PaymentRepository) List(ctx context.Context, status string) ([]models.Payment, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.list(ctx, filter)
}

func (r *PaymentRepository) SetAuthorization(ctx context.Context, reference, url string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"reference": reference},
		bson.M{"$set": bson.M{"authorizationUrl": url, "updatedAt": time.Now()}})
	return translate(err)
}

// MarkFailed fails a payment that is still pending
func (r *PaymentRepository) MarkFailed(ctx context.Context, reference, providerStatus, reason string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"reference": reference, "status": models.PaymentPending},
		bson.M{"$set": bson.M{
			"status":         models.PaymentFailed,
			"providerStatus": providerStatus,
			"failureReason":  reason,
			"verifiedAt":     now,
			"updatedAt":      now,
		}})
	if err != nil {
		return false, translate(err)
	}
	return res.ModifiedCount > 0, nil
}

// Complete moves a pending or failed payment to completed. It reports false
// when the payment was already completed, so exactly one caller wins the
// transition. A failed payment completes when the provider later confirms it.
func (r *PaymentRepository) Complete(ctx context.Context, reference, providerStatus, channel string, at time.Time) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"reference": reference,
			"status":    bson.M{"$in": []string{models.PaymentPending, models.PaymentFailed}},
		},
		bson.M{
			"$set": bson.M{
				"status":         models.PaymentCompleted,
				"providerStatus": providerStatus,
				"channel":        channel,
				"verifiedAt":     at,
				"updatedAt":      at,
			},
			"$unset": bson.M{"failureReason": ""},
		})
	if err != nil {
		return false, translate(err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *PaymentRepository) MarkSettled(ctx context.Context, reference string, at time.Time) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"reference": reference, "status": models.PaymentCompleted},
		bson.M{"$set": bson.M{"settled": true, "settledAt": at, "updatedAt": at}})
	return translate(err)
}
