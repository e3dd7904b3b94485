package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/HSouheill/academy_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AffiliateRepository struct {
	collection *mongo.Collection
}

func NewAffiliateRepository(db *mongo.Database) *AffiliateRepository {
	return &AffiliateRepository{collection: db.Collection("affiliates")}
}

func (r *AffiliateRepository) Create(ctx context.Context, a *models.Affiliate) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.Referrals == nil {
		a.Referrals = []models.AffiliateReferral{}
	}
	_, err := r.collection.InsertOne(ctx, a)
	return translate(err)
}

func (r *AffiliateRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Affiliate, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var a models.Affiliate
	if err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *AffiliateRepository) List(ctx context.Context, status string) ([]models.Affiliate, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().
		SetSort(bson.M{"totalEarnings": -1}).
		SetProjection(bson.M{"referrals": 0})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	affiliates := []models.Affiliate{}
	if err := cursor.All(ctx, &affiliates); err != nil {
		return nil, err
	}
	return affiliates, nil
}

func (r *AffiliateRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AffiliateRepository) SetTier(ctx context.Context, id primitive.ObjectID, tier string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"tier": tier}})
	return translate(err)
}

// Credit records a referral sale for the affiliate owned by userID and
// returns the updated profile. It returns nil without error when the user
// has no profile or the reference was already recorded.
func (r *AffiliateRepository) Credit(ctx context.Context, userID primitive.ObjectID, ref models.AffiliateReferral) (*models.Affiliate, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"userId":              userID,
		"referrals.reference": bson.M{"$ne": ref.Reference},
	}
	update := bson.M{
		"$inc":  bson.M{"totalEarnings": ref.Commission},
		"$push": bson.M{"referrals": ref},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var a models.Affiliate
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
