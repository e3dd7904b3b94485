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

type CouponRepository struct {
	collection *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) *CouponRepository {
	return &CouponRepository{collection: db.Collection("coupons")}
}

func (r *CouponRepository) Create(ctx context.Context, c *models.Coupon) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Redemptions == nil {
		c.Redemptions = []string{}
	}
	_, err := r.collection.InsertOne(ctx, c)
	return translate(err)
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var c models.Coupon
	if err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	coupons := []models.Coupon{}
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *CouponRepository) Update(ctx context.Context, c *models.Coupon) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	c.UpdatedAt = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"code":      c.Code,
		"type":      c.Type,
		"value":     c.Value,
		"maxUses":   c.MaxUses,
		"courseIds": c.CourseIDs,
		"expiresAt": c.ExpiresAt,
		"isActive":  c.IsActive,
		"updatedAt": c.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
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

// Redeem counts one use of the coupon for the payment reference. It reports
// false when that reference was already counted or the coupon is used up.
func (r *CouponRepository) Redeem(ctx context.Context, code, reference string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"code":        code,
			"redemptions": bson.M{"$ne": reference},
			"$expr": bson.M{"$or": bson.A{
				bson.M{"$lte": bson.A{"$maxUses", 0}},
				bson.M{"$lt": bson.A{"$usedCount", "$maxUses"}},
			}},
		},
		bson.M{
			"$inc":  bson.M{"usedCount": 1},
			"$push": bson.M{"redemptions": reference},
		})
	if err != nil {
		return false, translate(err)
	}
	return res.ModifiedCount > 0, nil
}
