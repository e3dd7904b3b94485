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

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	// arrays must exist for $push and $addToSet
	if user.ReferralHistory == nil {
		user.ReferralHistory = []models.ReferralEntry{}
	}
	if user.WithdrawalRequests == nil {
		user.WithdrawalRequests = []models.WithdrawalRequest{}
	}
	if user.PurchasedCourses == nil {
		user.PurchasedCourses = []primitive.ObjectID{}
	}
	if user.PurchasedBooks == nil {
		user.PurchasedBooks = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return translate(err)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByReferralCode(ctx context.Context, code string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"referralCode": code})
}

func (r *UserRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	fields["updatedAt"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateProfileRequest) error {
	fields := bson.M{}
	if req.FullName != "" {
		fields["fullName"] = req.FullName
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}
	return r.set(ctx, id, fields)
}

func (r *UserRepository) SetMomoDetails(ctx context.Context, id primitive.ObjectID, momo *models.MomoDetails) error {
	return r.set(ctx, id, bson.M{"momoDetails": momo})
}

func (r *UserRepository) SetFCMToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return r.set(ctx, id, bson.M{"fcmToken": token})
}

func (r *UserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.set(ctx, id, bson.M{"password": hash})
}

func (r *UserRepository) TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return r.set(ctx, id, bson.M{"lastLoginAt": at})
}

// CreditReferral adds the commission to the referrer's balance and history in
// one update. It reports false when the reference was already credited.
func (r *UserRepository) CreditReferral(ctx context.Context, referrerID primitive.ObjectID, entry models.ReferralEntry) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"_id":                       referrerID,
		"referralHistory.reference": bson.M{"$ne": entry.Reference},
	}
	update := bson.M{
		"$inc":  bson.M{"referralEarnings": entry.Amount},
		"$push": bson.M{"referralHistory": entry},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, translate(err)
	}
	return res.ModifiedCount > 0, nil
}

// OpenWithdrawal moves the observed balance into a new pending request. The
// update only applies while the balance is unchanged and no request is
// pending; false means the caller lost a race.
func (r *UserRepository) OpenWithdrawal(ctx context.Context, userID primitive.ObjectID, observedBalance float64, req models.WithdrawalRequest) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"_id":              userID,
		"referralEarnings": observedBalance,
		"withdrawalRequests": bson.M{
			"$not": bson.M{"$elemMatch": bson.M{"status": models.WithdrawalPending}},
		},
	}
	update := bson.M{
		"$set":  bson.M{"referralEarnings": 0.0, "updatedAt": time.Now()},
		"$push": bson.M{"withdrawalRequests": req},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, translate(err)
	}
	return res.ModifiedCount > 0, nil
}

// CloseWithdrawal moves a pending request to its final status. When restore
// is set the request amount goes back to the balance. It reports false when
// the request is no longer pending.
func (r *UserRepository) CloseWithdrawal(ctx context.Context, userID primitive.ObjectID, w models.WithdrawalRequest, restore bool) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"_id": userID,
		"withdrawalRequests": bson.M{"$elemMatch": bson.M{
			"_id":    w.ID,
			"status": models.WithdrawalPending,
			"amount": w.Amount,
		}},
	}
	set := bson.M{
		"withdrawalRequests.$.status":      w.Status,
		"withdrawalRequests.$.processedAt": w.ProcessedAt,
		"withdrawalRequests.$.processedBy": w.ProcessedBy,
		"withdrawalRequests.$.note":        w.Note,
		"updatedAt":                        time.Now(),
	}
	update := bson.M{"$set": set}
	if restore {
		update["$inc"] = bson.M{"referralEarnings": w.Amount}
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, translate(err)
	}
	return res.ModifiedCount > 0, nil
}

// ListWithdrawals flattens withdrawal requests across users, newest first.
// An empty status lists every request.
func (r *UserRepository) ListWithdrawals(ctx context.Context, status string) ([]models.UserWithdrawal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"withdrawalRequests.0": bson.M{"$exists": true}}}},
		{{Key: "$unwind", Value: "$withdrawalRequests"}},
	}
	if status != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"withdrawalRequests.status": status}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$project", Value: bson.M{
			"_id":        0,
			"userId":     "$_id",
			"fullName":   1,
			"email":      1,
			"withdrawal": "$withdrawalRequests",
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"withdrawal.requestedAt": -1}}},
	)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []models.UserWithdrawal{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddPurchasedCourse reports whether the course was newly added
func (r *UserRepository) AddPurchasedCourse(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	return r.addToSet(ctx, userID, "purchasedCourses", courseID)
}

// AddPurchasedBook reports whether the book was newly added
func (r *UserRepository) AddPurchasedBook(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	return r.addToSet(ctx, userID, "purchasedBooks", bookID)
}

func (r *UserRepository) AddPurchasedBooks(ctx context.Context, userID primitive.ObjectID, bookIDs []primitive.ObjectID) error {
	if len(bookIDs) == 0 {
		return nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$addToSet": bson.M{"purchasedBooks": bson.M{"$each": bookIDs}}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return translate(err)
}

func (r *UserRepository) addToSet(ctx context.Context, userID primitive.ObjectID, field string, id primitive.ObjectID) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{field: id}},
	)
	if err != nil {
		return false, translate(err)
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return res.ModifiedCount > 0, nil
}

// List returns users for the admin console, newest first
func (r *UserRepository) List(ctx context.Context, limit, skip int64) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(limit).
		SetSkip(skip).
		SetProjection(bson.M{"password": 0})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
