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

// CourseFilter narrows course listings
type CourseFilter struct {
	Category      string
	PublishedOnly bool
}

type CourseRepository struct {
	collection *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{collection: db.Collection("courses")}
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if course.ID.IsZero() {
		course.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, course)
	return translate(err)
}

func (r *CourseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var course models.Course
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *CourseRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error) {
	courses := []models.Course{}
	if len(ids) == 0 {
		return courses, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepository) List(ctx context.Context, f CourseFilter) ([]models.Course, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if f.PublishedOnly {
		filter["isPublished"] = true
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	courses := []models.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	course.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":        course.Title,
		"description":  course.Description,
		"category":     course.Category,
		"level":        course.Level,
		"price":        course.Price,
		"thumbnail":    course.Thumbnail,
		"previewVideo": course.PreviewVideo,
		"instructor":   course.Instructor,
		"tags":         course.Tags,
		"isPublished":  course.IsPublished,
		"updatedAt":    course.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": course.ID}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CourseRepository) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"isPublished": published, "updatedAt": time.Now()}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
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

func (r *CourseRepository) IncrementPurchaseCount(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"purchaseCount": 1}})
	return translate(err)
}
