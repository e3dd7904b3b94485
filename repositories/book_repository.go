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

type BookRepository struct {
	collection *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{collection: db.Collection("books")}
}

func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if book.ID.IsZero() {
		book.ID = primitive.NewObjectID()
	}
	if book.Tags == nil {
		book.Tags = []string{}
	}
	_, err := r.collection.InsertOne(ctx, book)
	return translate(err)
}

func (r *BookRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var book models.Book
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&book); err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

func (r *BookRepository) find(ctx context.Context, filter bson.M) ([]models.Book, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	books := []models.Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// List returns books, optionally only published ones carrying tag
func (r *BookRepository) List(ctx context.Context, publishedOnly bool, tag string) ([]models.Book, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["isPublished"] = true
	}
	if tag != "" {
		filter["tags"] = tag
	}
	return r.find(ctx, filter)
}

func (r *BookRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// IDsByTag returns the ids of every book carrying tag
func (r *BookRepository) IDsByTag(ctx context.Context, tag string) ([]primitive.ObjectID, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"tags": tag}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	book.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":       book.Title,
		"author":      book.Author,
		"description": book.Description,
		"category":    book.Category,
		"tags":        book.Tags,
		"price":       book.Price,
		"coverUrl":    book.CoverURL,
		"fileUrl":     book.FileURL,
		"isPublished": book.IsPublished,
		"updatedAt":   book.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": book.ID}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
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

func (r *BookRepository) IncrementPurchaseCount(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"purchaseCount": 1}})
	return translate(err)
}
