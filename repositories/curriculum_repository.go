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

// CurriculumRepository stores modules, sections and lessons in separate
// collections, each keyed by courseId and ordered by position.
type CurriculumRepository struct {
	modules  *mongo.Collection
	sections *mongo.Collection
	lessons  *mongo.Collection
}

func NewCurriculumRepository(db *mongo.Database) *CurriculumRepository {
	return &CurriculumRepository{
		modules:  db.Collection("modules"),
		sections: db.Collection("sections"),
		lessons:  db.Collection("lessons"),
	}
}

var byPosition = options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "createdAt", Value: 1}})

func (r *CurriculumRepository) CreateModule(ctx context.Context, m *models.Module) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	_, err := r.modules.InsertOne(ctx, m)
	return translate(err)
}

func (r *CurriculumRepository) FindModule(ctx context.Context, id primitive.ObjectID) (*models.Module, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var m models.Module
	if err := r.modules.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *CurriculumRepository) UpdateModule(ctx context.Context, id primitive.ObjectID, title string, position int) error {
	return updateNode(ctx, r.modules, id, bson.M{"title": title, "position": position})
}

// DeleteModule removes the module with its sections and lessons
func (r *CurriculumRepository) DeleteModule(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sectionIDs, err := distinctIDs(ctx, r.sections, bson.M{"moduleId": id})
	if err != nil {
		return err
	}
	if len(sectionIDs) > 0 {
		if _, err := r.lessons.DeleteMany(ctx, bson.M{"sectionId": bson.M{"$in": sectionIDs}}); err != nil {
			return err
		}
		if _, err := r.sections.DeleteMany(ctx, bson.M{"moduleId": id}); err != nil {
			return err
		}
	}
	return deleteNode(ctx, r.modules, id)
}

func (r *CurriculumRepository) CreateSection(ctx context.Context, s *models.Section) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	_, err := r.sections.InsertOne(ctx, s)
	return translate(err)
}

func (r *CurriculumRepository) FindSection(ctx context.Context, id primitive.ObjectID) (*models.Section, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var s models.Section
	if err := r.sections.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *CurriculumRepository) UpdateSection(ctx context.Context, id primitive.ObjectID, title string, position int) error {
	return updateNode(ctx, r.sections, id, bson.M{"title": title, "position": position})
}

// DeleteSection removes the section with its lessons
func (r *CurriculumRepository) DeleteSection(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := r.lessons.DeleteMany(ctx, bson.M{"sectionId": id}); err != nil {
		return err
	}
	return deleteNode(ctx, r.sections, id)
}

func (r *CurriculumRepository) CreateLesson(ctx context.Context, l *models.Lesson) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	_, err := r.lessons.InsertOne(ctx, l)
	return translate(err)
}

func (r *CurriculumRepository) FindLesson(ctx context.Context, id primitive.ObjectID) (*models.Lesson, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var l models.Lesson
	if err := r.lessons.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *CurriculumRepository) UpdateLesson(ctx context.Context, l *models.Lesson) error {
	return updateNode(ctx, r.lessons, l.ID, bson.M{
		"title":     l.Title,
		"videoUrl":  l.VideoURL,
		"content":   l.Content,
		"duration":  l.Duration,
		"isPreview": l.IsPreview,
		"position":  l.Position,
	})
}

func (r *CurriculumRepository) DeleteLesson(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return deleteNode(ctx, r.lessons, id)
}

// Tree loads the whole curriculum of a course in three queries
func (r *CurriculumRepository) Tree(ctx context.Context, courseID primitive.ObjectID) ([]models.Module, []models.Section, []models.Lesson, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{"courseId": courseID}

	modules := []models.Module{}
	if err := findAll(ctx, r.modules, filter, &modules); err != nil {
		return nil, nil, nil, err
	}
	sections := []models.Section{}
	if err := findAll(ctx, r.sections, filter, &sections); err != nil {
		return nil, nil, nil, err
	}
	lessons := []models.Lesson{}
	if err := findAll(ctx, r.lessons, filter, &lessons); err != nil {
		return nil, nil, nil, err
	}
	return modules, sections, lessons, nil
}

// DeleteCourse drops every curriculum node of a course
func (r *CurriculumRepository) DeleteCourse(ctx context.Context, courseID primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{"courseId": courseID}
	for _, coll := range []*mongo.Collection{r.lessons, r.sections, r.modules} {
		if _, err := coll.DeleteMany(ctx, filter); err != nil {
			return err
		}
	}
	return nil
}

func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	cursor, err := coll.Find(ctx, filter, byPosition)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func updateNode(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, fields bson.M) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	fields["updatedAt"] = time.Now()
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteNode(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func distinctIDs(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	values, err := coll.Distinct(ctx, "_id", filter)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
