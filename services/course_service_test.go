package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCurriculum struct {
	mu       sync.Mutex
	modules  map[primitive.ObjectID]models.Module
	sections map[primitive.ObjectID]models.Section
	lessons  map[primitive.ObjectID]models.Lesson
}

func newFakeCurriculum() *fakeCurriculum {
	return &fakeCurriculum{
		modules:  map[primitive.ObjectID]models.Module{},
		sections: map[primitive.ObjectID]models.Section{},
		lessons:  map[primitive.ObjectID]models.Lesson{},
	}
}

func (f *fakeCurriculum) CreateModule(ctx context.Context, m *models.Module) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = primitive.NewObjectID()
	f.modules[m.ID] = *m
	return nil
}

func (f *fakeCurriculum) FindModule(ctx context.Context, id primitive.ObjectID) (*models.Module, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.modules[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &m, nil
}

func (f *fakeCurriculum) UpdateModule(ctx context.Context, id primitive.ObjectID, title string, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.modules[id]
	if !ok {
		return repositories.ErrNotFound
	}
	m.Title, m.Position = title, position
	f.modules[id] = m
	return nil
}

func (f *fakeCurriculum) DeleteModule(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.modules[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.modules, id)
	return nil
}

func (f *fakeCurriculum) CreateSection(ctx context.Context, s *models.Section) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = primitive.NewObjectID()
	f.sections[s.ID] = *s
	return nil
}

func (f *fakeCurriculum) FindSection(ctx context.Context, id primitive.ObjectID) (*models.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sections[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (f *fakeCurriculum) UpdateSection(ctx context.Context, id primitive.ObjectID, title string, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sections[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s.Title, s.Position = title, position
	f.sections[id] = s
	return nil
}

func (f *fakeCurriculum) DeleteSection(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sections[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.sections, id)
	return nil
}

func (f *fakeCurriculum) CreateLesson(ctx context.Context, l *models.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.ID = primitive.NewObjectID()
	f.lessons[l.ID] = *l
	return nil
}

func (f *fakeCurriculum) FindLesson(ctx context.Context, id primitive.ObjectID) (*models.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &l, nil
}

func (f *fakeCurriculum) UpdateLesson(ctx context.Context, l *models.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lessons[l.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.lessons[l.ID] = *l
	return nil
}

func (f *fakeCurriculum) DeleteLesson(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lessons[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.lessons, id)
	return nil
}

func (f *fakeCurriculum) Tree(ctx context.Context, courseID primitive.ObjectID) ([]models.Module, []models.Section, []models.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ms []models.Module
	var ss []models.Section
	var ls []models.Lesson
	for _, m := range f.modules {
		if m.CourseID == courseID {
			ms = append(ms, m)
		}
	}
	for _, s := range f.sections {
		if s.CourseID == courseID {
			ss = append(ss, s)
		}
	}
	for _, l := range f.lessons {
		if l.CourseID == courseID {
			ls = append(ls, l)
		}
	}
	return ms, ss, ls, nil
}

func (f *fakeCurriculum) DeleteCourse(ctx context.Context, courseID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, m := range f.modules {
		if m.CourseID == courseID {
			delete(f.modules, id)
		}
	}
	for id, s := range f.sections {
		if s.CourseID == courseID {
			delete(f.sections, id)
		}
	}
	for id, l := range f.lessons {
		if l.CourseID == courseID {
			delete(f.lessons, id)
		}
	}
	return nil
}

// memoryCache is a map backed Cache
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *memoryCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

func TestCourseCatalogCache(t *testing.T) {
	ctx := context.Background()
	courses := newFakeCourses()
	cache := newMemoryCache()
	svc := NewCourseService(courses, newFakeCurriculum(), newFakeUsers(), cache)

	_, err := svc.Create(ctx, primitive.NewObjectID(), models.CourseRequest{Title: "Go basics", Description: "d", Category: "dev", Price: 10.005, IsPublished: true})
	require.NoError(t, err)

	list, err := svc.ListPublished(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 10.01, list[0].Price)

	// a write behind the service is not visible until invalidation
	courses.add(&models.Course{Title: "Hidden", IsPublished: true})
	list, err = svc.ListPublished(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	draft, err := svc.Create(ctx, primitive.NewObjectID(), models.CourseRequest{Title: "Draft", Description: "d", Category: "dev"})
	require.NoError(t, err)
	list, err = svc.ListPublished(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.SetPublished(ctx, draft.ID, true))
	list, err = svc.ListPublished(ctx, "dev")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	all, err := svc.ListAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.ErrorIs(t, svc.SetPublished(ctx, primitive.NewObjectID(), true), ErrCourseNotFound)
}

func TestCourseDetail_LessonAccess(t *testing.T) {
	ctx := context.Background()
	courses := newFakeCourses()
	users := newFakeUsers()
	curriculum := newFakeCurriculum()
	svc := NewCourseService(courses, curriculum, users, NoopCache{})

	course, err := svc.Create(ctx, primitive.NewObjectID(), models.CourseRequest{Title: "Trading", Description: "d", Category: "forex", IsPublished: true})
	require.NoError(t, err)

	mod2, err := svc.AddModule(ctx, course.ID, models.ModuleRequest{Title: "Advanced", Position: 2})
	require.NoError(t, err)
	mod1, err := svc.AddModule(ctx, course.ID, models.ModuleRequest{Title: "Intro", Position: 1})
	require.NoError(t, err)
	sec, err := svc.AddSection(ctx, course.ID, models.SectionRequest{ModuleID: mod1.ID.Hex(), Title: "Setup"})
	require.NoError(t, err)
	_, err = svc.AddLesson(ctx, course.ID, models.LessonRequest{SectionID: sec.ID.Hex(), Title: "Paid", VideoURL: "https://cdn.test/paid.mp4", Position: 2})
	require.NoError(t, err)
	_, err = svc.AddLesson(ctx, course.ID, models.LessonRequest{SectionID: sec.ID.Hex(), Title: "Free", VideoURL: "https://cdn.test/free.mp4", IsPreview: true, Position: 1})
	require.NoError(t, err)

	anonymous, err := svc.Detail(ctx, course.ID, nil, false)
	require.NoError(t, err)
	require.Len(t, anonymous.Modules, 2)
	assert.Equal(t, mod1.ID, anonymous.Modules[0].ID)
	assert.Equal(t, mod2.ID, anonymous.Modules[1].ID)
	assert.Empty(t, anonymous.Modules[1].Sections)
	lessons := anonymous.Modules[0].Sections[0].Lessons
	require.Len(t, lessons, 2)
	assert.Equal(t, "Free", lessons[0].Title)
	assert.Equal(t, "https://cdn.test/free.mp4", lessons[0].VideoURL)
	assert.Empty(t, lessons[1].VideoURL)
	assert.False(t, anonymous.Owned)

	owner := users.add(&models.User{Email: "owner@example.com", PurchasedCourses: []primitive.ObjectID{course.ID}})
	owned, err := svc.Detail(ctx, course.ID, &owner.ID, false)
	require.NoError(t, err)
	assert.True(t, owned.Owned)
	assert.Equal(t, "https://cdn.test/paid.mp4", owned.Modules[0].Sections[0].Lessons[1].VideoURL)

	// a section may only join a module of the same course
	other, err := svc.Create(ctx, primitive.NewObjectID(), models.CourseRequest{Title: "Other", Description: "d", Category: "dev"})
	require.NoError(t, err)
	_, err = svc.AddSection(ctx, other.ID, models.SectionRequest{ModuleID: mod1.ID.Hex(), Title: "Wrong"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Detail(ctx, other.ID, nil, false)
	assert.ErrorIs(t, err, ErrCourseNotFound)
	_, err = svc.Detail(ctx, other.ID, nil, true)
	assert.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, course.ID))
	m, _, _, err := curriculum.Tree(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, m)
}
