package services

import (
	"context"
	"sort"
	"time"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	courseCachePrefix = "courses:"
	courseCacheTTL    = 5 * time.Minute
)

// CourseService manages the course catalog and its curriculum
type CourseService struct {
	courses    CourseStore
	curriculum CurriculumStore
	users      UserStore
	cache      Cache
	now        func() time.Time
}

func NewCourseService(courses CourseStore, curriculum CurriculumStore, users UserStore, cache Cache) *CourseService {
	return &CourseService{
		courses:    courses,
		curriculum: curriculum,
		users:      users,
		cache:      cache,
		now:        time.Now,
	}
}

// ListPublished returns published courses, served from cache when possible
func (s *CourseService) ListPublished(ctx context.Context, category string) ([]models.Course, error) {
	key := courseCachePrefix + "published:" + category
	return getOrSet(ctx, s.cache, key, courseCacheTTL, func() ([]models.Course, error) {
		return s.courses.List(ctx, repositories.CourseFilter{Category: category, PublishedOnly: true})
	})
}

// ListAll returns every course for the admin console
func (s *CourseService) ListAll(ctx context.Context, category string) ([]models.Course, error) {
	return s.courses.List(ctx, repositories.CourseFilter{Category: category})
}

func (s *CourseService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, courseCachePrefix); err != nil {
		logger.Log.Warn("failed to invalidate course cache", zap.Error(err))
	}
}

// Detail returns a course with its curriculum. Lesson video URLs are only
// included for owners, admins and preview lessons. viewerID may be nil.
func (s *CourseService) Detail(ctx context.Context, courseID primitive.ObjectID, viewerID *primitive.ObjectID, isAdmin bool) (*models.CourseDetail, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, mapNotFound(err, ErrCourseNotFound)
	}
	if !course.IsPublished && !isAdmin {
		return nil, ErrCourseNotFound
	}

	owned := false
	if viewerID != nil {
		if user, err := s.users.FindByID(ctx, *viewerID); err == nil {
			owned = user.OwnsCourse(courseID)
		}
	}

	modules, sections, lessons, err := s.curriculum.Tree(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return &models.CourseDetail{
		Course:  *course,
		Modules: assembleCurriculum(modules, sections, lessons, owned || isAdmin),
		Owned:   owned,
	}, nil
}

func assembleCurriculum(modules []models.Module, sections []models.Section, lessons []models.Lesson, fullAccess bool) []models.ModuleDetail {
	lessonsBySection := make(map[primitive.ObjectID][]models.Lesson)
	for _, l := range lessons {
		if !fullAccess && !l.IsPreview {
			l.VideoURL = ""
			l.Content = ""
		}
		lessonsBySection[l.SectionID] = append(lessonsBySection[l.SectionID], l)
	}

	sectionsByModule := make(map[primitive.ObjectID][]models.SectionDetail)
	for _, sec := range sections {
		ls := lessonsBySection[sec.ID]
		if ls == nil {
			ls = []models.Lesson{}
		}
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].Position < ls[j].Position })
		sectionsByModule[sec.ModuleID] = append(sectionsByModule[sec.ModuleID], models.SectionDetail{Section: sec, Lessons: ls})
	}

	out := make([]models.ModuleDetail, 0, len(modules))
	for _, m := range modules {
		secs := sectionsByModule[m.ID]
		if secs == nil {
			secs = []models.SectionDetail{}
		}
		sort.SliceStable(secs, func(i, j int) bool { return secs[i].Position < secs[j].Position })
		out = append(out, models.ModuleDetail{Module: m, Sections: secs})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func applyCourseRequest(c *models.Course, req models.CourseRequest) {
	c.Title = req.Title
	c.Description = req.Description
	c.Category = req.Category
	c.Level = req.Level
	c.Price = roundMoney(req.Price)
	c.Thumbnail = req.Thumbnail
	c.PreviewVideo = req.PreviewVideo
	c.Instructor = req.Instructor
	c.Tags = req.Tags
	c.IsPublished = req.IsPublished
}

func (s *CourseService) Create(ctx context.Context, adminID primitive.ObjectID, req models.CourseRequest) (*models.Course, error) {
	now := s.now()
	course := &models.Course{CreatedBy: adminID, CreatedAt: now, UpdatedAt: now}
	applyCourseRequest(course, req)
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, id primitive.ObjectID, req models.CourseRequest) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrCourseNotFound)
	}
	applyCourseRequest(course, req)
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, mapNotFound(err, ErrCourseNotFound)
	}
	s.invalidate(ctx)
	return course, nil
}

func (s *CourseService) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) error {
	if err := s.courses.SetPublished(ctx, id, published); err != nil {
		return mapNotFound(err, ErrCourseNotFound)
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes the course and its curriculum. Existing purchases are kept.
func (s *CourseService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrCourseNotFound)
	}
	if err := s.curriculum.DeleteCourse(ctx, id); err != nil {
		logger.Log.Error("failed to delete curriculum", zap.String("courseId", id.Hex()), zap.Error(err))
	}
	s.invalidate(ctx)
	return nil
}

// Curriculum editing

func (s *CourseService) AddModule(ctx context.Context, courseID primitive.ObjectID, req models.ModuleRequest) (*models.Module, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, mapNotFound(err, ErrCourseNotFound)
	}
	now := s.now()
	m := &models.Module{CourseID: courseID, Title: req.Title, Position: req.Position, CreatedAt: now, UpdatedAt: now}
	if err := s.curriculum.CreateModule(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CourseService) UpdateModule(ctx context.Context, id primitive.ObjectID, req models.ModuleRequest) error {
	return mapNotFound(s.curriculum.UpdateModule(ctx, id, req.Title, req.Position), ErrNotFound)
}

func (s *CourseService) DeleteModule(ctx context.Context, id primitive.ObjectID) error {
	return mapNotFound(s.curriculum.DeleteModule(ctx, id), ErrNotFound)
}

func (s *CourseService) AddSection(ctx context.Context, courseID primitive.ObjectID, req models.SectionRequest) (*models.Section, error) {
	moduleID, err := primitive.ObjectIDFromHex(req.ModuleID)
	if err != nil {
		return nil, ErrInvalidID
	}
	module, err := s.curriculum.FindModule(ctx, moduleID)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	if module.CourseID != courseID {
		return nil, ErrInvalidInput
	}
	now := s.now()
	sec := &models.Section{
		CourseID:  courseID,
		ModuleID:  moduleID,
		Title:     req.Title,
		Position:  req.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.curriculum.CreateSection(ctx, sec); err != nil {
		return nil, err
	}
	return sec, nil
}

func (s *CourseService) UpdateSection(ctx context.Context, id primitive.ObjectID, req models.SectionRequest) error {
	return mapNotFound(s.curriculum.UpdateSection(ctx, id, req.Title, req.Position), ErrNotFound)
}

func (s *CourseService) DeleteSection(ctx context.Context, id primitive.ObjectID) error {
	return mapNotFound(s.curriculum.DeleteSection(ctx, id), ErrNotFound)
}

func (s *CourseService) AddLesson(ctx context.Context, courseID primitive.ObjectID, req models.LessonRequest) (*models.Lesson, error) {
	sectionID, err := primitive.ObjectIDFromHex(req.SectionID)
	if err != nil {
		return nil, ErrInvalidID
	}
	section, err := s.curriculum.FindSection(ctx, sectionID)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	if section.CourseID != courseID {
		return nil, ErrInvalidInput
	}
	now := s.now()
	l := &models.Lesson{
		CourseID:  courseID,
		SectionID: sectionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyLessonRequest(l, req)
	if err := s.curriculum.CreateLesson(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *CourseService) UpdateLesson(ctx context.Context, id primitive.ObjectID, req models.LessonRequest) (*models.Lesson, error) {
	l, err := s.curriculum.FindLesson(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	applyLessonRequest(l, req)
	if err := s.curriculum.UpdateLesson(ctx, l); err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	return l, nil
}

func (s *CourseService) DeleteLesson(ctx context.Context, id primitive.ObjectID) error {
	return mapNotFound(s.curriculum.DeleteLesson(ctx, id), ErrNotFound)
}

func applyLessonRequest(l *models.Lesson, req models.LessonRequest) {
	l.Title = req.Title
	l.VideoURL = req.VideoURL
	l.Content = req.Content
	l.Duration = req.Duration
	l.IsPreview = req.IsPreview
	l.Position = req.Position
}
