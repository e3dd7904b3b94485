package controllers

import (
	"net/http"

	"github.com/HSouheill/academy_backend/middleware"
	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
)

type CourseController struct {
	courses *services.CourseService
}

func NewCourseController(courses *services.CourseService) *CourseController {
	return &CourseController{courses: courses}
}

// ListCourses returns published courses, filtered by ?category=
func (cc *CourseController) ListCourses(c echo.Context) error {
	courses, err := cc.courses.ListPublished(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Courses retrieved successfully", courses)
}

// GetCourse returns a course with its curriculum. Lesson media is only
// included for owners, admins and preview lessons.
func (cc *CourseController) GetCourse(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	detail, err := cc.courses.Detail(c.Request().Context(), id, viewerID(c), middleware.IsAdmin(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Course retrieved successfully", detail)
}

func (cc *CourseController) AdminListCourses(c echo.Context) error {
	courses, err := cc.courses.ListAll(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Courses retrieved successfully", courses)
}

func (cc *CourseController) CreateCourse(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	var req models.CourseRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	course, err := cc.courses.Create(c.Request().Context(), adminID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Course created successfully", course)
}

func (cc *CourseController) UpdateCourse(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req models.CourseRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	course, err := cc.courses.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Course updated successfully", course)
}

func (cc *CourseController) PublishCourse(c echo.Context) error {
	return cc.setPublished(c, true)
}

func (cc *CourseController) UnpublishCourse(c echo.Context) error {
	return cc.setPublished(c, false)
}

func (cc *CourseController) setPublished(c echo.Context, published bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := cc.courses.SetPublished(c.Request().Context(), id, published); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Course updated successfully", map[string]bool{"isPublished": published})
}

func (cc *CourseController) DeleteCourse(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := cc.courses.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Course deleted successfully", nil)
}

// Curriculum

func (cc *CourseController) AddModule(c echo.Context) error {
	courseID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req models.ModuleRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	module, err := cc.courses.AddModule(c.Request().Context(), courseID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Module created successfully", module)
}

func (cc *CourseController) UpdateModule(c echo.Context) error {
	id, err := pathID(c, "moduleId")
	if err != nil {
		return respondError(c, err)
	}
	var req models.ModuleRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := cc.courses.UpdateModule(c.Request().Context(), id, req); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Module updated successfully", nil)
}

// DeleteModule removes the module with its sections and lessons
func (cc *CourseController) DeleteModule(c echo.Context) error {
	id, err := pathID(c, "moduleId")
	if err != nil {
		return respondError(c, err)
	}
	if err := cc.courses.DeleteModule(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Module deleted successfully", nil)
}

func (cc *CourseController) AddSection(c echo.Context) error {
	courseID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req models.SectionRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	section, err := cc.courses.AddSection(c.Request().Context(), courseID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Section created successfully", section)
}

func (cc *CourseController) UpdateSection(c echo.Context) error {
	id, err := pathID(c, "sectionId")
	if err != nil {
		return respondError(c, err)
	}
	var req models.SectionRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := cc.courses.UpdateSection(c.Request().Context(), id, req); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Section updated successfully", nil)
}

func (cc *CourseController) DeleteSection(c echo.Context) error {
	id, err := pathID(c, "sectionId")
	if err != nil {
		return respondError(c, err)
	}
	if err := cc.courses.DeleteSection(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Section deleted successfully", nil)
}

func (cc *CourseController) AddLesson(c echo.Context) error {
	courseID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req models.LessonRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	lesson, err := cc.courses.AddLesson(c.Request().Context(), courseID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Lesson created successfully", lesson)
}

func (cc *CourseController) UpdateLesson(c echo.Context) error {
	id, err := pathID(c, "lessonId")
	if err != nil {
		return respondError(c, err)
	}
	var req models.LessonRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	lesson, err := cc.courses.UpdateLesson(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Lesson updated successfully", lesson)
}

func (cc *CourseController) DeleteLesson(c echo.Context) error {
	id, err := pathID(c, "lessonId")
	if err != nil {
		return respondError(c, err)
	}
	if err := cc.courses.DeleteLesson(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Lesson deleted successfully", nil)
}
