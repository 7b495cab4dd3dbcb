package http

import (
	"errors"
	"net/http"

	"github.com/coursetrail/coursetrail/internal/domain"
	"github.com/coursetrail/coursetrail/internal/infrastructure/auth"
	"github.com/labstack/echo/v4"
)

// CourseHandler course navigation and completion operations
type CourseHandler struct {
	courseUseCase     domain.CourseUseCase
	completionTracker domain.CompletionTracker
	jwtUtil           *auth.JWTUtil
}

func NewCourseHandler(
	CourseUseCase domain.CourseUseCase,
	CompletionTracker domain.CompletionTracker,
	JWTUtil *auth.JWTUtil,
) *CourseHandler {
	return &CourseHandler{CourseUseCase, CompletionTracker, JWTUtil}
}

// HandleGetNextLesson continue action for the authenticated user: where the
// "next lesson" button points and what it says
func (ch *CourseHandler) HandleGetNextLesson(c echo.Context) (err error) {
	claims := ch.jwtUtil.GetContextToken(c)
	user := new(domain.UserModel)
	user.ID = claims.UID

	next, err := ch.courseUseCase.ResolveNextLesson(c.Request().Context(), user, c.Param("course"))
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchCourse) {
			return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, next)
}

// HandleListLessons lessons of a course in canonical order with the user's
// completion flags
func (ch *CourseHandler) HandleListLessons(c echo.Context) (err error) {
	claims := ch.jwtUtil.GetContextToken(c)
	user := new(domain.UserModel)
	user.ID = claims.UID

	statuses, err := ch.courseUseCase.GetLessonStatuses(c.Request().Context(), user, c.Param("course"))
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchCourse) {
			return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, statuses)
}

// HandleMarkComplete mark a lesson completed for the authenticated user
func (ch *CourseHandler) HandleMarkComplete(c echo.Context) (err error) {
	claims := ch.jwtUtil.GetContextToken(c)
	courseKey := c.Param("course")
	slug := c.Param("slug")

	course, err := ch.courseUseCase.GetCourse(c.Request().Context(), courseKey)
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchCourse) {
			return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
		}
		return err
	}
	if !hasLesson(course, slug) {
		return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, domain.ErrNoSuchLesson.Error()))
	}

	record, err := ch.completionTracker.MarkCompleted(c.Request().Context(), claims.UID, courseKey, slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}

func hasLesson(course *domain.CourseModel, slug string) bool {
	for _, lesson := range course.Lessons {
		if lesson.Slug == slug {
			return true
		}
	}
	return false
}
