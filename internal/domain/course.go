package domain

import "context"

// LessonModel a single completable unit of course content. Slug is unique
// within its course, Sequence defines the canonical order.
type LessonModel struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Sequence int    `json:"sequence"`
}

type CourseModel struct {
	Key     string         `json:"key"`
	Title   string         `json:"title"`
	Lessons []*LessonModel `json:"lessons"`
}

// NextLessonModel continue action computed for a user: what the button says
// and where it points
type NextLessonModel struct {
	Label       string `json:"label"`
	Destination string `json:"destination"`
}

// LessonStatusModel lesson with its per-user completion flag
type LessonStatusModel struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type CourseRepository interface {
	GetCourseByKey(ctx context.Context, key string) (*CourseModel, error)
	GetLessonsByCourse(ctx context.Context, key string) ([]*LessonModel, error)
}

type CourseUseCase interface {
	GetCourse(ctx context.Context, key string) (*CourseModel, error)
	GetLessonStatuses(ctx context.Context, user *UserModel, key string) ([]*LessonStatusModel, error)
	ResolveNextLesson(ctx context.Context, user *UserModel, key string) (*NextLessonModel, error)
}
