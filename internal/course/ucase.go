package course

import (
	"context"

	"github.com/coursetrail/coursetrail/internal/domain"
	"go.elastic.co/apm"
)

// CourseUseCaseImpl ...
type CourseUseCaseImpl struct {
	CourseRepository  domain.CourseRepository
	CompletionTracker domain.CompletionTracker
}

var _ domain.CourseUseCase = &CourseUseCaseImpl{}

// NewCourseUseCase ...
func NewCourseUseCase(
	CourseRepository domain.CourseRepository,
	CompletionTracker domain.CompletionTracker,
) *CourseUseCaseImpl {
	return &CourseUseCaseImpl{
		CourseRepository:  CourseRepository,
		CompletionTracker: CompletionTracker,
	}
}

// GetCourse get a course with its lessons in canonical order
func (cu *CourseUseCaseImpl) GetCourse(ctx context.Context, key string) (*domain.CourseModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "CourseUseCaseImpl.GetCourse", "service")
	defer apmSpan.End()

	return cu.CourseRepository.GetCourseByKey(ctx, key)
}

// GetLessonStatuses lessons of a course in order, with the user's completion flags
func (cu *CourseUseCaseImpl) GetLessonStatuses(ctx context.Context, user *domain.UserModel, key string) ([]*domain.LessonStatusModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "CourseUseCaseImpl.GetLessonStatuses", "service")
	defer apmSpan.End()

	lessons, err := cu.CourseRepository.GetLessonsByCourse(ctx, key)
	if err != nil {
		return nil, err
	}

	completed := cu.CompletionTracker.ForUser(user.ID)
	statuses := make([]*domain.LessonStatusModel, 0, len(lessons))
	for _, lesson := range lessons {
		done, err := completed.IsCompleted(ctx, domain.CompletionKey(key, lesson.Slug))
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, &domain.LessonStatusModel{
			Slug:      lesson.Slug,
			Title:     lesson.Title,
			Completed: done,
		})
	}
	return statuses, nil
}

// ResolveNextLesson compute the continue action for the user on a course
func (cu *CourseUseCaseImpl) ResolveNextLesson(ctx context.Context, user *domain.UserModel, key string) (*domain.NextLessonModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "CourseUseCaseImpl.ResolveNextLesson", "service")
	defer apmSpan.End()

	lessons, err := cu.CourseRepository.GetLessonsByCourse(ctx, key)
	if err != nil {
		return nil, err
	}
	return ResolveNextLesson(ctx, lessons, key, cu.CompletionTracker.ForUser(user.ID))
}
