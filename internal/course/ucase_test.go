package course

import (
	"context"
	"errors"
	"testing"

	"github.com/coursetrail/coursetrail/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCourseRepo struct {
	courses map[string][]*domain.LessonModel
}

func (f *fakeCourseRepo) GetCourseByKey(ctx context.Context, key string) (*domain.CourseModel, error) {
	lessons, ok := f.courses[key]
	if !ok {
		return nil, domain.ErrNoSuchCourse
	}
	return &domain.CourseModel{Key: key, Lessons: lessons}, nil
}

func (f *fakeCourseRepo) GetLessonsByCourse(ctx context.Context, key string) ([]*domain.LessonModel, error) {
	lessons, ok := f.courses[key]
	if !ok {
		return nil, domain.ErrNoSuchCourse
	}
	return lessons, nil
}

type fakeTracker struct {
	completed map[string]bool
}

func (f *fakeTracker) ForUser(userID string) domain.CompletionQuery {
	return &stubCompletionQuery{completed: f.completed}
}

func (f *fakeTracker) MarkCompleted(ctx context.Context, userID, courseKey, lessonSlug string) (*domain.CompletionRecord, error) {
	f.completed[domain.CompletionKey(courseKey, lessonSlug)] = true
	return &domain.CompletionRecord{UserID: userID, CourseKey: courseKey, LessonSlug: lessonSlug}, nil
}

func TestCourseUseCaseResolveNextLesson(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string][]*domain.LessonModel{
		"intro": lessonList("a", "b", "c"),
	}}
	tracker := &fakeTracker{completed: map[string]bool{"intro/a": true}}
	ucase := NewCourseUseCase(repo, tracker)
	user := &domain.UserModel{ID: "u1"}

	next, err := ucase.ResolveNextLesson(context.Background(), user, "intro")
	require.NoError(t, err)
	assert.Equal(t, LabelNextLesson, next.Label)
	assert.Equal(t, "intro/b", next.Destination)
}

func TestCourseUseCaseResolveNextLessonUnknownCourse(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string][]*domain.LessonModel{}}
	ucase := NewCourseUseCase(repo, &fakeTracker{completed: map[string]bool{}})

	next, err := ucase.ResolveNextLesson(context.Background(), &domain.UserModel{ID: "u1"}, "missing")
	assert.Nil(t, next)
	assert.True(t, errors.Is(err, domain.ErrNoSuchCourse))
}

func TestCourseUseCaseGetLessonStatuses(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string][]*domain.LessonModel{
		"intro": {
			{Slug: "a", Title: "Alpha", Sequence: 0},
			{Slug: "b", Title: "Beta", Sequence: 1},
		},
	}}
	tracker := &fakeTracker{completed: map[string]bool{"intro/a": true}}
	ucase := NewCourseUseCase(repo, tracker)

	statuses, err := ucase.GetLessonStatuses(context.Background(), &domain.UserModel{ID: "u1"}, "intro")
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "a", statuses[0].Slug)
	assert.True(t, statuses[0].Completed)
	assert.Equal(t, "b", statuses[1].Slug)
	assert.False(t, statuses[1].Completed)
}

func TestCourseUseCaseMarkThenResolve(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string][]*domain.LessonModel{
		"intro": lessonList("a", "b"),
	}}
	tracker := &fakeTracker{completed: map[string]bool{}}
	ucase := NewCourseUseCase(repo, tracker)
	user := &domain.UserModel{ID: "u1"}

	next, err := ucase.ResolveNextLesson(context.Background(), user, "intro")
	require.NoError(t, err)
	assert.Equal(t, LabelStartCourse, next.Label)

	_, err = tracker.MarkCompleted(context.Background(), user.ID, "intro", "a")
	require.NoError(t, err)

	next, err = ucase.ResolveNextLesson(context.Background(), user, "intro")
	require.NoError(t, err)
	assert.Equal(t, LabelNextLesson, next.Label)
	assert.Equal(t, "intro/b", next.Destination)

	_, err = tracker.MarkCompleted(context.Background(), user.ID, "intro", "b")
	require.NoError(t, err)

	next, err = ucase.ResolveNextLesson(context.Background(), user, "intro")
	require.NoError(t, err)
	assert.Equal(t, LabelCourseCompleted, next.Label)
	assert.Equal(t, RootDestination, next.Destination)
}
