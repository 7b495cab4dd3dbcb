package course

import (
	"context"
	"errors"
	"testing"

	"github.com/coursetrail/coursetrail/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompletionQuery struct {
	completed map[string]bool
	err       error
	calls     []string
}

func (s *stubCompletionQuery) IsCompleted(ctx context.Context, key string) (bool, error) {
	s.calls = append(s.calls, key)
	if s.err != nil {
		return false, s.err
	}
	return s.completed[key], nil
}

func lessonList(slugs ...string) []*domain.LessonModel {
	lessons := make([]*domain.LessonModel, 0, len(slugs))
	for i, slug := range slugs {
		lessons = append(lessons, &domain.LessonModel{Slug: slug, Sequence: i})
	}
	return lessons
}

func TestResolveNextLesson(t *testing.T) {
	cases := []struct {
		name      string
		slugs     []string
		completed []string
		wantLabel string
		wantDest  string
	}{
		{
			name:      "no lesson completed",
			slugs:     []string{"a", "b", "c"},
			completed: nil,
			wantLabel: LabelStartCourse,
			wantDest:  "intro/a",
		},
		{
			name:      "first lesson completed",
			slugs:     []string{"a", "b", "c"},
			completed: []string{"intro/a"},
			wantLabel: LabelNextLesson,
			wantDest:  "intro/b",
		},
		{
			name:      "completion gap keeps original order",
			slugs:     []string{"a", "b", "c"},
			completed: []string{"intro/b"},
			wantLabel: LabelNextLesson,
			wantDest:  "intro/a",
		},
		{
			name:      "all lessons completed",
			slugs:     []string{"a", "b", "c"},
			completed: []string{"intro/a", "intro/b", "intro/c"},
			wantLabel: LabelCourseCompleted,
			wantDest:  RootDestination,
		},
		{
			name:      "empty course counts as completed",
			slugs:     nil,
			completed: nil,
			wantLabel: LabelCourseCompleted,
			wantDest:  RootDestination,
		},
		{
			name:      "single incomplete lesson",
			slugs:     []string{"a"},
			completed: nil,
			wantLabel: LabelStartCourse,
			wantDest:  "intro/a",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			completed := make(map[string]bool)
			for _, key := range tc.completed {
				completed[key] = true
			}
			query := &stubCompletionQuery{completed: completed}

			next, err := ResolveNextLesson(context.Background(), lessonList(tc.slugs...), "intro", query)
			require.NoError(t, err)
			assert.Equal(t, tc.wantLabel, next.Label)
			assert.Equal(t, tc.wantDest, next.Destination)
		})
	}
}

func TestResolveNextLessonQueriesInOrder(t *testing.T) {
	query := &stubCompletionQuery{completed: map[string]bool{"intro/a": true}}

	_, err := ResolveNextLesson(context.Background(), lessonList("a", "b", "c"), "intro", query)
	require.NoError(t, err)
	assert.Equal(t, []string{"intro/a", "intro/b", "intro/c"}, query.calls)
}

func TestResolveNextLessonIdempotent(t *testing.T) {
	query := &stubCompletionQuery{completed: map[string]bool{"intro/a": true}}
	lessons := lessonList("a", "b", "c")

	first, err := ResolveNextLesson(context.Background(), lessons, "intro", query)
	require.NoError(t, err)
	second, err := ResolveNextLesson(context.Background(), lessons, "intro", query)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveNextLessonQueryError(t *testing.T) {
	wantErr := errors.New("completion store is down")
	query := &stubCompletionQuery{err: wantErr}

	next, err := ResolveNextLesson(context.Background(), lessonList("a", "b"), "intro", query)
	assert.Nil(t, next)
	assert.True(t, errors.Is(err, wantErr))
}
