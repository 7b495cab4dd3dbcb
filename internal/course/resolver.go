package course

import (
	"context"

	"github.com/coursetrail/coursetrail/internal/domain"
)

// labels shown on the continue button
const (
	LabelCourseCompleted = "Course Completed"
	LabelStartCourse     = "Start Course"
	LabelNextLesson      = "Next Lesson"
)

// RootDestination where a finished (or empty) course points to
const RootDestination = "/"

// ResolveNextLesson computes the continue action for a course: the label to
// render and the destination to navigate to.
//
// Lessons are scanned once in their given order, querying completion state
// per lesson. The first incomplete lesson becomes the destination; the label
// depends on whether none, some or all lessons are complete. A course with
// no incomplete lessons (including the empty course) resolves to
// "Course Completed" pointing at the root.
//
// Query errors are returned as-is, no fallback is applied.
func ResolveNextLesson(ctx context.Context, lessons []*domain.LessonModel, courseKey string, completed domain.CompletionQuery) (*domain.NextLessonModel, error) {
	var first string
	incomplete := 0
	for _, lesson := range lessons {
		done, err := completed.IsCompleted(ctx, domain.CompletionKey(courseKey, lesson.Slug))
		if err != nil {
			return nil, err
		}
		if done {
			continue
		}
		if incomplete == 0 {
			first = lesson.Slug
		}
		incomplete++
	}

	if incomplete == 0 {
		return &domain.NextLessonModel{
			Label:       LabelCourseCompleted,
			Destination: RootDestination,
		}, nil
	}

	label := LabelNextLesson
	if incomplete == len(lessons) {
		label = LabelStartCourse
	}
	return &domain.NextLessonModel{
		Label:       label,
		Destination: domain.CompletionKey(courseKey, first),
	}, nil
}
