package domain

import (
	"context"
	"strings"
	"time"
)

// CompletionKey composite "{course}/{slug}" key used to look up completion
// state of a single lesson
func CompletionKey(courseKey, lessonSlug string) string {
	return courseKey + "/" + lessonSlug
}

// SplitCompletionKey inverse of CompletionKey. The course key never contains
// a slash, so the first one separates the parts.
func SplitCompletionKey(key string) (courseKey, lessonSlug string) {
	if i := strings.IndexByte(key, '/'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}

// CompletionQuery answers whether the lesson behind a completion key
// ("{course}/{slug}") has been completed. Implementations are scoped to a
// single user.
type CompletionQuery interface {
	IsCompleted(ctx context.Context, key string) (bool, error)
}

type CompletionRecord struct {
	UserID     string     `json:"-"`
	CourseKey  string     `json:"course"`
	LessonSlug string     `json:"slug"`
	CreatedAt  *time.Time `json:"-"`
	Timestamp  int64      `json:"timestamp"`
}

type CompletionRepository interface {
	SaveCompletion(ctx context.Context, record *CompletionRecord) error
	HasCompletion(ctx context.Context, userID, courseKey, lessonSlug string) (bool, error)
	GetCompletionsByCourse(ctx context.Context, userID, courseKey string) ([]*CompletionRecord, error)
}

// CompletionTracker owns per-user completion state and hands out the
// read-only query views the resolver consumes
type CompletionTracker interface {
	ForUser(userID string) CompletionQuery
	MarkCompleted(ctx context.Context, userID, courseKey, lessonSlug string) (*CompletionRecord, error)
}
