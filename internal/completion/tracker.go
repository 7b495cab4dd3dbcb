package completion

import (
	"context"
	"fmt"
	"time"

	"github.com/coursetrail/coursetrail/internal/domain"
	"github.com/coursetrail/coursetrail/internal/infrastructure/driver"
	"github.com/coursetrail/coursetrail/internal/infrastructure/logging"
	"go.elastic.co/apm"
	"go.uber.org/zap"
)

// Tracker per-user lesson completion state. The SQL repository is the
// durable store, the kv store acts as a read-through cache of positive
// completion flags.
type Tracker struct {
	Repo     domain.CompletionRepository
	KV       driver.KeyValueDB
	CacheTTL time.Duration
	Feed     *Feed
}

var _ domain.CompletionTracker = &Tracker{}

// NewTracker create a Tracker. feed may be nil if nobody listens for
// completion events.
func NewTracker(Repo domain.CompletionRepository, KV driver.KeyValueDB, CacheTTL time.Duration, Feed *Feed) *Tracker {
	return &Tracker{
		Repo:     Repo,
		KV:       KV,
		CacheTTL: CacheTTL,
		Feed:     Feed,
	}
}

// ForUser read-only completion view scoped to one user, the shape the
// resolver consumes
func (t *Tracker) ForUser(userID string) domain.CompletionQuery {
	return &userView{tracker: t, userID: userID}
}

// MarkCompleted record a lesson completion. Saving twice is a no-op beyond
// refreshing the cached flag.
func (t *Tracker) MarkCompleted(ctx context.Context, userID, courseKey, lessonSlug string) (*domain.CompletionRecord, error) {
	apmSpan, _ := apm.StartSpan(ctx, "Tracker.MarkCompleted", "service")
	defer apmSpan.End()

	now := time.Now()
	record := &domain.CompletionRecord{
		UserID:     userID,
		CourseKey:  courseKey,
		LessonSlug: lessonSlug,
		CreatedAt:  &now,
		Timestamp:  now.Unix() * 1e3, // milliseconds
	}
	if err := t.Repo.SaveCompletion(ctx, record); err != nil {
		return nil, err
	}

	key := domain.CompletionKey(courseKey, lessonSlug)
	if err := t.KV.SetEX(cacheKey(userID, key), "1", t.CacheTTL); err != nil {
		// the durable store has the record, a cold cache only costs a lookup
		logging.ExtractLoggerFromContext(ctx).Warn("Failed to cache completion flag",
			zap.String("completion.key", key), zap.Error(err))
	}

	if t.Feed != nil {
		t.Feed.Publish(record)
	}
	return record, nil
}

type userView struct {
	tracker *Tracker
	userID  string
}

// IsCompleted implement domain.CompletionQuery
func (v *userView) IsCompleted(ctx context.Context, key string) (bool, error) {
	t := v.tracker

	cached, err := t.KV.Exists(cacheKey(v.userID, key))
	if err != nil {
		return false, err
	}
	if cached {
		return true, nil
	}

	courseKey, lessonSlug := domain.SplitCompletionKey(key)
	done, err := t.Repo.HasCompletion(ctx, v.userID, courseKey, lessonSlug)
	if err != nil {
		return false, err
	}
	if done {
		if err := t.KV.SetEX(cacheKey(v.userID, key), "1", t.CacheTTL); err != nil {
			logging.ExtractLoggerFromContext(ctx).Warn("Failed to warm completion flag",
				zap.String("completion.key", key), zap.Error(err))
		}
	}
	return done, nil
}

func cacheKey(userID, completionKey string) string {
	return fmt.Sprintf("completion:%s:%s", userID, completionKey)
}
