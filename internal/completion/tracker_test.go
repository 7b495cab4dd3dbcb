package completion

import (
	"context"
	"testing"
	"time"

	"github.com/coursetrail/coursetrail/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) SetEX(key string, value string, expiration time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Get(key string) (string, error) {
	return f.data[key], nil
}

func (f *fakeKV) Exists(key string) (bool, error) {
	_, ok := f.data[key]
	return ok, nil
}

func (f *fakeKV) Ping() error { return nil }

type fakeCompletionRepo struct {
	records  map[string]*domain.CompletionRecord
	hasCalls int
}

func newFakeCompletionRepo() *fakeCompletionRepo {
	return &fakeCompletionRepo{records: make(map[string]*domain.CompletionRecord)}
}

func (f *fakeCompletionRepo) key(userID, courseKey, lessonSlug string) string {
	return userID + "|" + domain.CompletionKey(courseKey, lessonSlug)
}

func (f *fakeCompletionRepo) SaveCompletion(ctx context.Context, record *domain.CompletionRecord) error {
	k := f.key(record.UserID, record.CourseKey, record.LessonSlug)
	if _, ok := f.records[k]; !ok {
		f.records[k] = record
	}
	return nil
}

func (f *fakeCompletionRepo) HasCompletion(ctx context.Context, userID, courseKey, lessonSlug string) (bool, error) {
	f.hasCalls++
	_, ok := f.records[f.key(userID, courseKey, lessonSlug)]
	return ok, nil
}

func (f *fakeCompletionRepo) GetCompletionsByCourse(ctx context.Context, userID, courseKey string) ([]*domain.CompletionRecord, error) {
	var result []*domain.CompletionRecord
	for _, record := range f.records {
		if record.UserID == userID && record.CourseKey == courseKey {
			result = append(result, record)
		}
	}
	return result, nil
}

func TestTrackerMarkCompleted(t *testing.T) {
	repo := newFakeCompletionRepo()
	kv := newFakeKV()
	tracker := NewTracker(repo, kv, time.Hour, nil)

	record, err := tracker.MarkCompleted(context.Background(), "u1", "intro", "a")
	require.NoError(t, err)
	assert.Equal(t, "u1", record.UserID)
	assert.Equal(t, "intro", record.CourseKey)
	assert.Equal(t, "a", record.LessonSlug)
	require.NotNil(t, record.CreatedAt)

	// durable record and warm cache flag
	done, err := repo.HasCompletion(context.Background(), "u1", "intro", "a")
	require.NoError(t, err)
	assert.True(t, done)
	cached, err := kv.Exists(cacheKey("u1", "intro/a"))
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestTrackerIsCompletedCacheHit(t *testing.T) {
	repo := newFakeCompletionRepo()
	kv := newFakeKV()
	kv.SetEX(cacheKey("u1", "intro/a"), "1", time.Hour)
	tracker := NewTracker(repo, kv, time.Hour, nil)

	done, err := tracker.ForUser("u1").IsCompleted(context.Background(), "intro/a")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Zero(t, repo.hasCalls, "cache hit should not reach the repository")
}

func TestTrackerIsCompletedReadThrough(t *testing.T) {
	repo := newFakeCompletionRepo()
	now := time.Now()
	repo.SaveCompletion(context.Background(), &domain.CompletionRecord{
		UserID: "u1", CourseKey: "intro", LessonSlug: "a", CreatedAt: &now,
	})
	kv := newFakeKV()
	tracker := NewTracker(repo, kv, time.Hour, nil)
	view := tracker.ForUser("u1")

	done, err := view.IsCompleted(context.Background(), "intro/a")
	require.NoError(t, err)
	assert.True(t, done)

	// second lookup is served from the warmed cache
	done, err = view.IsCompleted(context.Background(), "intro/a")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 1, repo.hasCalls)
}

func TestTrackerIsCompletedMiss(t *testing.T) {
	tracker := NewTracker(newFakeCompletionRepo(), newFakeKV(), time.Hour, nil)

	done, err := tracker.ForUser("u1").IsCompleted(context.Background(), "intro/a")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestTrackerScopedPerUser(t *testing.T) {
	repo := newFakeCompletionRepo()
	kv := newFakeKV()
	tracker := NewTracker(repo, kv, time.Hour, nil)

	_, err := tracker.MarkCompleted(context.Background(), "u1", "intro", "a")
	require.NoError(t, err)

	done, err := tracker.ForUser("u2").IsCompleted(context.Background(), "intro/a")
	require.NoError(t, err)
	assert.False(t, done, "completion of one user must not leak to another")
}

func TestTrackerMarkCompletedPublishes(t *testing.T) {
	feed := NewFeed()
	events, cancel := feed.Subscribe("u1")
	defer cancel()
	tracker := NewTracker(newFakeCompletionRepo(), newFakeKV(), time.Hour, feed)

	_, err := tracker.MarkCompleted(context.Background(), "u1", "intro", "a")
	require.NoError(t, err)

	select {
	case record := <-events:
		assert.Equal(t, "intro", record.CourseKey)
		assert.Equal(t, "a", record.LessonSlug)
	default:
		t.Fatal("expected a completion event")
	}
}
