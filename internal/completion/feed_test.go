package completion

import (
	"testing"

	"github.com/coursetrail/coursetrail/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFeedPublishToSubscriber(t *testing.T) {
	feed := NewFeed()
	events, cancel := feed.Subscribe("u1")
	defer cancel()

	feed.Publish(&domain.CompletionRecord{UserID: "u1", CourseKey: "intro", LessonSlug: "a"})

	select {
	case record := <-events:
		assert.Equal(t, "a", record.LessonSlug)
	default:
		t.Fatal("expected an event")
	}
}

func TestFeedScopedToUser(t *testing.T) {
	feed := NewFeed()
	events, cancel := feed.Subscribe("u2")
	defer cancel()

	feed.Publish(&domain.CompletionRecord{UserID: "u1", CourseKey: "intro", LessonSlug: "a"})

	select {
	case <-events:
		t.Fatal("event leaked to another user's subscription")
	default:
	}
}

func TestFeedCancelClosesChannel(t *testing.T) {
	feed := NewFeed()
	events, cancel := feed.Subscribe("u1")
	cancel()

	feed.Publish(&domain.CompletionRecord{UserID: "u1", CourseKey: "intro", LessonSlug: "a"})

	record, open := <-events
	assert.Nil(t, record)
	assert.False(t, open, "cancel should close the subscription channel")
	assert.False(t, feed.HasSubscribers("u1"))
}

func TestFeedCancelTwice(t *testing.T) {
	feed := NewFeed()
	_, cancel := feed.Subscribe("u1")

	cancel()
	cancel()

	assert.False(t, feed.HasSubscribers("u1"))
}

func TestFeedCancelKeepsOtherSubscriptions(t *testing.T) {
	feed := NewFeed()
	events, cancelKept := feed.Subscribe("u1")
	defer cancelKept()
	_, cancelDropped := feed.Subscribe("u1")
	cancelDropped()

	feed.Publish(&domain.CompletionRecord{UserID: "u1", CourseKey: "intro", LessonSlug: "a"})

	select {
	case record, open := <-events:
		assert.True(t, open)
		assert.Equal(t, "a", record.LessonSlug)
	default:
		t.Fatal("expected an event on the surviving subscription")
	}
	assert.True(t, feed.HasSubscribers("u1"))
}

func TestFeedSlowConsumerDoesNotBlock(t *testing.T) {
	feed := NewFeed()
	_, cancel := feed.Subscribe("u1")
	defer cancel()

	// more events than the subscription buffer holds, Publish must not block
	for i := 0; i < 32; i++ {
		feed.Publish(&domain.CompletionRecord{UserID: "u1", CourseKey: "intro", LessonSlug: "a"})
	}
}
