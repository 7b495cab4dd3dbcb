package completion

import (
	"sync"

	"github.com/coursetrail/coursetrail/internal/domain"
)

// Feed fan-out of completion events to per-user subscribers
type Feed struct {
	mu   sync.RWMutex
	subs map[string]map[chan *domain.CompletionRecord]struct{}
}

func NewFeed() *Feed {
	return &Feed{
		subs: make(map[string]map[chan *domain.CompletionRecord]struct{}),
	}
}

// Subscribe events of a single user. The returned cancel function must be
// called to release the subscription; it closes the channel so consumers
// ranging over it unblock. Calling cancel more than once is safe.
func (f *Feed) Subscribe(userID string) (<-chan *domain.CompletionRecord, func()) {
	ch := make(chan *domain.CompletionRecord, 8)

	f.mu.Lock()
	if f.subs[userID] == nil {
		f.subs[userID] = make(map[chan *domain.CompletionRecord]struct{})
	}
	f.subs[userID][ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if set, ok := f.subs[userID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				// Publish holds the read lock while sending, so closing
				// under the write lock cannot race a send
				close(ch)
				if len(set) == 0 {
					delete(f.subs, userID)
				}
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// HasSubscribers report whether any subscription is active for the user
func (f *Feed) HasSubscribers(userID string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs[userID]) > 0
}

// Publish deliver a record to the user's subscribers. Slow consumers are
// skipped instead of blocking the publisher.
func (f *Feed) Publish(record *domain.CompletionRecord) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subs[record.UserID] {
		select {
		case ch <- record:
		default:
		}
	}
}
