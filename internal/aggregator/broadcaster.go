package aggregator

import (
	"sync"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/domain"
)

// Broadcaster fans each refreshed generation out to push-transport
// subscribers. The coordinator publishes without knowing how many
// subscribers exist; a subscriber that has not drained its previous
// snapshot has it replaced by the newer one. Delivery is at-most-once.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[chan []domain.TokenRecord]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan []domain.TokenRecord]struct{}),
	}
}

// Subscribe registers a new subscriber. The returned cancel function must be
// called when the subscriber goes away.
func (b *Broadcaster) Subscribe() (<-chan []domain.TokenRecord, func()) {
	ch := make(chan []domain.TokenRecord, 1)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subscribers, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *Broadcaster) publish(snapshot []domain.TokenRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subscribers {
		// Drop the stale pending snapshot, if any, then queue the new one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}
