package store

import "sync"

// Bus fans a payload-free "something changed, re-read everything" signal
// out to every subscriber. Signals coalesce: a subscriber that has not
// drained its channel holds exactly one pending signal and never blocks
// a writer.
type Bus struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[chan struct{}]struct{})}
}

// Subscribe registers a listener. The returned cancel func removes the
// subscription and closes the channel; it is safe to call more than once
// and safe to call concurrently with Broadcast.
func (b *Bus) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			close(ch)
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

// Broadcast signals every subscriber. Sends happen under the lock so a
// concurrent cancel cannot close a channel mid-send.
func (b *Bus) Broadcast() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default: // subscriber already has a pending signal
		}
	}
}

// Len reports the current number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
