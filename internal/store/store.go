// Package store implements the shared record store: named collections
// persisted as whole JSON blobs in a key-value backend, plus the change
// bus every open view listens on. Writers always rewrite the full
// collection and broadcast only after the write landed; readers re-read
// everything on a signal because the signal carries no payload.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Collection keys. Two independent collections share one backend.
const (
	TripsKey    = "guideos_trips"
	PaymentsKey = "guideos_payments"
)

// KV is the raw blob backend under the store. Implementations live in
// store/memory and store/sqlite. Get reports ok=false for an absent key.
type KV interface {
	Get(ctx context.Context, key string) (blob string, ok bool, err error)
	Put(ctx context.Context, key string, blob string) error
}

// Notifier widens the change broadcast beyond this process (see
// internal/amqp). It is optional and best-effort.
type Notifier interface {
	NotifyChanged(ctx context.Context)
}

// Store couples a KV backend with the change bus.
type Store struct {
	kv       KV
	bus      *Bus
	notifier Notifier
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier attaches a cross-process change notifier invoked after
// every successful save, in addition to the in-process broadcast.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// New builds a Store over the given backend.
func New(kv KV, opts ...Option) *Store {
	s := &Store{kv: kv, bus: NewBus()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Subscribe registers a listener on the change bus. See Bus.Subscribe.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	return s.bus.Subscribe()
}

// Broadcast re-emits a change signal without writing anything. Used by
// the cross-process relay when another instance reports a change.
func (s *Store) Broadcast() {
	s.bus.Broadcast()
}

// Load reads and decodes the collection at key. A missing key, a backend
// read error, or an unparsable blob all yield the empty collection: this
// state is not worth failing a view over, so the error is logged and
// swallowed.
func Load[T any](ctx context.Context, s *Store, key string) []T {
	blob, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "collection read failed, starting empty", "key", key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var records []T
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		slog.WarnContext(ctx, "collection blob unparsable, starting empty", "key", key, "error", err)
		return nil
	}
	return records
}

// Save serializes records and rewrites the whole collection at key, then
// broadcasts the change signal. The broadcast fires only after the
// backend accepted the write (write-then-notify); a failed write emits
// nothing. It always broadcasts process-wide, not per collection, since
// views derive state from both collections.
func Save[T any](ctx context.Context, s *Store, key string, records []T) error {
	if records == nil {
		records = []T{} // persist "[]", never "null"
	}
	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, string(blob)); err != nil {
		return fmt.Errorf("write collection %s: %w", key, err)
	}
	s.bus.Broadcast()
	if s.notifier != nil {
		s.notifier.NotifyChanged(ctx)
	}
	return nil
}
