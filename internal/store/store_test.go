package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guideos/internal/core"
	"guideos/internal/store"
	"guideos/internal/store/memory"
)

// failingKV rejects every write; reads delegate to nothing.
type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("backend down")
}
func (failingKV) Put(context.Context, string, string) error {
	return errors.New("backend down")
}

var _ store.KV = failingKV{}

func TestSaveThenLoadRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := store.New(memory.New())

	trips := []core.Trip{
		{ID: "t1", Date: "2024-03-05", Client: "Alice", Status: core.StatusUpcoming},
		{ID: "t2", Date: "2024-03-06", Client: "Bob", Status: core.StatusCompleted},
	}
	require.NoError(t, store.Save(ctx, s, store.TripsKey, trips))

	got := store.Load[core.Trip](ctx, s, store.TripsKey)
	assert.Equal(t, trips, got)
}

func TestLoadFailOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		s := store.New(memory.New())
		assert.Empty(t, store.Load[core.Trip](ctx, s, store.TripsKey))
	})

	t.Run("unparsable blob", func(t *testing.T) {
		kv := memory.New()
		kv.Seed(store.TripsKey, "{definitely not json")
		s := store.New(kv)
		assert.Empty(t, store.Load[core.Trip](ctx, s, store.TripsKey))
	})

	t.Run("backend error", func(t *testing.T) {
		s := store.New(failingKV{})
		assert.Empty(t, store.Load[core.Trip](ctx, s, store.TripsKey))
	})
}

func TestSavePersistsEmptyArrayNotNull(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := store.New(kv)

	require.NoError(t, store.Save(ctx, s, store.PaymentsKey, []core.Payment(nil)))
	blob, ok, err := kv.Get(ctx, store.PaymentsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", blob)
}

func TestSaveBroadcastsAfterWrite(t *testing.T) {
	ctx := context.Background()
	s := store.New(memory.New())

	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, store.Save(ctx, s, store.TripsKey, []core.Trip{}))
	select {
	case <-ch:
	default:
		t.Fatal("expected a change signal after save")
	}

	// saving the payment collection signals trip listeners too: the
	// signal is process-wide, not per collection
	require.NoError(t, store.Save(ctx, s, store.PaymentsKey, []core.Payment{}))
	select {
	case <-ch:
	default:
		t.Fatal("expected a change signal for the other collection")
	}
}

func TestFailedWriteEmitsNoSignal(t *testing.T) {
	ctx := context.Background()
	s := store.New(failingKV{})

	ch, cancel := s.Subscribe()
	defer cancel()

	err := store.Save(ctx, s, store.TripsKey, []core.Trip{{ID: "t1"}})
	require.Error(t, err)
	select {
	case <-ch:
		t.Fatal("broadcast must not precede a durable write")
	default:
	}
}

type recordingNotifier struct{ calls int }

func (n *recordingNotifier) NotifyChanged(context.Context) { n.calls++ }

func TestSaveInvokesNotifier(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	s := store.New(memory.New(), store.WithNotifier(n))

	require.NoError(t, store.Save(ctx, s, store.TripsKey, []core.Trip{}))
	require.NoError(t, store.Save(ctx, s, store.TripsKey, []core.Trip{}))
	assert.Equal(t, 2, n.calls)
}
