package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guideos/internal/core"
	"guideos/internal/services"
	"guideos/internal/store"
	"guideos/internal/store/memory"
)

func newPaymentRepo(t *testing.T) (*services.Payments, *store.Store) {
	t.Helper()
	s := store.New(memory.New())
	return services.NewPayments(s), s
}

func TestPaymentUpsertAndReject(t *testing.T) {
	ctx := context.Background()
	payments, _ := newPaymentRepo(t)

	p, err := payments.Upsert(ctx, core.Payment{Client: "Alice", Amount: "100"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, core.MethodCash, p.Method, "method defaults to Cash")

	before := payments.List(ctx)
	_, err = payments.Upsert(ctx, core.Payment{Amount: "50"})
	assert.ErrorIs(t, err, core.ErrEmptyClient)
	_, err = payments.Upsert(ctx, core.Payment{Client: "Bob"})
	assert.ErrorIs(t, err, core.ErrEmptyAmount)
	assert.Equal(t, before, payments.List(ctx))

	// replace in place by id
	p.Paid = true
	updated, err := payments.Upsert(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	list := payments.List(ctx)
	require.Len(t, list, 1)
	assert.True(t, list[0].Paid)
}

func TestPaymentRemove(t *testing.T) {
	ctx := context.Background()
	payments, _ := newPaymentRepo(t)

	p, err := payments.Upsert(ctx, core.Payment{Client: "Alice", Amount: "100"})
	require.NoError(t, err)

	require.NoError(t, payments.Remove(ctx, p.ID))
	assert.Empty(t, payments.List(ctx))
	require.NoError(t, payments.Remove(ctx, "ghost"))
	assert.Empty(t, payments.List(ctx))
}

func TestPaymentTotals(t *testing.T) {
	ctx := context.Background()
	payments, s := newPaymentRepo(t)

	t.Run("empty collection is all zero", func(t *testing.T) {
		got := payments.Totals(ctx)
		assert.Equal(t, services.Totals{}, got)
	})

	seed := []core.Payment{
		{ID: "p1", Client: "Alice", Amount: "100", Paid: false},
		{ID: "p2", Client: "Bob", Amount: "50", Paid: true},
	}
	require.NoError(t, store.Save(ctx, s, store.PaymentsKey, seed))

	got := payments.Totals(ctx)
	assert.Equal(t, int64(15000), got.Total.Cents)
	assert.Equal(t, int64(5000), got.Paid.Cents)
	assert.Equal(t, int64(10000), got.Unpaid.Cents)
	assert.Equal(t, got.Total, got.Paid.Add(got.Unpaid), "total == paid + unpaid")
}

func TestPaymentTotalsCoercesBadAmounts(t *testing.T) {
	ctx := context.Background()
	payments, s := newPaymentRepo(t)

	seed := []core.Payment{
		{ID: "p1", Client: "Alice", Amount: "not a number", Paid: false},
		{ID: "p2", Client: "Bob", Amount: "25.50", Paid: true},
	}
	require.NoError(t, store.Save(ctx, s, store.PaymentsKey, seed))

	got := payments.Totals(ctx)
	assert.Equal(t, int64(2550), got.Total.Cents)
	assert.Equal(t, int64(2550), got.Paid.Cents)
	assert.Equal(t, int64(0), got.Unpaid.Cents)
}

func TestPaymentUnpaid(t *testing.T) {
	ctx := context.Background()
	payments, s := newPaymentRepo(t)

	seed := []core.Payment{
		{ID: "p1", Client: "Alice", Amount: "100", Paid: false},
		{ID: "p2", Client: "Bob", Amount: "50", Paid: true},
		{ID: "p3", Client: "Cara", Amount: "75", Paid: false},
	}
	require.NoError(t, store.Save(ctx, s, store.PaymentsKey, seed))

	unpaid := payments.Unpaid(ctx)
	require.Len(t, unpaid, 2)
	assert.Equal(t, "p1", unpaid[0].ID)
	assert.Equal(t, "p3", unpaid[1].ID)
}

func TestLinkedTripResolvesOrReturnsNil(t *testing.T) {
	trips := []core.Trip{
		{ID: "t1", Date: "2024-03-05", Client: "Alice"},
	}

	linked := services.LinkedTrip(core.Payment{TripID: "t1"}, trips)
	require.NotNil(t, linked)
	assert.Equal(t, "Alice", linked.Client)

	// dangling reference resolves to no trip, never an error
	assert.Nil(t, services.LinkedTrip(core.Payment{TripID: "ghost"}, trips))
	assert.Nil(t, services.LinkedTrip(core.Payment{}, trips))
	assert.Nil(t, services.LinkedTrip(core.Payment{TripID: "t1"}, nil))
}

func TestPaymentSortedDisplayOrder(t *testing.T) {
	ctx := context.Background()
	payments, s := newPaymentRepo(t)

	// ids are time-ordered; higher id means more recent
	seed := []core.Payment{
		{ID: "a1", Client: "Old unpaid", Amount: "10", Paid: false},
		{ID: "b2", Client: "Paid later", Amount: "20", Paid: true},
		{ID: "c3", Client: "New unpaid", Amount: "30", Paid: false},
		{ID: "a0", Client: "Paid early", Amount: "40", Paid: true},
	}
	require.NoError(t, store.Save(ctx, s, store.PaymentsKey, seed))

	got := payments.Sorted(ctx)
	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	// unpaid first (id desc), then paid (id desc)
	assert.Equal(t, []string{"c3", "a1", "b2", "a0"}, ids)

	// display sort never reorders the stored collection
	assert.Equal(t, "a1", payments.List(ctx)[0].ID)
}
