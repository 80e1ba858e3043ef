package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"guideos/internal/core"
	"guideos/internal/store"
)

// Totals is the payment aggregate: Total == Paid + Unpaid always holds,
// including for the empty collection (all zero).
type Totals struct {
	Total  core.Money `json:"total"`
	Paid   core.Money `json:"paid"`
	Unpaid core.Money `json:"unpaid"`
}

// Payments is the payment repository over the shared record store.
type Payments struct {
	store *store.Store
	newID func() string
}

// NewPayments constructs the payment repository over the given store.
func NewPayments(s *store.Store) *Payments {
	return &Payments{store: s, newID: NewID}
}

// List returns the payment collection in stored order.
func (p *Payments) List(ctx context.Context) []core.Payment {
	return store.Load[core.Payment](ctx, p.store, store.PaymentsKey)
}

// Upsert persists payment with the same replace-or-append semantics as
// trips. Empty client or amount rejects the mutation, leaving the
// collection untouched.
func (p *Payments) Upsert(ctx context.Context, pay core.Payment) (core.Payment, error) {
	if err := pay.Validate(); err != nil {
		return core.Payment{}, err
	}
	if pay.Method == "" {
		pay.Method = core.MethodCash
	}

	payments := p.List(ctx)
	replaced := false
	if pay.ID != "" {
		for i := range payments {
			if payments[i].ID == pay.ID {
				payments[i] = pay
				replaced = true
				break
			}
		}
	}
	if !replaced {
		pay.ID = p.newID()
		payments = append(payments, pay)
	}

	if err := store.Save(ctx, p.store, store.PaymentsKey, payments); err != nil {
		return core.Payment{}, err
	}
	slog.InfoContext(ctx, "payment saved", "id", pay.ID, "client", pay.Client, "paid", pay.Paid, "replaced", replaced)
	return pay, nil
}

// Remove filters the payment with the given id out of the collection.
// Unknown ids leave the collection unchanged.
func (p *Payments) Remove(ctx context.Context, id string) error {
	payments := p.List(ctx)
	kept := payments[:0]
	for _, pay := range payments {
		if pay.ID != id {
			kept = append(kept, pay)
		}
	}
	return store.Save(ctx, p.store, store.PaymentsKey, kept)
}

// Unpaid returns the payments still outstanding, in stored order.
func (p *Payments) Unpaid(ctx context.Context) []core.Payment {
	var out []core.Payment
	for _, pay := range p.List(ctx) {
		if !pay.Paid {
			out = append(out, pay)
		}
	}
	return out
}

// Totals sums amounts across the whole collection and across the paid
// subset; unpaid is the difference. Non-numeric amounts count as zero,
// so this never fails on operator input.
func (p *Payments) Totals(ctx context.Context) Totals {
	var total, paid core.Money
	for _, pay := range p.List(ctx) {
		amount := core.Money{Cents: core.Cents(pay.Amount)}
		total = total.Add(amount)
		if pay.Paid {
			paid = paid.Add(amount)
		}
	}
	return Totals{Total: total, Paid: paid, Unpaid: total.Sub(paid)}
}

// LinkedTrip resolves a payment's tripId against the supplied trip
// snapshot. An empty or dangling reference resolves to nil, never an
// error: trip deletion does not cascade, so dangling ids are expected.
func LinkedTrip(pay core.Payment, trips []core.Trip) *core.Trip {
	if pay.TripID == "" {
		return nil
	}
	for i := range trips {
		if trips[i].ID == pay.TripID {
			return &trips[i]
		}
	}
	return nil
}

// Sorted returns the display order: unpaid before paid, and within the
// same paid state id descending. Ids are time-ordered, so descending id
// is a reproducible most-recent-first tie-break, not insertion order.
func (p *Payments) Sorted(ctx context.Context) []core.Payment {
	payments := p.List(ctx)
	out := make([]core.Payment, len(payments))
	copy(out, payments)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Paid != out[j].Paid {
			return !out[i].Paid
		}
		return strings.Compare(out[i].ID, out[j].ID) > 0
	})
	return out
}
