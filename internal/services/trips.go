package services

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"guideos/internal/core"
	"guideos/internal/store"
)

// Trips is the trip repository. Every operation works on the full
// collection fetched through the record store, and every mutation
// rewrites the full collection (last write wins).
type Trips struct {
	store *store.Store
	newID func() string
}

// NewTrips constructs the trip repository over the given store.
func NewTrips(s *store.Store) *Trips {
	return &Trips{store: s, newID: NewID}
}

// List returns the trip collection in stored order.
func (t *Trips) List(ctx context.Context) []core.Trip {
	return store.Load[core.Trip](ctx, t.store, store.TripsKey)
}

// Upsert persists trip: when its id matches an existing record the
// record is replaced in place (position preserved), otherwise a fresh id
// is minted and the trip appended. A trip missing client or date is
// rejected with the matching validation sentinel and the collection is
// left untouched.
func (t *Trips) Upsert(ctx context.Context, trip core.Trip) (core.Trip, error) {
	if err := trip.Validate(); err != nil {
		return core.Trip{}, err
	}
	if trip.Status == "" {
		trip.Status = core.StatusUpcoming
	}

	trips := t.List(ctx)
	replaced := false
	if trip.ID != "" {
		for i := range trips {
			if trips[i].ID == trip.ID {
				trips[i] = trip
				replaced = true
				break
			}
		}
	}
	if !replaced {
		trip.ID = t.newID()
		trips = append(trips, trip)
	}

	if err := store.Save(ctx, t.store, store.TripsKey, trips); err != nil {
		return core.Trip{}, err
	}
	slog.InfoContext(ctx, "trip saved", "id", trip.ID, "client", trip.Client, "date", trip.Date, "replaced", replaced)
	return trip, nil
}

// Remove filters the trip with the given id out of the collection.
// An unknown id leaves the collection unchanged. Payments linked to the
// removed trip keep their tripId; dangling references are legal.
func (t *Trips) Remove(ctx context.Context, id string) error {
	trips := t.List(ctx)
	kept := trips[:0]
	for _, tr := range trips {
		if tr.ID != id {
			kept = append(kept, tr)
		}
	}
	return store.Save(ctx, t.store, store.TripsKey, kept)
}

// ToggleStatus flips Upcoming <-> Completed for the matching trip.
// Unknown ids are a no-op on the collection contents.
func (t *Trips) ToggleStatus(ctx context.Context, id string) error {
	trips := t.List(ctx)
	for i := range trips {
		if trips[i].ID == id {
			trips[i].Status = trips[i].Status.Toggled()
			break
		}
	}
	return store.Save(ctx, t.store, store.TripsKey, trips)
}

// OnDate returns the trips whose date equals date exactly.
func (t *Trips) OnDate(ctx context.Context, date string) []core.Trip {
	var out []core.Trip
	for _, tr := range t.List(ctx) {
		if tr.Date == date {
			out = append(out, tr)
		}
	}
	return out
}

// SortedBy returns a sorted copy of the collection. key "date" sorts
// ascending chronologically with empty or unparsable dates last; key
// "client" sorts by collated client name. Any other key returns the
// stored order. Both sorts are stable.
func (t *Trips) SortedBy(ctx context.Context, key string) []core.Trip {
	trips := t.List(ctx)
	out := make([]core.Trip, len(trips))
	copy(out, trips)

	switch key {
	case "date":
		sort.SliceStable(out, func(i, j int) bool {
			di, iok := out[i].DateTime()
			dj, jok := out[j].DateTime()
			if iok != jok {
				return iok // valid dates before invalid ones
			}
			if !iok {
				return false
			}
			return di.Before(dj)
		})
	case "client":
		c := collate.New(language.Und)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Client, out[j].Client) < 0
		})
	}
	return out
}
