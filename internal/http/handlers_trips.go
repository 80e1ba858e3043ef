package http

import (
	"net/http"

	"guideos/internal/core"
	"guideos/internal/log"
)

// handleListTrips returns the trip collection. ?sort=date|client applies
// a display sort; anything else returns stored order.
func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	sort := r.URL.Query().Get("sort")
	var trips []core.Trip
	if date := r.URL.Query().Get("date"); date != "" {
		trips = s.trips.OnDate(r.Context(), date)
	} else {
		trips = s.trips.SortedBy(r.Context(), sort)
	}
	writeJSON(w, r, http.StatusOK, trips)
}

// handleUpsertTrip creates or edits a trip. A body with an id known to
// the collection replaces that record in place; otherwise a fresh id is
// minted and the record appended.
func (s *Server) handleUpsertTrip(w http.ResponseWriter, r *http.Request) {
	var trip core.Trip
	if err := decodeJSON(r, &trip); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := s.trips.Upsert(r.Context(), trip)
	if err != nil {
		if core.IsValidation(err) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Trip upsert failed", log.FieldError, err.Error())
		writeError(w, r, http.StatusInternalServerError, "failed to save trip")
		return
	}
	writeJSON(w, r, http.StatusOK, saved)
}

// handleDeleteTrip removes a trip. Unknown ids are a silent no-op; the
// record the caller wanted gone is gone either way.
func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.trips.Remove(r.Context(), id); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Trip delete failed",
			log.FieldError, err.Error(),
			log.FieldTripID, id)
		writeError(w, r, http.StatusInternalServerError, "failed to delete trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleToggleTrip flips a trip between Upcoming and Completed. Unknown
// ids are a silent no-op.
func (s *Server) handleToggleTrip(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.trips.ToggleStatus(r.Context(), id); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Trip toggle failed",
			log.FieldError, err.Error(),
			log.FieldTripID, id)
		writeError(w, r, http.StatusInternalServerError, "failed to toggle trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
