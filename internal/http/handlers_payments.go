package http

import (
	"net/http"

	"guideos/internal/core"
	"guideos/internal/log"
	"guideos/internal/services"
)

// paymentView is a payment plus its linked trip, resolved at read time.
// A dangling trip reference renders as a payment without a trip.
type paymentView struct {
	core.Payment
	Trip *core.Trip `json:"trip,omitempty"`
}

// handleListPayments returns payments in display order (unpaid first,
// most recent first within each group). ?unpaid=1 filters to the
// outstanding ones.
func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	var list []core.Payment
	if r.URL.Query().Get("unpaid") == "1" {
		list = s.payments.Unpaid(r.Context())
	} else {
		list = s.payments.Sorted(r.Context())
	}

	trips := s.trips.List(r.Context())
	views := make([]paymentView, len(list))
	for i, p := range list {
		views[i] = paymentView{Payment: p, Trip: services.LinkedTrip(p, trips)}
	}
	writeJSON(w, r, http.StatusOK, views)
}

// handleUpsertPayment creates or edits a payment record.
func (s *Server) handleUpsertPayment(w http.ResponseWriter, r *http.Request) {
	var pay core.Payment
	if err := decodeJSON(r, &pay); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := s.payments.Upsert(r.Context(), pay)
	if err != nil {
		if core.IsValidation(err) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Payment upsert failed", log.FieldError, err.Error())
		writeError(w, r, http.StatusInternalServerError, "failed to save payment")
		return
	}
	writeJSON(w, r, http.StatusOK, saved)
}

// handleDeletePayment removes a payment. Unknown ids are a silent no-op.
func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.payments.Remove(r.Context(), id); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Payment delete failed",
			log.FieldError, err.Error(),
			log.FieldPaymentID, id)
		writeError(w, r, http.StatusInternalServerError, "failed to delete payment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePaymentTotals returns total, paid, and unpaid sums. Amounts that
// never parsed count as zero rather than failing the aggregate.
func (s *Server) handlePaymentTotals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.payments.Totals(r.Context()))
}
