package http

import (
	"net/http"

	"guideos/internal/services"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// handleAssistantChat runs the scripted responder over current
// snapshots. The reply arrives through the simulated typing delay; if
// the client hangs up mid-delay the reply is dropped, matching the
// transcript-gone semantics of the responder itself.
func (s *Server) handleAssistantChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	trips := s.trips.List(r.Context())
	payments := s.payments.List(r.Context())

	delivered := false
	s.assistant.Reply(r.Context(), req.Message, trips, payments, func(reply string) {
		writeJSON(w, r, http.StatusOK, chatResponse{Reply: reply})
		delivered = true
	})
	if !delivered {
		// nobody is listening anymore
		return
	}
}

type planRequest struct {
	Location   string `json:"location"`
	Gear       string `json:"gear"`
	ClientType string `json:"clientType"`
}

type planResponse struct {
	Summary string `json:"summary"`
}

// handleAssistantPlan renders the trip-prep checklist. Free text in,
// free text out; there is nothing to validate.
func (s *Server) handleAssistantPlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	summary := services.PlanSummary(req.Location, req.Gear, req.ClientType)
	writeJSON(w, r, http.StatusOK, planResponse{Summary: summary})
}
