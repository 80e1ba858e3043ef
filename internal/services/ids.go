// Package services implements the operations the presentation layer
// calls: the trip and payment repositories over the shared record store,
// and the scripted assistant responder.
package services

import "github.com/google/uuid"

// NewID mints a time-ordered unique record id (UUIDv7), so that
// lexicographically larger ids are more recent. The payment display
// order relies on that: id-descending is the recency tie-break.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// crypto/rand failure; fall back to a random v4
		return uuid.NewString()
	}
	return id.String()
}
