package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusUpcoming  Status = "Upcoming"
	StatusCompleted Status = "Completed"
)

const (
	MethodCash   Method = "Cash"
	MethodStripe Method = "Stripe"
	MethodCheck  Method = "Check"
	MethodVenmo  Method = "Venmo"
	MethodOther  Method = "Other"
)

// DateLayout is the wire format for trip dates ("YYYY-MM-DD").
const DateLayout = "2006-01-02"

type (
	// Status is the scheduling state of a trip.
	Status string

	// Method is how a payment was (or will be) settled.
	Method string

	// Trip is a scheduled engagement with a client.
	// JSON field names match the persisted collection blobs.
	Trip struct {
		ID       string `json:"id"`
		Date     string `json:"date"` // YYYY-MM-DD, empty for drafts (never persisted)
		Client   string `json:"client"`
		Location string `json:"location"`
		Gear     string `json:"gear"`
		Notes    string `json:"notes"`
		Status   Status `json:"status"`
	}

	// Payment is a billing record, optionally linked to a trip.
	// Amount is kept as the raw decimal string the operator entered;
	// aggregates coerce it via Cents.
	Payment struct {
		ID     string `json:"id"`
		Client string `json:"client"`
		TripID string `json:"tripId"` // may dangle or be empty; consumers resolve to "no trip"
		Amount string `json:"amount"`
		Paid   bool   `json:"paid"`
		Method Method `json:"method"`
	}
)

var (
	ErrEmptyClient = errors.New("empty client")
	ErrEmptyDate   = errors.New("empty date")
	ErrEmptyAmount = errors.New("empty amount")
)

// Validate reports why a trip must not be persisted.
// A trip with an empty client or empty date never reaches storage.
func (t Trip) Validate() error {
	if strings.TrimSpace(t.Client) == "" {
		return ErrEmptyClient
	}
	if strings.TrimSpace(t.Date) == "" {
		return ErrEmptyDate
	}
	return nil
}

// Toggled flips Upcoming <-> Completed.
func (s Status) Toggled() Status {
	if s == StatusUpcoming {
		return StatusCompleted
	}
	return StatusUpcoming
}

// DateTime parses the trip date. ok is false for empty or malformed
// dates; those sort after all valid dates.
func (t Trip) DateTime() (time.Time, bool) {
	d, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Validate reports why a payment must not be persisted.
func (p Payment) Validate() error {
	if strings.TrimSpace(p.Client) == "" {
		return ErrEmptyClient
	}
	if strings.TrimSpace(p.Amount) == "" {
		return ErrEmptyAmount
	}
	return nil
}

// IsValidation reports whether err is one of the input-validation sentinels.
// Mutations rejected with these leave the collection untouched.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyClient) || errors.Is(err, ErrEmptyDate) || errors.Is(err, ErrEmptyAmount)
}
