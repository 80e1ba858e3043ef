package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"guideos/internal/core"
)

// Fixed assistant replies. The responder is a decision table over
// keyword substrings, not a language model; every branch below is the
// complete script.
const (
	replyNoTrips = "You have no trips scheduled right now. Add one in the Trip Manager and I can help you get ready for it."

	replyAllPaid = "All payments are settled — nothing outstanding. Nice work!"

	replyGear = "Gear basics for a guided day: rods rigged the night before, spare line and leaders, a net, pliers, sunscreen, and rain layers. Pack backups for whatever your clients are most likely to break."

	replyWeather = "Always check wind and pressure the evening before and again at dawn. A falling barometer often turns the bite on; bluebird high pressure after a front usually means working deeper and slower."

	replyLocation = "Scout your spots a day ahead when you can. Keep a primary and a backup within a short run of each other, and note launch conditions — water levels change faster than the forecast does."

	replyNoClients = "No clients on the books yet. Once you add trips, I can pull up who you're guiding."

	replyHelp = "I can tell you about your next trip, outstanding payments, your clients, and share quick tips on gear, weather, and locations. Just ask."
)

// fillerReplies is the fallback pool for input no rule matches.
var fillerReplies = [...]string{
	"Tight lines! Anything else about your trips or payments?",
	"I didn't quite catch that — try asking about trips, payments, gear, or weather.",
	"Every day on the water is a good day. What can I look up for you?",
	"Hmm, that one's outside my tackle box. Ask me about your schedule or payments.",
	"Let's keep it simple: trips, payments, clients, gear, weather, or locations.",
}

// Assistant produces scripted replies from trip and payment snapshots.
// Randomness and the cosmetic typing delay are injected so tests run
// without real time or real entropy.
type Assistant struct {
	intn     func(n int) int
	minDelay time.Duration
	maxDelay time.Duration
}

// AssistantOption configures an Assistant.
type AssistantOption func(*Assistant)

// WithRand replaces the random source used for filler selection and
// delay jitter.
func WithRand(intn func(n int) int) AssistantOption {
	return func(a *Assistant) { a.intn = intn }
}

// WithTypingDelay sets the simulated-typing delay range. A zero max
// delivers immediately.
func WithTypingDelay(min, max time.Duration) AssistantOption {
	return func(a *Assistant) { a.minDelay, a.maxDelay = min, max }
}

// NewAssistant returns a responder with real randomness and a short
// typing delay.
func NewAssistant(opts ...AssistantOption) *Assistant {
	a := &Assistant{
		intn:     rand.IntN,
		minDelay: 600 * time.Millisecond,
		maxDelay: 1500 * time.Millisecond,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Respond maps free-text input to a reply. Matching is case-insensitive
// substring containment, first rule wins. The function is total: any
// input, including empty or arbitrary unicode, yields a non-empty reply.
func (a *Assistant) Respond(input string, trips []core.Trip, payments []core.Payment) string {
	in := strings.ToLower(input)

	switch {
	case containsAny(in, "trip", "schedule"):
		return nextTripReply(trips)
	case containsAny(in, "payment", "money", "paid"):
		return unpaidReply(payments)
	case containsAny(in, "gear", "equipment"):
		return replyGear
	case containsAny(in, "weather"):
		return replyWeather
	case containsAny(in, "location", "spot", "where"):
		return replyLocation
	case containsAny(in, "client"):
		return clientsReply(trips)
	case containsAny(in, "help"):
		return replyHelp
	default:
		return fillerReplies[a.intn(len(fillerReplies))]
	}
}

// Reply computes the response and delivers it after the simulated typing
// delay. If ctx is cancelled during the delay — the transcript went away
// — the reply is dropped silently.
func (a *Assistant) Reply(ctx context.Context, input string, trips []core.Trip, payments []core.Payment, deliver func(string)) {
	reply := a.Respond(input, trips, payments)

	delay := a.minDelay
	if span := a.maxDelay - a.minDelay; span > 0 {
		delay += time.Duration(a.intn(int(span)))
	}
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
	deliver(reply)
}

func containsAny(in string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(in, k) {
			return true
		}
	}
	return false
}

// nextTripReply reports the upcoming trip with the earliest date. Empty
// or unparsable dates sort after valid ones; ties keep the first record
// in stored order.
func nextTripReply(trips []core.Trip) string {
	var next *core.Trip
	var nextDate time.Time
	var nextValid bool
	for i := range trips {
		t := &trips[i]
		if t.Status != core.StatusUpcoming {
			continue
		}
		d, ok := t.DateTime()
		switch {
		case next == nil:
			next, nextDate, nextValid = t, d, ok
		case ok && !nextValid:
			next, nextDate, nextValid = t, d, ok
		case ok && nextValid && d.Before(nextDate):
			next, nextDate, nextValid = t, d, ok
		}
	}
	if next == nil {
		return replyNoTrips
	}
	if next.Location != "" {
		return fmt.Sprintf("Your next trip is with %s on %s at %s. Want a prep checklist?", next.Client, next.Date, next.Location)
	}
	return fmt.Sprintf("Your next trip is with %s on %s. Want a prep checklist?", next.Client, next.Date)
}

// unpaidReply summarizes outstanding payments. The named client is the
// first unpaid record in display order (id descending), which is the
// most recent one even though the copy says oldest; this mirrors the
// shipped behavior on purpose.
func unpaidReply(payments []core.Payment) string {
	var unpaid []core.Payment
	var sum core.Money
	for _, p := range payments {
		if p.Paid {
			continue
		}
		unpaid = append(unpaid, p)
		sum = sum.Add(core.Money{Cents: core.Cents(p.Amount)})
	}
	if len(unpaid) == 0 {
		return replyAllPaid
	}
	first := unpaid[0]
	for _, p := range unpaid[1:] {
		if p.ID > first.ID {
			first = p
		}
	}
	return fmt.Sprintf("You have %d unpaid payment(s) totaling $%s. Oldest outstanding: %s.", len(unpaid), sum.Format(), first.Client)
}

// clientsReply lists up to three distinct client names from the trip
// collection, in first-seen order.
func clientsReply(trips []core.Trip) string {
	seen := make(map[string]struct{})
	var names []string
	for _, t := range trips {
		if t.Client == "" {
			continue
		}
		if _, ok := seen[t.Client]; ok {
			continue
		}
		seen[t.Client] = struct{}{}
		names = append(names, t.Client)
		if len(names) == 3 {
			break
		}
	}
	if len(names) == 0 {
		return replyNoClients
	}
	return fmt.Sprintf("Recent clients: %s.", strings.Join(names, ", "))
}

// PlanSummary renders the trip-prep checklist for a planned outing. It
// interpolates whatever the operator typed; there is no validation to
// fail on.
func PlanSummary(location, gear, clientType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trip Prep Summary\n\n")
	fmt.Fprintf(&b, "Location: %s\nGear needed: %s\nClient type: %s\n\n", location, gear, clientType)
	fmt.Fprintf(&b, "Pre-trip checklist:\n")
	fmt.Fprintf(&b, "- Check weather conditions for %s\n", location)
	fmt.Fprintf(&b, "- Prepare gear: %s\n", gear)
	fmt.Fprintf(&b, "- Review safety protocols for %s clients\n", clientType)
	fmt.Fprintf(&b, "- Confirm meeting time and location\n")
	fmt.Fprintf(&b, "- Check licenses and permits\n")
	fmt.Fprintf(&b, "- Pack first aid kit and emergency contacts\n\n")
	fmt.Fprintf(&b, "Pro tips:\n")
	fmt.Fprintf(&b, "- Arrive 30 minutes early to set up\n")
	fmt.Fprintf(&b, "- Bring backup gear for %s clients\n", clientType)
	fmt.Fprintf(&b, "- Check local regulations for %s\n", location)
	fmt.Fprintf(&b, "- Have a backup plan for weather changes\n")
	return b.String()
}
