// Package core holds the domain types shared by every other internal
// package: trips, payments, money coercion, and the calendar projection.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents. Aggregates are computed in cents to keep
// them exact regardless of how the operator typed the amount.
type Money struct {
	Cents int64
}

// Cents leniently coerces a decimal string to cents. Anything that does
// not parse as a number counts as zero; aggregates never fail on a bad
// amount. Rounding is half away from zero on fractional cents.
func Cents(s string) int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(math.Round(f * 100))
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns m minus o.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// MarshalJSON renders the amount as a two-decimal JSON string so API
// consumers never see raw cents.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.Format())), nil
}

// Format renders the amount with exactly two decimals, e.g. "150.00".
func (m Money) Format() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
