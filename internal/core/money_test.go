package core

import "testing"

func TestCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{"100", 10000},
		{"12.34", 1234},
		{"12.345", 1235}, // rounds half away
		{"0", 0},
		{"0.01", 1},
		{" 50 ", 5000},
		{"", 0},        // empty coerces to zero
		{"abc", 0},     // non-numeric coerces to zero
		{"12,34", 0},   // comma separator is not a number
		{"1e2", 10000}, // scientific notation is a valid float
		{"-5", -500},   // sign preserved; validation, not coercion, gates input
	}
	for _, tc := range cases {
		if got := Cents(tc.in); got != tc.out {
			t.Fatalf("Cents(%q) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{15000, "150.00"},
		{1234, "12.34"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Format(); got != tc.want {
			t.Fatalf("Format(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyAddSub(t *testing.T) {
	a := Money{Cents: 10000}
	b := Money{Cents: 5000}
	if a.Add(b).Cents != 15000 {
		t.Fatalf("Add: got %d", a.Add(b).Cents)
	}
	if a.Sub(b).Cents != 5000 {
		t.Fatalf("Sub: got %d", a.Sub(b).Cents)
	}
}
