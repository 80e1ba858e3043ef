package core

import (
	"testing"
	"time"
)

func TestBuildMonthGridShape(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	cells := BuildMonthGrid(2024, time.March, today, nil)

	if len(cells) != GridCells {
		t.Fatalf("got %d cells, want %d", len(cells), GridCells)
	}
	// March 2024 starts on a Friday; the grid must reach back to the
	// preceding Sunday, Feb 25.
	if cells[0].Date != "2024-02-25" {
		t.Fatalf("first cell %s, want 2024-02-25", cells[0].Date)
	}
	first, _ := time.Parse(DateLayout, cells[0].Date)
	if first.Weekday() != time.Sunday {
		t.Fatalf("first cell is a %s, want Sunday", first.Weekday())
	}
	if cells[0].InMonth {
		t.Fatalf("leading February cell marked in-month")
	}
	// consecutive days throughout
	for i := 1; i < len(cells); i++ {
		prev, _ := time.Parse(DateLayout, cells[i-1].Date)
		cur, _ := time.Parse(DateLayout, cells[i].Date)
		if cur.Sub(prev) != 24*time.Hour {
			t.Fatalf("cells %d..%d not consecutive: %s -> %s", i-1, i, cells[i-1].Date, cells[i].Date)
		}
	}
}

func TestBuildMonthGridStartsOnFirstWhenSunday(t *testing.T) {
	// September 2024 starts on a Sunday; no leading cells.
	cells := BuildMonthGrid(2024, time.September, time.Time{}, nil)
	if cells[0].Date != "2024-09-01" {
		t.Fatalf("first cell %s, want 2024-09-01", cells[0].Date)
	}
	if !cells[0].InMonth {
		t.Fatalf("Sep 1 should be in-month")
	}
}

func TestBuildMonthGridTodayAndTrips(t *testing.T) {
	today := time.Date(2024, 3, 5, 17, 30, 0, 0, time.UTC)
	trips := []Trip{
		{ID: "t1", Date: "2024-03-05", Client: "Alice", Status: StatusUpcoming},
		{ID: "t2", Date: "2024-03-05", Client: "Bob", Status: StatusCompleted},
		{ID: "t3", Date: "2024-03-05", Client: "Cara", Status: StatusUpcoming},
		{ID: "t4", Date: "2024-04-01", Client: "Dan", Status: StatusUpcoming},
		{ID: "t5", Date: "", Client: "Eve", Status: StatusUpcoming}, // undated, never bucketed
	}
	cells := BuildMonthGrid(2024, time.March, today, trips)

	var day5 *Cell
	for i := range cells {
		if cells[i].Date == "2024-03-05" {
			day5 = &cells[i]
			break
		}
	}
	if day5 == nil {
		t.Fatalf("2024-03-05 missing from grid")
	}
	if !day5.IsToday {
		t.Fatalf("2024-03-05 should be today")
	}
	// full list attached, not truncated to the display limit of 2
	if len(day5.Trips) != 3 {
		t.Fatalf("got %d trips on day, want 3", len(day5.Trips))
	}
	for _, c := range cells {
		if c.IsToday && c.Date != "2024-03-05" {
			t.Fatalf("stray IsToday on %s", c.Date)
		}
	}
}

func TestMonthNavigationRollover(t *testing.T) {
	y, m := NextMonth(2024, time.December)
	if y != 2025 || m != time.January {
		t.Fatalf("NextMonth(2024, Dec) = %d %s", y, m)
	}
	y, m = PrevMonth(2024, time.January)
	if y != 2023 || m != time.December {
		t.Fatalf("PrevMonth(2024, Jan) = %d %s", y, m)
	}
	y, m = CurrentMonth(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	if y != 2026 || m != time.August {
		t.Fatalf("CurrentMonth = %d %s", y, m)
	}
}
