package core

import "time"

// GridCells is the fixed size of a month grid: 6 full weeks, regardless
// of how many the month actually needs, so the rendered grid never
// changes height.
const GridCells = 42

// Cell is one day slot in a month grid.
type Cell struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Day     int    `json:"day"`
	InMonth bool   `json:"inMonth"`
	IsToday bool   `json:"isToday"`
	Trips   []Trip `json:"trips"`
}

// BuildMonthGrid projects (year, month) onto a 42-cell grid starting on
// the Sunday on or before the 1st of the month. Each cell carries every
// trip whose date matches the cell exactly; trimming the visible list to
// two entries is the caller's concern. today decides the IsToday flag
// and is injected so tests do not depend on the wall clock.
func BuildMonthGrid(year int, month time.Month, today time.Time, trips []Trip) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	byDate := make(map[string][]Trip)
	for _, t := range trips {
		if t.Date != "" {
			byDate[t.Date] = append(byDate[t.Date], t)
		}
	}

	todayStr := today.Format(DateLayout)
	cells := make([]Cell, 0, GridCells)
	for i := 0; i < GridCells; i++ {
		d := start.AddDate(0, 0, i)
		ds := d.Format(DateLayout)
		cells = append(cells, Cell{
			Date:    ds,
			Day:     d.Day(),
			InMonth: d.Month() == month,
			IsToday: ds == todayStr,
			Trips:   byDate[ds],
		})
	}
	return cells
}

// PrevMonth steps the cursor back one month, rolling the year.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return d.Year(), d.Month()
}

// NextMonth steps the cursor forward one month, rolling the year.
func NextMonth(year int, month time.Month) (int, time.Month) {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return d.Year(), d.Month()
}

// CurrentMonth resets the cursor to the month containing now.
func CurrentMonth(now time.Time) (int, time.Month) {
	return now.Year(), now.Month()
}
