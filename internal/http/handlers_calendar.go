package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"guideos/internal/core"
)

type monthCursor struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type calendarResponse struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Cells []core.Cell `json:"cells"`
	Prev  monthCursor `json:"prev"`
	Next  monthCursor `json:"next"`
}

// handleCalendar returns the 42-cell month grid with prev/next cursors.
// Grids are cached per month and purged whenever a collection changes.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(w, r, http.StatusBadRequest, "invalid year")
		return
	}
	monthNum, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		writeError(w, r, http.StatusBadRequest, "invalid month")
		return
	}
	month := time.Month(monthNum)

	key := fmt.Sprintf("%04d-%02d", year, monthNum)
	if resp, ok := s.gridCache.Get(key); ok {
		writeJSON(w, r, http.StatusOK, resp)
		return
	}

	trips := s.trips.List(r.Context())
	prevYear, prevMonth := core.PrevMonth(year, month)
	nextYear, nextMonth := core.NextMonth(year, month)
	resp := calendarResponse{
		Year:  year,
		Month: monthNum,
		Cells: core.BuildMonthGrid(year, month, s.now(), trips),
		Prev:  monthCursor{Year: prevYear, Month: int(prevMonth)},
		Next:  monthCursor{Year: nextYear, Month: int(nextMonth)},
	}
	s.gridCache.Set(key, resp)

	writeJSON(w, r, http.StatusOK, resp)
}
