package service

import (
	"time"

	"github.com/college360hub/hub-booking/internal/model"
)

// bookingWindowDays is how far ahead tours can be booked, today included.
const bookingWindowDays = 90

// AvailableDates lists the Saturdays and Sundays from now's UTC date through
// the following 89 days, ascending, as YYYY-MM-DD.
func AvailableDates(now time.Time) []string {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]string, 0, bookingWindowDays/7*2+2)
	for i := 0; i < bookingWindowDays; i++ {
		d := start.AddDate(0, 0, i)
		if model.IsWeekend(d) {
			out = append(out, d.Format(model.DateLayout))
		}
	}
	return out
}

// TimeSlots returns a copy of the offered time windows.
func TimeSlots() []string {
	return append([]string(nil), model.TimeSlots...)
}
