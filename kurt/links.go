package kurt

import (
	"fmt"
	"net/url"
	"time"
)

// BookingLink holds a generated reservation URL and its human time range.
type BookingLink struct {
	URL   string
	Start time.Time
	End   time.Time
}

// BuildBookingLink produces a deep link into the KURT reservation page
// for a seat on a date between two same-day hours. If endHour is at or
// before startHour the end instant rolls over to the following day
// (overnight booking).
func BuildBookingLink(baseURL, resourceID, date string, startHour, endHour int) (BookingLink, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return BookingLink{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	if startHour < 0 || startHour > 23 {
		return BookingLink{}, fmt.Errorf("start hour %d out of range 0-23", startHour)
	}
	if endHour < 0 || endHour > 23 {
		return BookingLink{}, fmt.Errorf("end hour %d out of range 0-23", endHour)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, day.Location())
	if endHour <= startHour {
		end = end.AddDate(0, 0, 1)
	}

	params := url.Values{}
	params.Set("StartDateTime", start.Format("2006-01-02T15:04:05"))
	params.Set("EndDateTime", end.Format("2006-01-02T15:04:05"))
	params.Set("ID", resourceID)
	params.Set("type", "b")

	return BookingLink{
		URL:   baseURL + "?" + params.Encode(),
		Start: start,
		End:   end,
	}, nil
}

// BuildCheckinLink produces a check-in URL for a seat. Total: plain
// concatenation, no failure modes.
func BuildCheckinLink(baseURL, resourceID string) string {
	return baseURL + resourceID
}
