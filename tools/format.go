package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/breitburg/kurtosis/availability"
	"github.com/breitburg/kurtosis/kurt"
)

// FormatSpaces renders the directory listing: one block per space with
// seat count, generalized seat-name patterns, and location id.
func FormatSpaces(spaces []kurt.StudySpace) string {
	var b strings.Builder
	b.WriteString("Available KU Leuven Study Spaces:\n\n")
	for _, space := range spaces {
		building := space.BuildingName
		if building == "" {
			building = "Unknown Building"
		}
		name := space.SpaceName
		if name == "" {
			name = "Unknown Space"
		}
		location := space.LocationID
		if location == "" {
			location = "N/A"
		}
		patterns := availability.SeatNamePatterns(space.Seats)
		fmt.Fprintf(&b, "%s - %s\n", building, name)
		fmt.Fprintf(&b, "   • %d seats available: %s\n", len(space.Seats), strings.Join(patterns, ", "))
		fmt.Fprintf(&b, "   • Location ID: %s\n\n", location)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// FormatReport renders a resolution report. A report with zero matches
// gets its own distinct wording.
func FormatReport(report *availability.Report) string {
	q := report.Query

	var b strings.Builder
	fmt.Fprintf(&b, "Availability for %s - %s on %s:\n", q.BuildingName, q.SpaceName, q.Date)

	filters := []string{fmt.Sprintf("availability: '%s'", q.AvailabilityPattern)}
	if q.SeatNamePattern != "" {
		filters = append(filters, fmt.Sprintf("seat name: '%s'", q.SeatNamePattern))
	}
	fmt.Fprintf(&b, "Filters applied: %s\n", strings.Join(filters, ", "))
	if q.SeatNamePattern != "" {
		fmt.Fprintf(&b, "Seats filtered: %d/%d seats match name pattern\n", report.NameFiltered, report.TotalSeats)
	}
	b.WriteString("\n")

	if len(report.Matches) == 0 {
		b.WriteString("No seats available that match the availability pattern\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Available seats matching pattern (%d found):\n", len(report.Matches))
	for _, m := range report.Matches {
		fmt.Fprintf(&b, "%s (%s): %s\n", m.Seat.Name, m.Seat.ID, m.Signature())
	}
	return b.String()
}

// resolveErrorText maps a resolution failure to the user-facing
// message contract: say what went wrong, echo the offending input, and
// always include the manual fallback.
func resolveErrorText(q availability.Query, err error) string {
	var patternErr *availability.PatternError
	var fetchErr *availability.FetchError

	switch {
	case errors.Is(err, availability.ErrInvalidDate):
		return fmt.Sprintf("Error: Invalid date format '%s'. Please use YYYY-MM-DD format. Try again or visit %s to check availability manually.", q.Date, FallbackURL)
	case errors.Is(err, availability.ErrDateOutOfRange):
		return fmt.Sprintf("Error: %v. You can only query from today up to 8 days ahead. Try again with another date or visit %s to check availability manually.", err, FallbackURL)
	case errors.Is(err, availability.ErrDataUnavailable):
		return fmt.Sprintf("Error: Could not load study spaces data. Please try again or visit %s to browse study spaces manually.", FallbackURL)
	case errors.Is(err, availability.ErrSpaceNotFound):
		return fmt.Sprintf("Error: Could not find study space '%s' in '%s'. Please try again with correct names or visit %s to browse available spaces.", q.SpaceName, q.BuildingName, FallbackURL)
	case errors.Is(err, availability.ErrEmptySeatSet):
		return fmt.Sprintf("Error: No seats found for %s - %s. Please try again or visit %s to check availability manually.", q.BuildingName, q.SpaceName, FallbackURL)
	case errors.As(err, &patternErr):
		return fmt.Sprintf("Error: Invalid regex pattern - %v. Please try again with a valid regex or visit %s to search manually.", patternErr, FallbackURL)
	case errors.Is(err, availability.ErrNoSeatsMatched):
		return fmt.Sprintf("Error: No seats match the name pattern '%s'. Please try again with a different pattern or visit %s to browse seats manually.", q.SeatNamePattern, FallbackURL)
	case errors.As(err, &fetchErr):
		return fmt.Sprintf("Error querying availability: %v. Please try again or visit %s to check availability manually.", fetchErr.Err, FallbackURL)
	default:
		return fmt.Sprintf("Error: %v. Please try again or visit %s to check availability manually.", err, FallbackURL)
	}
}
