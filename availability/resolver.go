// Package availability resolves per-seat, per-hour availability for a
// study space on a date and filters the result through two
// user-supplied regular expressions: one over seat names, one over the
// rendered availability signature.
package availability

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/breitburg/kurtosis/kurt"
)

// Bookable hours of a day. Upstream records outside this window are
// ignored, not errors.
const (
	FirstHour = 8
	LastHour  = 23
)

// maxDaysAhead bounds the query window: today through today+8 inclusive.
const maxDaysAhead = 8

// DirectorySource loads the space directory. An empty result means
// the data is unavailable.
type DirectorySource interface {
	LoadStudySpaces(ctx context.Context) []kurt.StudySpace
}

// ReservationSource fetches the busy-slot set for a set of resources
// on a date, on behalf of callerID.
type ReservationSource interface {
	FetchBusySlots(ctx context.Context, resourceIDs []string, date string, callerID string) (kurt.BusySlots, error)
}

// Query is one availability resolution request.
type Query struct {
	BuildingName        string
	SpaceName           string
	Date                string // YYYY-MM-DD
	AvailabilityPattern string
	CallerID            string
	SeatNamePattern     string // optional
}

// SeatAvailability is one surviving seat with its free hours.
type SeatAvailability struct {
	Seat      kurt.Seat
	FreeHours []int
}

// Signature renders the free hours as the comma-joined decimal string
// the availability pattern is matched against, e.g. "8,9,12,15".
// This rendering is the filter's contract; changing it changes what
// patterns can express.
func (s SeatAvailability) Signature() string {
	parts := make([]string, len(s.FreeHours))
	for i, h := range s.FreeHours {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ",")
}

// Report is the outcome of a resolution. Zero matches is a valid
// report, not an error.
type Report struct {
	Query        Query
	TotalSeats   int
	NameFiltered int
	Matches      []SeatAvailability
}

// Resolver orchestrates the resolution pipeline.
type Resolver struct {
	directory    DirectorySource
	reservations ReservationSource
	now          func() time.Time
}

// NewResolver wires a resolver to its data sources.
func NewResolver(directory DirectorySource, reservations ReservationSource) *Resolver {
	return &Resolver{directory: directory, reservations: reservations, now: time.Now}
}

// Resolve runs the full pipeline: date validation, pattern
// compilation, space lookup, seat-name filtering, busy-slot fetch,
// free-hour computation, and availability-signature filtering.
//
// Both patterns compile before any network call, so a bad pattern can
// never cost an upstream round trip.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*Report, error) {
	if err := r.validateDate(q.Date); err != nil {
		return nil, err
	}

	availPattern, err := regexp.Compile(q.AvailabilityPattern)
	if err != nil {
		return nil, &PatternError{Field: "availability", Pattern: q.AvailabilityPattern, Err: err}
	}
	var namePattern *regexp.Regexp
	if q.SeatNamePattern != "" {
		namePattern, err = regexp.Compile(q.SeatNamePattern)
		if err != nil {
			return nil, &PatternError{Field: "seat name", Pattern: q.SeatNamePattern, Err: err}
		}
	}

	spaces := r.directory.LoadStudySpaces(ctx)
	if len(spaces) == 0 {
		return nil, ErrDataUnavailable
	}

	space, ok := FindSpace(spaces, q.BuildingName, q.SpaceName)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %q", ErrSpaceNotFound, q.SpaceName, q.BuildingName)
	}
	if len(space.Seats) == 0 {
		return nil, fmt.Errorf("%w: %s - %s", ErrEmptySeatSet, q.BuildingName, q.SpaceName)
	}

	filtered := FilterByName(space.SortedSeats(), namePattern)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSeatsMatched, q.SeatNamePattern)
	}

	ids := make([]string, len(filtered))
	for i, seat := range filtered {
		ids[i] = seat.ID
	}

	busy, err := r.reservations.FetchBusySlots(ctx, ids, q.Date, q.CallerID)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	report := &Report{
		Query:        q,
		TotalSeats:   len(space.Seats),
		NameFiltered: len(filtered),
	}
	for _, seat := range filtered {
		free := freeHours(busy, seat.ID)
		if len(free) == 0 {
			// A fully booked seat has nothing to offer; it is
			// never listed.
			continue
		}
		sa := SeatAvailability{Seat: seat, FreeHours: free}
		if availPattern.MatchString(sa.Signature()) {
			report.Matches = append(report.Matches, sa)
		}
	}
	return report, nil
}

// validateDate accepts calendar dates from today through today+8.
func (r *Resolver) validateDate(date string) error {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("%w: %q, want YYYY-MM-DD", ErrInvalidDate, date)
	}
	now := r.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	max := today.AddDate(0, 0, maxDaysAhead)
	if d.Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrDateOutOfRange, date)
	}
	if d.After(max) {
		return fmt.Errorf("%w: %s is beyond %s", ErrDateOutOfRange, date, max.Format("2006-01-02"))
	}
	return nil
}

// FindSpace locates a space by building and space name:
// case-insensitive exact match on both, first match wins when the
// directory carries duplicates.
func FindSpace(spaces []kurt.StudySpace, buildingName, spaceName string) (kurt.StudySpace, bool) {
	for _, space := range spaces {
		if strings.EqualFold(space.BuildingName, buildingName) &&
			strings.EqualFold(space.SpaceName, spaceName) {
			return space, true
		}
	}
	return kurt.StudySpace{}, false
}

// FilterByName keeps the seats whose name contains a match for the
// pattern (search semantics). A nil pattern is the identity transform.
func FilterByName(seats []kurt.Seat, pattern *regexp.Regexp) []kurt.Seat {
	if pattern == nil {
		return seats
	}
	var kept []kurt.Seat
	for _, seat := range seats {
		if pattern.MatchString(seat.Name) {
			kept = append(kept, seat)
		}
	}
	return kept
}

// freeHours returns the ascending hours in [FirstHour, LastHour] with
// no busy slot for the resource.
func freeHours(busy kurt.BusySlots, resourceID string) []int {
	var free []int
	for hour := FirstHour; hour <= LastHour; hour++ {
		if !busy.Busy(resourceID, hour) {
			free = append(free, hour)
		}
	}
	return free
}

var digitRun = regexp.MustCompile(`\d+`)

// SeatNamePatterns generalizes seat names by collapsing digit runs to
// "XX", deduplicated and sorted. "Silent-01", "Silent-02" become the
// single pattern "Silent-XX".
func SeatNamePatterns(seats map[string]string) []string {
	seen := make(map[string]struct{})
	var patterns []string
	for _, name := range seats {
		p := digitRun.ReplaceAllString(name, "XX")
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			patterns = append(patterns, p)
		}
	}
	sort.Strings(patterns)
	return patterns
}
