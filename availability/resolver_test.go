package availability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breitburg/kurtosis/kurt"
)

type fakeDirectory struct {
	spaces []kurt.StudySpace
	calls  int
}

func (f *fakeDirectory) LoadStudySpaces(ctx context.Context) []kurt.StudySpace {
	f.calls++
	return f.spaces
}

type fakeReservations struct {
	busy      kurt.BusySlots
	err       error
	calls     int
	gotIDs    []string
	gotDate   string
	gotCaller string
}

func (f *fakeReservations) FetchBusySlots(ctx context.Context, resourceIDs []string, date string, callerID string) (kurt.BusySlots, error) {
	f.calls++
	f.gotIDs = resourceIDs
	f.gotDate = date
	f.gotCaller = callerID
	if f.err != nil {
		return nil, f.err
	}
	if f.busy == nil {
		return make(kurt.BusySlots), nil
	}
	return f.busy, nil
}

// testToday anchors the date window for all resolver tests.
var testToday = time.Date(2025, 6, 20, 14, 30, 0, 0, time.UTC)

func newTestResolver(dir *fakeDirectory, res *fakeReservations) *Resolver {
	r := NewResolver(dir, res)
	r.now = func() time.Time { return testToday }
	return r
}

func testSpaces() []kurt.StudySpace {
	return []kurt.StudySpace{
		{
			BuildingName: "Agora Learning Center",
			SpaceName:    "Silent Study",
			LocationID:   "AGORA-1",
			Seats: map[string]string{
				"A1": "Silent-01",
				"A2": "Silent-02",
				"B1": "Group-01",
			},
		},
	}
}

func baseQuery() Query {
	return Query{
		BuildingName:        "Agora Learning Center",
		SpaceName:           "Silent Study",
		Date:                "2025-06-21",
		AvailabilityPattern: ".",
		CallerID:            "r0123456",
	}
}

func TestDateWindow(t *testing.T) {
	tests := []struct {
		date    string
		wantErr error
	}{
		{"2025-06-20", nil},               // today
		{"2025-06-24", nil},               // mid-window
		{"2025-06-28", nil},               // today+8, last allowed
		{"2025-06-19", ErrDateOutOfRange}, // yesterday
		{"2025-06-29", ErrDateOutOfRange}, // today+9
		{"21-06-2025", ErrInvalidDate},
		{"not-a-date", ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			r := newTestResolver(&fakeDirectory{spaces: testSpaces()}, &fakeReservations{})
			q := baseQuery()
			q.Date = tt.date
			_, err := r.Resolve(context.Background(), q)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPatternErrorBeforeAnyNetworkCall(t *testing.T) {
	dir := &fakeDirectory{spaces: testSpaces()}
	res := &fakeReservations{}
	r := newTestResolver(dir, res)

	q := baseQuery()
	q.AvailabilityPattern = "(["
	_, err := r.Resolve(context.Background(), q)
	var patternErr *PatternError
	require.ErrorAs(t, err, &patternErr)
	assert.Equal(t, "availability", patternErr.Field)

	q = baseQuery()
	q.SeatNamePattern = "(unbalanced"
	_, err = r.Resolve(context.Background(), q)
	require.ErrorAs(t, err, &patternErr)
	assert.Equal(t, "seat name", patternErr.Field)

	// Neither bad pattern may cost an upstream round trip.
	assert.Zero(t, dir.calls)
	assert.Zero(t, res.calls)
}

func TestDataUnavailable(t *testing.T) {
	r := newTestResolver(&fakeDirectory{}, &fakeReservations{})
	_, err := r.Resolve(context.Background(), baseQuery())
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestSpaceLookup(t *testing.T) {
	t.Run("case-insensitive exact match", func(t *testing.T) {
		r := newTestResolver(&fakeDirectory{spaces: testSpaces()}, &fakeReservations{})
		q := baseQuery()
		q.BuildingName = "AGORA learning CENTER"
		q.SpaceName = "silent study"
		_, err := r.Resolve(context.Background(), q)
		assert.NoError(t, err)
	})

	t.Run("substring does not match", func(t *testing.T) {
		r := newTestResolver(&fakeDirectory{spaces: testSpaces()}, &fakeReservations{})
		q := baseQuery()
		q.BuildingName = "Agora"
		_, err := r.Resolve(context.Background(), q)
		assert.ErrorIs(t, err, ErrSpaceNotFound)
	})

	t.Run("first match wins on duplicates", func(t *testing.T) {
		spaces := testSpaces()
		dup := spaces[0]
		dup.Seats = map[string]string{"Z9": "Duplicate-01"}
		spaces = append(spaces, dup)

		res := &fakeReservations{}
		r := newTestResolver(&fakeDirectory{spaces: spaces}, res)
		_, err := r.Resolve(context.Background(), baseQuery())
		require.NoError(t, err)
		assert.NotContains(t, res.gotIDs, "Z9")
	})
}

func TestEmptySeatSet(t *testing.T) {
	spaces := testSpaces()
	spaces[0].Seats = nil
	r := newTestResolver(&fakeDirectory{spaces: spaces}, &fakeReservations{})
	_, err := r.Resolve(context.Background(), baseQuery())
	assert.ErrorIs(t, err, ErrEmptySeatSet)
}

func TestSeatNameFiltering(t *testing.T) {
	res := &fakeReservations{}
	r := newTestResolver(&fakeDirectory{spaces: testSpaces()}, res)

	q := baseQuery()
	q.SeatNamePattern = "^Silent"
	report, err := r.Resolve(context.Background(), q)
	require.NoError(t, err)

	// Exactly the Silent seats are fetched, in name order.
	assert.Equal(t, []string{"A1", "A2"}, res.gotIDs)
	assert.Equal(t, "2025-06-21", res.gotDate)
	assert.Equal(t, "r0123456", res.gotCaller)
	assert.Equal(t, 3, report.TotalSeats)
	assert.Equal(t, 2, report.NameFiltered)
}

func TestNoSeatsMatched(t *testing.T) {
	r := newTestResolver(&fakeDirectory{spaces: testSpaces()}, &fakeReservations{})
	q := baseQuery()
	q.SeatNamePattern = "^Podium"
	_, err := r.Resolve(context.Background(), q)
	assert.ErrorIs(t, err, ErrNoSeatsMatched)
}

func TestFreeHourComputation(t *testing.T) {
	busy := make(kurt.BusySlots)
	busy.Mark("A1", 9)
	busy.Mark("A1", 10)
	// Hours outside the window are ignored.
	busy.Mark("A1", 3)

	res := &fakeReservations{busy: busy}
	r := newTestResolver(&fakeDirectory{spaces: testSpaces()}, res)

	q := baseQuery()
	q.SeatNamePattern = "^Silent-01$"
	report, err := r.Resolve(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, report.Matches, 1)

	want := []int{8, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23}
	assert.Equal(t, want, report.Matches[0].FreeHours)
}

func TestAvailabilityPatternFiltering(t *testing.T) {
	// A1 free hours: 8, 11, 12, 13, 23.
	busy := make(kurt.BusySlots)
	for _, h := range []int{9, 10, 14, 15, 16, 17, 18, 19, 20, 21, 22} {
		busy.Mark("A1", h)
	}

	run := func(pattern string) *Report {
		res := &fakeReservations{busy: busy}
		r := newTestResolver(&fakeDirectory{spaces: testSpaces()}, res)
		q := baseQuery()
		q.SeatNamePattern = "^Silent-01$"
		q.AvailabilityPattern = pattern
		report, err := r.Resolve(context.Background(), q)
		require.NoError(t, err)
		return report
	}

	assert.Len(t, run("1[1-3]").Matches, 1, "contains hours 11-13")
	assert.Len(t, run("2[4-9]").Matches, 0, "no hour 24-29 exists")

	sig := run(".").Matches[0].Signature()
	assert.Equal(t, "8,11,12,13,23", sig)
}

func TestFullyBusySeatNeverListed(t *testing.T) {
	busy := make(kurt.BusySlots)
	for h := FirstHour; h <= LastHour; h++ {
		busy.Mark("A1", h)
	}

	res := &fakeReservations{busy: busy}
	r := newTestResolver(&fakeDirectory{spaces: testSpaces()}, res)
	q := baseQuery()
	q.SeatNamePattern = "^Silent-01$"
	q.AvailabilityPattern = ".*" // matches even the empty string
	report, err := r.Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, report.Matches)
}

func TestFetchErrorPropagates(t *testing.T) {
	res := &fakeReservations{err: fmt.Errorf("upstream down")}
	r := newTestResolver(&fakeDirectory{spaces: testSpaces()}, res)
	_, err := r.Resolve(context.Background(), baseQuery())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, err, res.err)
}

func TestResolveIsDeterministic(t *testing.T) {
	busy := make(kurt.BusySlots)
	busy.Mark("A2", 12)

	resolve := func() *Report {
		res := &fakeReservations{busy: busy}
		r := newTestResolver(&fakeDirectory{spaces: testSpaces()}, res)
		report, err := r.Resolve(context.Background(), baseQuery())
		require.NoError(t, err)
		return report
	}

	first := resolve()
	second := resolve()
	assert.Equal(t, first, second)

	// Surviving seats keep name-filter encounter order (name-sorted).
	names := make([]string, len(first.Matches))
	for i, m := range first.Matches {
		names[i] = m.Seat.Name
	}
	assert.Equal(t, []string{"Group-01", "Silent-01", "Silent-02"}, names)
}

func TestSignatureRendering(t *testing.T) {
	sa := SeatAvailability{FreeHours: []int{8, 9, 12, 15}}
	assert.Equal(t, "8,9,12,15", sa.Signature())

	assert.Equal(t, "", SeatAvailability{}.Signature())
}

func TestSeatNamePatterns(t *testing.T) {
	patterns := SeatNamePatterns(map[string]string{
		"1": "Silent-01",
		"2": "Silent-02",
		"3": "Group-12A",
		"4": "Group-07A",
		"5": "Podium",
	})
	assert.Equal(t, []string{"Group-XXA", "Podium", "Silent-XX"}, patterns)
}
