package availability

import (
	"errors"
	"fmt"
)

// Resolution failures, one per pipeline stage. The tool layer maps
// each to a user-facing message with a manual fallback.
var (
	ErrDataUnavailable = errors.New("study spaces data unavailable")
	ErrInvalidDate     = errors.New("invalid date")
	ErrDateOutOfRange  = errors.New("date out of range")
	ErrSpaceNotFound   = errors.New("study space not found")
	ErrEmptySeatSet    = errors.New("space has no seats")
	ErrNoSeatsMatched  = errors.New("no seats matched the name pattern")
)

// PatternError reports a user-supplied regular expression that failed
// to compile. Field names the offending input ("availability" or
// "seat name").
type PatternError struct {
	Field   string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Field, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// FetchError wraps an upstream reservation-API failure. The whole
// batch fails; there is never a partial busy set.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("availability fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
