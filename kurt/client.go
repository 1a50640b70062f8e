package kurt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// statusAvailable is the one reservation status that does not occupy a slot.
const statusAvailable = "Available"

// Client fetches the study-space directory and reservation data.
type Client struct {
	directoryURL string
	apiBaseURL   string
	http         *http.Client
}

// NewClient creates a client for the given endpoints. Both network
// calls share a single bounded-timeout HTTP client.
func NewClient(directoryURL, apiBaseURL string, timeout time.Duration) *Client {
	return &Client{
		directoryURL: directoryURL,
		apiBaseURL:   apiBaseURL,
		http:         &http.Client{Timeout: timeout},
	}
}

// LoadStudySpaces fetches the directory. Any retrieval or parse
// failure yields an empty slice: callers report degraded service
// instead of crashing.
func (c *Client) LoadStudySpaces(ctx context.Context) []StudySpace {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.directoryURL, nil)
	if err != nil {
		log.Printf("directory request: %v", err)
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("directory fetch: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("directory fetch: status %d", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("directory read: %v", err)
		return nil
	}

	var spaces []StudySpace
	if err := json.Unmarshal(body, &spaces); err != nil {
		log.Printf("directory parse: %v", err)
		return nil
	}
	return spaces
}

// FetchBusySlots queries GetReservationsJSON for the given resources
// over the half-open window [date 00:00, date+1 00:00) and reduces the
// records to a (resource, hour) busy set.
//
// Individual records with missing fields, unparseable timestamps, or
// status "Available" are skipped; one bad record never invalidates the
// batch. Transport or upstream-status failures abort with no partial
// result.
func (c *Client) FetchBusySlots(ctx context.Context, resourceIDs []string, date string, callerID string) (BusySlots, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}

	params := url.Values{}
	params.Set("uid", callerID)
	params.Set("ResourceIDList", strings.Join(resourceIDs, ","))
	params.Set("startdtstring", day.Format("2006-01-02T15:04:05"))
	params.Set("enddtstring", day.AddDate(0, 0, 1).Format("2006-01-02T15:04:05"))

	reqURL := c.apiBaseURL + "/GetReservationsJSON?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build reservation request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reservation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reservation API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read reservation response: %w", err)
	}

	// Decode the array element by element so a single malformed record
	// is skipped rather than failing the whole response.
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse reservation response: %w", err)
	}

	busy := make(BusySlots)
	for _, item := range raw {
		var rec ReservationRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			continue
		}
		if rec.ResourceID == "" || rec.StartDateTime == "" || rec.Status == "" {
			continue
		}
		if rec.Status == statusAvailable {
			continue
		}
		hour, ok := startHour(rec.StartDateTime)
		if !ok {
			continue
		}
		busy.Mark(string(rec.ResourceID), hour)
	}
	return busy, nil
}

// startHour extracts the calendar hour from an ISO8601-ish timestamp,
// tolerating a trailing UTC marker.
func startHour(ts string) (int, bool) {
	ts = strings.TrimSuffix(ts, "Z")
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Hour(), true
		}
	}
	return 0, false
}
