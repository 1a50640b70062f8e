// Package kurt talks to the KURT reservation system: the study-space
// directory, the reservation API, and the booking/check-in URL formats.
package kurt

import (
	"encoding/json"
	"fmt"
	"sort"
)

// StudySpace is one bookable room/area from the directory. Seats maps
// resource id to human seat name.
type StudySpace struct {
	BuildingName string            `json:"buildingName"`
	SpaceName    string            `json:"spaceName"`
	LocationID   string            `json:"locationId"`
	Seats        map[string]string `json:"seats"`
}

// Seat is a single bookable unit within a space.
type Seat struct {
	ID   string
	Name string
}

// SortedSeats returns the space's seats ordered by seat name, id as
// tie-break. The directory carries seats as a JSON object, so this is
// the only deterministic order the rest of the pipeline can rely on.
func (s StudySpace) SortedSeats() []Seat {
	seats := make([]Seat, 0, len(s.Seats))
	for id, name := range s.Seats {
		seats = append(seats, Seat{ID: id, Name: name})
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Name != seats[j].Name {
			return seats[i].Name < seats[j].Name
		}
		return seats[i].ID < seats[j].ID
	})
	return seats
}

// ReservationRecord is one raw record from GetReservationsJSON. The
// upstream is inconsistent about the ResourceID type (string or
// number), so it decodes through flexibleID.
type ReservationRecord struct {
	ResourceID    flexibleID `json:"ResourceID"`
	StartDateTime string     `json:"Startdatetime"`
	Status        string     `json:"Status"`
}

// flexibleID accepts a JSON string or number and keeps the decimal text.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("ResourceID is neither string nor number: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

// BusySlots records which (resource, hour) pairs are occupied on the
// queried date. Set semantics: overlapping records collapse.
type BusySlots map[slotKey]struct{}

type slotKey struct {
	ResourceID string
	Hour       int
}

// Mark records a busy hour for a resource.
func (b BusySlots) Mark(resourceID string, hour int) {
	b[slotKey{ResourceID: resourceID, Hour: hour}] = struct{}{}
}

// Busy reports whether the resource has a non-available reservation
// starting in the given hour.
func (b BusySlots) Busy(resourceID string, hour int) bool {
	_, ok := b[slotKey{ResourceID: resourceID, Hour: hour}]
	return ok
}
