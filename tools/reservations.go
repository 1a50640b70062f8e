package tools

import (
	"context"
	"fmt"

	"github.com/breitburg/kurtosis/availability"
	"github.com/breitburg/kurtosis/kurt"
)

// FallbackURL is handed to the caller on every failure path so there
// is always a manual way forward.
const FallbackURL = "https://kuleuven.be/kurt"

// Reservations is the KURT toolset: list spaces, query availability,
// and generate booking/check-in links.
type Reservations struct {
	directory      availability.DirectorySource
	resolver       *availability.Resolver
	bookingBaseURL string
	checkinBaseURL string
}

// NewReservations wires the toolset to its data sources and link bases.
func NewReservations(directory availability.DirectorySource, reservations availability.ReservationSource, bookingBaseURL, checkinBaseURL string) *Reservations {
	return &Reservations{
		directory:      directory,
		resolver:       availability.NewResolver(directory, reservations),
		bookingBaseURL: bookingBaseURL,
		checkinBaseURL: checkinBaseURL,
	}
}

func (r *Reservations) Name() string { return "kurt" }

func (r *Reservations) Tools() []Tool {
	return []Tool{
		{
			Name:        "list_study_spaces",
			Description: "List all available KU Leuven study spaces with their details.",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "query_availability",
			Description: "Query seat availability for a specific study space on a given date. Availability is matched per seat against the comma-joined list of its free hours (8-23), e.g. \"8,9,12,15\".",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"building_name": map[string]interface{}{
						"type":        "string",
						"description": "Name of the building (e.g. 'Agora Learning Center')",
					},
					"space_name": map[string]interface{}{
						"type":        "string",
						"description": "Name of the study space (e.g. 'Silent Study')",
					},
					"date": map[string]interface{}{
						"type":        "string",
						"description": "Date in YYYY-MM-DD format (e.g. '2025-06-21')",
					},
					"availability_regex": map[string]interface{}{
						"type":        "string",
						"description": "Regex pattern to filter by availability slots. Examples: '1[2-4]' (lunch hours 12-14), '2[0-3]' (evening 20-23), '1[5-9]' (afternoon 15-19), '([0-9]+,){3,}' (4+ available hours)",
					},
					"userId": map[string]interface{}{
						"type":        "string",
						"description": "KU Leuven user ID (R-number, U-number, or B-number)",
					},
					"seat_name_regex": map[string]interface{}{
						"type":        "string",
						"description": "Optional regex pattern to filter seats by name. Examples: '^Silent.*' (starts with Silent), '.*WNDW.*' (contains WNDW)",
					},
				},
				"required": []string{"building_name", "space_name", "date", "availability_regex", "userId"},
			},
		},
		{
			Name:        "get_booking_link",
			Description: "Generate a booking link for a specific seat/resource.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"resource_id": map[string]interface{}{
						"type":        "string",
						"description": "The resource/seat ID (e.g. '300855')",
					},
					"date": map[string]interface{}{
						"type":        "string",
						"description": "Date in YYYY-MM-DD format",
					},
					"start_hour": map[string]interface{}{
						"type":        "integer",
						"description": "Start hour (24-hour format)",
					},
					"end_hour": map[string]interface{}{
						"type":        "integer",
						"description": "End hour (24-hour format). At or before start_hour means the booking runs into the next day.",
					},
				},
				"required": []string{"resource_id", "date", "start_hour", "end_hour"},
			},
		},
		{
			Name:        "get_checkin_link",
			Description: "Generate a check-in link for a specific seat/resource.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"resource_id": map[string]interface{}{
						"type":        "string",
						"description": "The resource/seat ID (e.g. '300855')",
					},
				},
				"required": []string{"resource_id"},
			},
		},
	}
}

func (r *Reservations) Call(ctx context.Context, toolName string, args map[string]interface{}) (string, error) {
	switch toolName {
	case "list_study_spaces":
		return r.listStudySpaces(ctx)
	case "query_availability":
		return r.queryAvailability(ctx, args)
	case "get_booking_link":
		return r.bookingLink(args)
	case "get_checkin_link":
		return r.checkinLink(args)
	default:
		return "", &ErrUnknownTool{Toolset: r.Name(), Tool: toolName}
	}
}

func (r *Reservations) listStudySpaces(ctx context.Context) (string, error) {
	spaces := r.directory.LoadStudySpaces(ctx)
	if len(spaces) == 0 {
		return fmt.Sprintf("Error: Could not load study spaces data. Please try again or visit %s to browse study spaces manually.", FallbackURL), nil
	}
	return FormatSpaces(spaces), nil
}

func (r *Reservations) queryAvailability(ctx context.Context, args map[string]interface{}) (string, error) {
	building, err := stringArg(args, "building_name")
	if err != nil {
		return "", err
	}
	spaceName, err := stringArg(args, "space_name")
	if err != nil {
		return "", err
	}
	date, err := stringArg(args, "date")
	if err != nil {
		return "", err
	}
	availRegex, err := stringArg(args, "availability_regex")
	if err != nil {
		return "", err
	}
	userID, err := stringArg(args, "userId")
	if err != nil {
		return "", err
	}
	seatNameRegex, _ := args["seat_name_regex"].(string)

	q := availability.Query{
		BuildingName:        building,
		SpaceName:           spaceName,
		Date:                date,
		AvailabilityPattern: availRegex,
		CallerID:            userID,
		SeatNamePattern:     seatNameRegex,
	}
	report, err := r.resolver.Resolve(ctx, q)
	if err != nil {
		return resolveErrorText(q, err), nil
	}
	return FormatReport(report), nil
}

func (r *Reservations) bookingLink(args map[string]interface{}) (string, error) {
	resourceID, err := stringArg(args, "resource_id")
	if err != nil {
		return "", err
	}
	date, err := stringArg(args, "date")
	if err != nil {
		return "", err
	}
	startHour, err := intArg(args, "start_hour")
	if err != nil {
		return "", err
	}
	endHour, err := intArg(args, "end_hour")
	if err != nil {
		return "", err
	}

	link, err := kurt.BuildBookingLink(r.bookingBaseURL, resourceID, date, startHour, endHour)
	if err != nil {
		return fmt.Sprintf("Error generating booking link: %v. Please try again or visit %s to book manually.", err, FallbackURL), nil
	}
	return fmt.Sprintf("Booking link for resource %s:\n%s\n\nTime: %s - %s",
		resourceID, link.URL,
		link.Start.Format("2006-01-02 15:04"), link.End.Format("15:04")), nil
}

func (r *Reservations) checkinLink(args map[string]interface{}) (string, error) {
	resourceID, err := stringArg(args, "resource_id")
	if err != nil {
		return "", err
	}
	url := kurt.BuildCheckinLink(r.checkinBaseURL, resourceID)
	return fmt.Sprintf("Check-in link for resource %s:\n%s", resourceID, url), nil
}

// stringArg extracts a required non-empty string argument.
func stringArg(args map[string]interface{}, key string) (string, error) {
	s, _ := args[key].(string)
	if s == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return s, nil
}

// intArg extracts an integer argument, handling JSON number types.
func intArg(args map[string]interface{}, key string) (int, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", key, v)
	}
}
