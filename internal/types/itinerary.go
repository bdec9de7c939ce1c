package types

// Day type tags.
const (
	DayTypeRegular    = "regular"
	DayTypeRest       = "rest"
	DayTypeTravelTo   = "travel_to"
	DayTypeTravelFrom = "travel_from"
)

// ActivityDestination tags a scheduled destination visit. Travel days carry no
// activities.
const ActivityDestination = "destination"

// Currency used for every fee in a generated itinerary.
const Currency = "PHP"

// Itinerary is the consumer-facing result of one planning run.
type Itinerary struct {
	Preferences             PreferencesEcho      `json:"preferences"`
	Days                    []ItineraryDay       `json:"itinerary"`
	Summary                 TripSummary          `json:"summary"`
	ExcludedMustVisit       []MustVisitExclusion `json:"excluded_must_visit,omitempty"`
	UnscheduledMustVisitIDs []int64              `json:"unscheduled_must_visit_ids,omitempty"`
}

// PreferencesEcho repeats the preferences that shaped the itinerary.
type PreferencesEcho struct {
	Days              int     `json:"days"`
	Pax               int     `json:"pax"`
	BudgetCategory    string  `json:"budget_category"`
	Pace              string  `json:"pace"`
	PointOfOrigin     string  `json:"point_of_origin"`
	TravelTimeHours   float64 `json:"travel_time_hours"`
	ActivityOnSameDay bool    `json:"activity_on_same_day"`
	StartDate         *string `json:"start_date"`
}

// ItineraryDay is one calendar day of the trip.
type ItineraryDay struct {
	DayNumber              int                   `json:"day_number"`
	Date                   string                `json:"date"`
	IsRestDay              bool                  `json:"is_rest_day"`
	IsTravelDay            bool                  `json:"is_travel_day"`
	DayType                string                `json:"day_type"`
	Activities             []ItineraryActivity   `json:"activities"`
	Accommodation          *AccommodationSummary `json:"accommodation"`
	TotalActivities        int                   `json:"total_activities"`
	TotalTravelTimeMinutes int                   `json:"total_travel_time_minutes"`
	TotalDistanceKm        float64               `json:"total_distance_km"`
}

// ItineraryActivity is a scheduled visit with a snapshot of its destination.
type ItineraryActivity struct {
	DestinationID          int64    `json:"destination_id"`
	DestinationName        string   `json:"destination_name"`
	Category               string   `json:"category"`
	Description            string   `json:"description"`
	Address                string   `json:"address"`
	Latitude               *float64 `json:"latitude"`
	Longitude              *float64 `json:"longitude"`
	StartTime              string   `json:"start_time"`
	EndTime                string   `json:"end_time"`
	DurationMinutes        int      `json:"duration_minutes"`
	TravelTimeFromPrevious int      `json:"travel_time_from_previous"`
	DistanceFromPreviousKm float64  `json:"distance_from_previous_km"`
	EntranceFee            float64  `json:"entrance_fee"`
	OpeningTime            *string  `json:"opening_time"`
	ClosingTime            *string  `json:"closing_time"`
	Image                  *string  `json:"image"`
	ActivityType           string   `json:"activity_type"`
}

// AccommodationSummary is the accommodation snapshot attached to a day.
type AccommodationSummary struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Address       string    `json:"address"`
	ContactNumber string    `json:"contact_number"`
	Email         string    `json:"email"`
	Website       string    `json:"website"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	Amenities     Amenities `json:"amenities"`
	Image         *string   `json:"image"`
}

// TripSummary aggregates the whole itinerary.
type TripSummary struct {
	TotalDestinations      int     `json:"total_destinations"`
	TotalTravelTimeMinutes int     `json:"total_travel_time_minutes"`
	TotalTravelTimeHours   float64 `json:"total_travel_time_hours"`
	TotalDistanceKm        float64 `json:"total_distance_km"`
	TotalEntranceFees      float64 `json:"total_entrance_fees"`
	Currency               string  `json:"currency"`
	AvailableTransportHubs int     `json:"available_transport_hubs"`
}

// MustVisitExclusion explains why a requested must-visit destination is absent.
type MustVisitExclusion struct {
	DestinationID   int64  `json:"destination_id"`
	DestinationName string `json:"destination_name,omitempty"`
	Reason          string `json:"reason"`
}
