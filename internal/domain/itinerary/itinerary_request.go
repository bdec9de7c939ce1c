package itinerary

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

const (
	MinTripDays = 1
	MaxTripDays = 14

	maxOriginTravelHours = 24

	defaultStartingPoint = "sorsogon_city"
	defaultPointOfOrigin = "Sorsogon City"
	defaultMaxTravelTime = 120
)

// GenerateRequest is the wire form of the travel preferences. Pointer fields tell a
// missing value apart from a zero value.
type GenerateRequest struct {
	Days           *int    `json:"days"`
	Pax            *int    `json:"pax"`
	BudgetCategory *string `json:"budget_category"`
	PacePreference *string `json:"pace_preference"`

	StartingPoint string   `json:"starting_point,omitempty"`
	TransportMode []string `json:"transport_mode,omitempty"`
	Interests     []string `json:"interests,omitempty"`

	HasChildren     bool `json:"has_children,omitempty"`
	HasSeniors      bool `json:"has_seniors,omitempty"`
	HasDisabilities bool `json:"has_disabilities,omitempty"`
	HasPets         bool `json:"has_pets,omitempty"`

	IncludeAccommodation *bool    `json:"include_accommodation,omitempty"`
	AccommodationTypes   []string `json:"accommodation_types,omitempty"`
	AccommodationID      *int64   `json:"accommodation_id,omitempty"`

	MaxTravelTime         *int     `json:"max_travel_time,omitempty"`
	MustVisitIDs          []int64  `json:"must_visit_ids,omitempty"`
	ExcludeDestinationIDs []int64  `json:"exclude_destination_ids,omitempty"`
	ExcludeCategories     []string `json:"exclude_categories,omitempty"`

	PointOfOrigin     string   `json:"point_of_origin,omitempty"`
	TravelTimeHours   *float64 `json:"travel_time_hours,omitempty"`
	ActivityOnSameDay *bool    `json:"activity_on_same_day,omitempty"`
	StartDate         *string  `json:"start_date,omitempty"`
}

// DecodeRequest reads one GenerateRequest from r. Malformed JSON and mistyped fields
// are reported as *types.ValidationError.
func DecodeRequest(r io.Reader) (GenerateRequest, error) {
	var req GenerateRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return GenerateRequest{}, decodeError(err)
	}
	return req, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return types.NewValidationError(typeErr.Field,
			"Invalid data type: %s must be %s", typeErr.Field, typeErr.Type.String())
	}
	return types.NewValidationError("body", "Invalid JSON format")
}

// InterestNormalizer maps free-text interests onto canonical interest tags.
type InterestNormalizer interface {
	Normalize(raw []string) []string
}

// Preferences validates the request and converts it into planner input. Every
// violation is reported as a *types.ValidationError before any planning happens.
func (r GenerateRequest) Preferences(normalizer InterestNormalizer) (types.TravelPreferences, error) {
	var missing []string
	if r.Days == nil {
		missing = append(missing, "days")
	}
	if r.Pax == nil {
		missing = append(missing, "pax")
	}
	if r.BudgetCategory == nil {
		missing = append(missing, "budget_category")
	}
	if r.PacePreference == nil {
		missing = append(missing, "pace_preference")
	}
	if len(missing) > 0 {
		return types.TravelPreferences{}, types.NewValidationError(missing[0],
			"Missing required fields: %s", strings.Join(missing, ", "))
	}

	if *r.Days < MinTripDays || *r.Days > MaxTripDays {
		return types.TravelPreferences{}, types.NewValidationError("days",
			"Days must be between %d and %d", MinTripDays, MaxTripDays)
	}
	if *r.Pax < 1 {
		return types.TravelPreferences{}, types.NewValidationError("pax", "Number of travelers must be at least 1")
	}

	// Request enums are case sensitive, unlike catalog rows.
	budget, err := types.ParseBudgetTier(*r.BudgetCategory)
	if err != nil || budget.String() != *r.BudgetCategory {
		return types.TravelPreferences{}, types.NewValidationError("budget_category",
			"Budget category must be: low, medium, or high")
	}
	pace, err := types.ParsePace(*r.PacePreference)
	if err != nil || string(pace) != *r.PacePreference {
		return types.TravelPreferences{}, types.NewValidationError("pace_preference",
			"Pace preference must be: relaxed, moderate, or packed")
	}

	travelHours := 0.0
	if r.TravelTimeHours != nil {
		travelHours = *r.TravelTimeHours
	}
	if travelHours < 0 || travelHours > maxOriginTravelHours {
		return types.TravelPreferences{}, types.NewValidationError("travel_time_hours",
			"Travel time must be between 0 and %d hours", maxOriginTravelHours)
	}

	maxTravel := defaultMaxTravelTime
	if r.MaxTravelTime != nil {
		maxTravel = *r.MaxTravelTime
	}
	if maxTravel < 0 {
		return types.TravelPreferences{}, types.NewValidationError("max_travel_time",
			"Maximum travel time cannot be negative")
	}

	var startDate *time.Time
	if r.StartDate != nil && *r.StartDate != "" {
		d, err := time.Parse(types.DateLayout, *r.StartDate)
		if err != nil {
			return types.TravelPreferences{}, types.NewValidationError("start_date",
				"Start date must be in YYYY-MM-DD format")
		}
		startDate = &d
	}

	interests := r.Interests
	if normalizer != nil {
		interests = normalizer.Normalize(r.Interests)
	}

	excludeCategories := make([]types.Category, 0, len(r.ExcludeCategories))
	for _, c := range r.ExcludeCategories {
		excludeCategories = append(excludeCategories, types.Category(strings.ToLower(strings.TrimSpace(c))))
	}

	return types.TravelPreferences{
		Days:                  *r.Days,
		Pax:                   *r.Pax,
		Budget:                budget,
		StartingPoint:         orDefault(r.StartingPoint, defaultStartingPoint),
		TransportModes:        r.TransportMode,
		Interests:             interests,
		Pace:                  pace,
		HasChildren:           r.HasChildren,
		HasSeniors:            r.HasSeniors,
		HasDisabilities:       r.HasDisabilities,
		HasPets:               r.HasPets,
		IncludeAccommodation:  boolOrDefault(r.IncludeAccommodation, true),
		AccommodationTypes:    r.AccommodationTypes,
		AccommodationID:       r.AccommodationID,
		MaxTravelTimeMinutes:  maxTravel,
		MustVisitIDs:          r.MustVisitIDs,
		ExcludeDestinationIDs: r.ExcludeDestinationIDs,
		ExcludeCategories:     excludeCategories,
		PointOfOrigin:         orDefault(r.PointOfOrigin, defaultPointOfOrigin),
		TravelTimeHours:       travelHours,
		ActivityOnSameDay:     boolOrDefault(r.ActivityOnSameDay, true),
		StartDate:             startDate,
	}, nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func boolOrDefault(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
