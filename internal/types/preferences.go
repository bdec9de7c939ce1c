package types

import (
	"fmt"
	"strings"
	"time"
)

// Pace is the traveler's desired activity density.
type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceModerate Pace = "moderate"
	PacePacked   Pace = "packed"
)

// ParsePace validates a pace tier name.
func ParsePace(s string) (Pace, error) {
	switch p := Pace(strings.ToLower(strings.TrimSpace(s))); p {
	case PaceRelaxed, PaceModerate, PacePacked:
		return p, nil
	}
	return "", fmt.Errorf("unknown pace %q: %w", s, ErrBadRequest)
}

// DateLayout is the ISO calendar date format accepted for start dates.
const DateLayout = "2006-01-02"

// TravelPreferences is the immutable input of one planning run.
type TravelPreferences struct {
	Days           int
	Pax            int
	Budget         BudgetTier
	StartingPoint  string
	TransportModes []string
	Interests      []string
	Pace           Pace

	HasChildren     bool
	HasSeniors      bool
	HasDisabilities bool
	HasPets         bool

	IncludeAccommodation bool
	AccommodationTypes   []string
	AccommodationID      *int64

	// MaxTravelTimeMinutes caps a single leg between two stops.
	MaxTravelTimeMinutes int

	MustVisitIDs          []int64
	ExcludeDestinationIDs []int64
	ExcludeCategories     []Category

	PointOfOrigin     string
	TravelTimeHours   float64
	ActivityOnSameDay bool
	StartDate         *time.Time
}

// OriginTravelMinutes converts the origin travel time into whole minutes.
func (p TravelPreferences) OriginTravelMinutes() int {
	return int(p.TravelTimeHours * 60)
}

// IsMustVisit reports whether id was requested as a must-visit destination.
func (p TravelPreferences) IsMustVisit(id int64) bool {
	for _, mv := range p.MustVisitIDs {
		if mv == id {
			return true
		}
	}
	return false
}
