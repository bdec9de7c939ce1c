package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BudgetTier is an ordered affordability class: BudgetLow < BudgetMedium < BudgetHigh.
type BudgetTier int

const (
	BudgetLow BudgetTier = iota + 1
	BudgetMedium
	BudgetHigh
)

var budgetNames = map[BudgetTier]string{
	BudgetLow:    "low",
	BudgetMedium: "medium",
	BudgetHigh:   "high",
}

func (b BudgetTier) String() string {
	if name, ok := budgetNames[b]; ok {
		return name
	}
	return fmt.Sprintf("budget(%d)", int(b))
}

// Valid reports whether b is one of the three known tiers.
func (b BudgetTier) Valid() bool {
	_, ok := budgetNames[b]
	return ok
}

// ParseBudgetTier converts "low", "medium" or "high" into a BudgetTier.
func ParseBudgetTier(s string) (BudgetTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return BudgetLow, nil
	case "medium":
		return BudgetMedium, nil
	case "high":
		return BudgetHigh, nil
	}
	return 0, fmt.Errorf("unknown budget category %q: %w", s, ErrBadRequest)
}

func (b BudgetTier) MarshalJSON() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", b)
	}
	return json.Marshal(b.String())
}

func (b *BudgetTier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tier, err := ParseBudgetTier(s)
	if err != nil {
		return err
	}
	*b = tier
	return nil
}

// Category is a destination category tag.
type Category string

const (
	CategoryNature     Category = "nature"
	CategoryCultural   Category = "cultural"
	CategoryHistorical Category = "historical"
	CategoryFood       Category = "food"
	CategoryAdventure  Category = "adventure"
	CategoryShopping   Category = "shopping"
	CategoryOther      Category = "other"
)

// StatusActive is the only catalog status the planner will schedule.
const StatusActive = "active"

// DefaultVisitMinutes is used when a destination carries no average duration.
const DefaultVisitMinutes = 90

// GeoPoint is a coordinate pair in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Destination is a visitable place from the catalog. The planner never mutates it.
type Destination struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Category           Category   `json:"category"`
	Description        string     `json:"description,omitempty"`
	Address            string     `json:"address,omitempty"`
	Location           *GeoPoint  `json:"location,omitempty"`
	AvgDurationMinutes int        `json:"avg_duration_minutes,omitempty"`
	EntranceFee        float64    `json:"entrance_fee,omitempty"`
	OpeningTime        string     `json:"opening_time,omitempty"` // HH:MM, empty when unknown
	ClosingTime        string     `json:"closing_time,omitempty"`
	Budget             BudgetTier `json:"budget_category"`
	WheelchairFriendly bool       `json:"wheelchair_friendly"`
	KidFriendly        bool       `json:"kid_friendly"`
	SeniorFriendly     bool       `json:"senior_friendly"`
	Status             string     `json:"status"`
	IsActive           bool       `json:"is_active"`
	Image              string     `json:"image,omitempty"`
}

// VisitMinutes returns the average visit duration, defaulting to DefaultVisitMinutes.
func (d Destination) VisitMinutes() int {
	if d.AvgDurationMinutes <= 0 {
		return DefaultVisitMinutes
	}
	return d.AvgDurationMinutes
}

// Available reports whether the record is both flagged active and in active status.
func (d Destination) Available() bool {
	return d.IsActive && d.Status == StatusActive
}

// Amenities groups the boolean facility flags of an accommodation.
type Amenities struct {
	Wifi           bool `json:"wifi"`
	Parking        bool `json:"parking"`
	Breakfast      bool `json:"breakfast"`
	AirConditioned bool `json:"ac"`
}

// Accommodation is a base-of-stay candidate from the catalog.
type Accommodation struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Type               string     `json:"type"`
	Description        string     `json:"description,omitempty"`
	Address            string     `json:"address,omitempty"`
	Location           *GeoPoint  `json:"location,omitempty"`
	Budget             BudgetTier `json:"budget_category"`
	PetFriendly        bool       `json:"pet_friendly"`
	WheelchairFriendly bool       `json:"wheelchair_friendly"`
	Amenities          Amenities  `json:"amenities"`
	ContactNumber      string     `json:"contact_number,omitempty"`
	Email              string     `json:"email,omitempty"`
	Website            string     `json:"website,omitempty"`
	Status             string     `json:"status"`
	IsActive           bool       `json:"is_active"`
	Image              string     `json:"image,omitempty"`
}

// Available reports whether the record is both flagged active and in active status.
func (a Accommodation) Available() bool {
	return a.IsActive && a.Status == StatusActive
}

// TransportHub is a terminal, port or airport. Hubs are only counted, never scheduled.
type TransportHub struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	HubType  string    `json:"hub_type"`
	Address  string    `json:"address,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
	Status   string    `json:"status"`
	IsActive bool      `json:"is_active"`
}

// CatalogSnapshot is the consistent, already fetched input of one planning run.
type CatalogSnapshot struct {
	Destinations   []Destination   `json:"destinations"`
	Accommodations []Accommodation `json:"accommodations"`
	TransportHubs  []TransportHub  `json:"transport_hubs"`
	FetchedAt      time.Time       `json:"fetched_at"`
	// Version changes whenever the catalog content changes.
	Version string `json:"version,omitempty"`
}
