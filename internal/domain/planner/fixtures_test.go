package planner

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestPlanner() *Planner {
	fixed := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	return NewPlanner(newTestLogger(), WithClock(func() time.Time { return fixed }))
}

func testPrefs() types.TravelPreferences {
	return types.TravelPreferences{
		Days:                 3,
		Pax:                  2,
		Budget:               types.BudgetMedium,
		Pace:                 types.PaceModerate,
		Interests:            []string{"nature"},
		IncludeAccommodation: true,
		MaxTravelTimeMinutes: 60,
	}
}

func testDestination(id int64, lat, lon float64) types.Destination {
	return types.Destination{
		ID:                 id,
		Name:               fmt.Sprintf("Destination %d", id),
		Category:           types.CategoryNature,
		Description:        "A place worth seeing",
		Address:            "Somewhere in the region",
		Location:           &types.GeoPoint{Latitude: lat, Longitude: lon},
		AvgDurationMinutes: 60,
		EntranceFee:        100,
		OpeningTime:        "08:00",
		ClosingTime:        "17:00",
		Budget:             types.BudgetLow,
		WheelchairFriendly: true,
		KidFriendly:        true,
		SeniorFriendly:     true,
		Status:             types.StatusActive,
		IsActive:           true,
	}
}

func testAccommodation(id int64, lat, lon float64) types.Accommodation {
	return types.Accommodation{
		ID:                 id,
		Name:               fmt.Sprintf("Hotel %d", id),
		Type:               "hotel",
		Address:            "Main road",
		Location:           &types.GeoPoint{Latitude: lat, Longitude: lon},
		Budget:             types.BudgetLow,
		PetFriendly:        true,
		WheelchairFriendly: true,
		Amenities:          types.Amenities{Wifi: true, Parking: true},
		ContactNumber:      "+63 900 000 0000",
		Status:             types.StatusActive,
		IsActive:           true,
	}
}

// nearbyDestinations returns n destinations strung north of the default origin,
// 0.001 degrees apart, with ids 1..n.
func nearbyDestinations(n int) []types.Destination {
	dests := make([]types.Destination, 0, n)
	for i := 1; i <= n; i++ {
		dests = append(dests, testDestination(int64(i), DefaultOrigin.Latitude+0.001*float64(i), DefaultOrigin.Longitude))
	}
	return dests
}

func nearbySnapshot(n int) types.CatalogSnapshot {
	return types.CatalogSnapshot{
		Destinations:   nearbyDestinations(n),
		Accommodations: []types.Accommodation{testAccommodation(100, DefaultOrigin.Latitude, DefaultOrigin.Longitude)},
		TransportHubs: []types.TransportHub{
			{ID: 1, Name: "Port", HubType: "seaport", Status: types.StatusActive, IsActive: true},
			{ID: 2, Name: "Old terminal", HubType: "bus", Status: "closed", IsActive: false},
		},
	}
}

func scheduledIDs(it *types.Itinerary) []int64 {
	var ids []int64
	for _, day := range it.Days {
		for _, a := range day.Activities {
			ids = append(ids, a.DestinationID)
		}
	}
	return ids
}

func countID(ids []int64, id int64) int {
	n := 0
	for _, v := range ids {
		if v == id {
			n++
		}
	}
	return n
}
