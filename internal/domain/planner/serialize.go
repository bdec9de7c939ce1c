package planner

import (
	"math"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

// Serialize converts the internal schedule into the consumer-facing itinerary and
// computes the trip summary.
func Serialize(schedule Schedule, prefs types.TravelPreferences, hubs []types.TransportHub) types.Itinerary {
	days := make([]types.ItineraryDay, 0, len(schedule.Days))
	summary := types.TripSummary{Currency: types.Currency}

	var fees float64
	for _, plan := range schedule.Days {
		day := serializeDay(plan)
		days = append(days, day)

		summary.TotalTravelTimeMinutes += plan.TotalTravelMinutes
		if plan.IsTravelDay {
			continue
		}
		summary.TotalDistanceKm += plan.TotalDistanceKm
		if plan.IsRestDay {
			continue
		}
		summary.TotalDestinations += len(plan.Activities)
		for _, a := range plan.Activities {
			fees += a.Destination.EntranceFee * float64(prefs.Pax)
		}
	}

	summary.TotalTravelTimeHours = round(float64(summary.TotalTravelTimeMinutes)/60, 1)
	summary.TotalDistanceKm = round(summary.TotalDistanceKm, 2)
	summary.TotalEntranceFees = round(fees, 2)
	for _, h := range hubs {
		if h.IsActive && h.Status == types.StatusActive {
			summary.AvailableTransportHubs++
		}
	}

	return types.Itinerary{
		Preferences:             echoPreferences(prefs),
		Days:                    days,
		Summary:                 summary,
		UnscheduledMustVisitIDs: schedule.UnscheduledMustVisit,
	}
}

func serializeDay(plan DayPlan) types.ItineraryDay {
	activities := make([]types.ItineraryActivity, 0, len(plan.Activities))
	for _, a := range plan.Activities {
		activities = append(activities, serializeActivity(a))
	}

	return types.ItineraryDay{
		DayNumber:              plan.DayNumber,
		Date:                   plan.Date.Format(types.DateLayout),
		IsRestDay:              plan.IsRestDay,
		IsTravelDay:            plan.IsTravelDay,
		DayType:                plan.DayType,
		Activities:             activities,
		Accommodation:          summarizeAccommodation(plan.Accommodation),
		TotalActivities:        plan.TotalActivities(),
		TotalTravelTimeMinutes: plan.TotalTravelMinutes,
		TotalDistanceKm:        round(plan.TotalDistanceKm, 2),
	}
}

func serializeActivity(a Activity) types.ItineraryActivity {
	d := a.Destination
	lat, lon := coordinates(d.Location)
	return types.ItineraryActivity{
		DestinationID:          d.ID,
		DestinationName:        d.Name,
		Category:               string(d.Category),
		Description:            d.Description,
		Address:                d.Address,
		Latitude:               lat,
		Longitude:              lon,
		StartTime:              a.StartTime(),
		EndTime:                a.EndTime(),
		DurationMinutes:        a.DurationMinutes,
		TravelTimeFromPrevious: a.TravelMinutes,
		DistanceFromPreviousKm: round(a.DistanceKm, 2),
		EntranceFee:            d.EntranceFee,
		OpeningTime:            optional(d.OpeningTime),
		ClosingTime:            optional(d.ClosingTime),
		Image:                  optional(d.Image),
		ActivityType:           a.Type,
	}
}

func summarizeAccommodation(acc *types.Accommodation) *types.AccommodationSummary {
	if acc == nil {
		return nil
	}
	lat, lon := coordinates(acc.Location)
	return &types.AccommodationSummary{
		ID:            acc.ID,
		Name:          acc.Name,
		Type:          acc.Type,
		Address:       acc.Address,
		ContactNumber: acc.ContactNumber,
		Email:         acc.Email,
		Website:       acc.Website,
		Latitude:      lat,
		Longitude:     lon,
		Amenities:     acc.Amenities,
		Image:         optional(acc.Image),
	}
}

func echoPreferences(prefs types.TravelPreferences) types.PreferencesEcho {
	echo := types.PreferencesEcho{
		Days:              prefs.Days,
		Pax:               prefs.Pax,
		BudgetCategory:    prefs.Budget.String(),
		Pace:              string(prefs.Pace),
		PointOfOrigin:     prefs.PointOfOrigin,
		TravelTimeHours:   prefs.TravelTimeHours,
		ActivityOnSameDay: prefs.ActivityOnSameDay,
	}
	if prefs.StartDate != nil {
		s := prefs.StartDate.Format(types.DateLayout)
		echo.StartDate = &s
	}
	return echo
}

func coordinates(p *types.GeoPoint) (*float64, *float64) {
	if p == nil || math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return nil, nil
	}
	lat, lon := p.Latitude, p.Longitude
	return &lat, &lon
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
