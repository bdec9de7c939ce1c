// Package render prints generated itineraries for people: a console layout and a
// printable PDF.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

const ruleWidth = 80

// WriteText writes the console layout of it to w.
func WriteText(w io.Writer, it *types.Itinerary) error {
	b := bufio.NewWriter(w)
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)
	p := it.Preferences

	fmt.Fprintln(b, heavy)
	fmt.Fprintf(b, "TRAVEL ITINERARY - %d DAYS\n", p.Days)
	fmt.Fprintf(b, "%d travelers | %s budget | %s pace\n",
		p.Pax, strings.ToUpper(p.BudgetCategory), strings.ToUpper(p.Pace))
	if p.PointOfOrigin != "" {
		fmt.Fprintf(b, "From %s (%.1f h travel)\n", p.PointOfOrigin, p.TravelTimeHours)
	}
	fmt.Fprintln(b, heavy)

	for _, day := range it.Days {
		fmt.Fprintf(b, "\nDAY %d - %s\n", day.DayNumber, day.Date)
		fmt.Fprintln(b, light)

		switch {
		case day.IsRestDay:
			fmt.Fprintln(b, "REST DAY - Free time to relax or explore on your own")
		case day.DayType == types.DayTypeTravelTo:
			fmt.Fprintf(b, "TRAVEL DAY - Arrival (%d min on the road)\n", day.TotalTravelTimeMinutes)
		case day.DayType == types.DayTypeTravelFrom:
			fmt.Fprintf(b, "TRAVEL DAY - Departure (%d min on the road)\n", day.TotalTravelTimeMinutes)
		case len(day.Activities) == 0:
			fmt.Fprintln(b, "No activities scheduled for this day")
		}

		for i, a := range day.Activities {
			fmt.Fprintf(b, "\n%d. %s (%s)\n", i+1, a.DestinationName, strings.ToUpper(a.Category))
			fmt.Fprintf(b, "   %s - %s (%d min)\n", a.StartTime, a.EndTime, a.DurationMinutes)
			if a.TravelTimeFromPrevious > 0 {
				fmt.Fprintf(b, "   Travel time: %d min (%.2f km)\n", a.TravelTimeFromPrevious, a.DistanceFromPreviousKm)
			}
			if a.Address != "" {
				fmt.Fprintf(b, "   Address: %s\n", a.Address)
			}
			if a.EntranceFee > 0 {
				fmt.Fprintf(b, "   Entrance fee: %s %.2f\n", types.Currency, a.EntranceFee)
			} else {
				fmt.Fprintln(b, "   Entrance fee: free")
			}
			if a.OpeningTime != nil && a.ClosingTime != nil {
				fmt.Fprintf(b, "   Open: %s - %s\n", *a.OpeningTime, *a.ClosingTime)
			}
		}

		if !day.IsRestDay && !day.IsTravelDay {
			fmt.Fprintln(b, "\nDay summary:")
			fmt.Fprintf(b, "   Total activities: %d\n", day.TotalActivities)
			fmt.Fprintf(b, "   Total travel time: %d minutes\n", day.TotalTravelTimeMinutes)
			fmt.Fprintf(b, "   Total distance: %.2f km\n", day.TotalDistanceKm)
		}

		if acc := day.Accommodation; acc != nil {
			fmt.Fprintf(b, "\nAccommodation: %s\n", acc.Name)
			if acc.Address != "" {
				fmt.Fprintf(b, "   Address: %s\n", acc.Address)
			}
			if acc.ContactNumber != "" {
				fmt.Fprintf(b, "   Contact: %s\n", acc.ContactNumber)
			}
			if amenities := amenityList(acc.Amenities); len(amenities) > 0 {
				fmt.Fprintf(b, "   Amenities: %s\n", strings.Join(amenities, ", "))
			}
		}
	}

	s := it.Summary
	fmt.Fprintf(b, "\n%s\nTRIP SUMMARY\n%s\n", heavy, light)
	fmt.Fprintf(b, "Total unique destinations: %d\n", s.TotalDestinations)
	fmt.Fprintf(b, "Total travel time: %d minutes (%.1f hours)\n", s.TotalTravelTimeMinutes, s.TotalTravelTimeHours)
	fmt.Fprintf(b, "Total distance: %.2f km\n", s.TotalDistanceKm)
	fmt.Fprintf(b, "Total entrance fees: %s %.2f (%d pax)\n", s.Currency, s.TotalEntranceFees, p.Pax)
	fmt.Fprintf(b, "Transport hubs available: %d\n", s.AvailableTransportHubs)

	for _, e := range it.ExcludedMustVisit {
		name := e.DestinationName
		if name == "" {
			name = fmt.Sprintf("#%d", e.DestinationID)
		}
		fmt.Fprintf(b, "Must-visit skipped: %s (%s)\n", name, e.Reason)
	}
	for _, id := range it.UnscheduledMustVisitIDs {
		fmt.Fprintf(b, "Must-visit did not fit the schedule: #%d\n", id)
	}

	return b.Flush()
}

func amenityList(a types.Amenities) []string {
	var out []string
	if a.Wifi {
		out = append(out, "WiFi")
	}
	if a.Parking {
		out = append(out, "Parking")
	}
	if a.Breakfast {
		out = append(out, "Breakfast")
	}
	if a.AirConditioned {
		out = append(out, "AC")
	}
	return out
}
