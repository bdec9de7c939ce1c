package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

const directionsBaseURL = "https://www.google.com/maps/dir/"

// DayRouteURL returns a map directions link that starts and ends at the day's
// accommodation and passes every located activity in order. It returns "" when the
// day has no located stops.
func DayRouteURL(day types.ItineraryDay) string {
	var stops []string
	for _, a := range day.Activities {
		if a.Latitude != nil && a.Longitude != nil {
			stops = append(stops, coordinate(*a.Latitude, *a.Longitude))
		}
	}
	if len(stops) == 0 {
		return ""
	}

	origin, destination := stops[0], stops[len(stops)-1]
	waypoints := stops
	if acc := day.Accommodation; acc != nil && acc.Latitude != nil && acc.Longitude != nil {
		origin = coordinate(*acc.Latitude, *acc.Longitude)
		destination = origin
	} else {
		waypoints = stops[1 : len(stops)-1]
		if len(stops) == 1 {
			waypoints = nil
		}
	}

	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", origin)
	q.Set("destination", destination)
	if len(waypoints) > 0 {
		q.Set("waypoints", strings.Join(waypoints, "|"))
	}
	return directionsBaseURL + "?" + q.Encode()
}

func coordinate(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}
