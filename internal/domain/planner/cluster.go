package planner

import "github.com/FACorreiaa/loci-trip-planner/internal/types"

// ClusterDestinations groups scored destinations into pools around the selected
// accommodations. Without accommodations, or when no accommodation attracts any
// destination, a single pool of the best-scored destinations is returned; in both
// cases must-visit destinations below the cut are moved to the front of that pool.
func ClusterDestinations(scored []ScoredDestination, accs []types.Accommodation, prefs types.TravelPreferences) [][]types.Destination {
	if len(accs) == 0 {
		return [][]types.Destination{topByScore(scored, prefs)}
	}

	claimed := make(map[int64]bool)
	var clusters [][]types.Destination

	for _, acc := range accs {
		base := pointOf(acc.Location)
		var nearby []types.Destination

		for _, sd := range scored {
			d := sd.Destination
			if prefs.IsMustVisit(d.ID) {
				if !claimed[d.ID] {
					claimed[d.ID] = true
					nearby = append(nearby, d)
				}
				continue
			}
			if Distance(base, pointOf(d.Location)) <= clusterRadiusKm {
				nearby = append(nearby, d)
			}
		}

		if len(nearby) > 0 {
			clusters = append(clusters, nearby)
		}
	}

	if len(clusters) == 0 {
		return [][]types.Destination{topByScore(scored, prefs)}
	}
	return clusters
}

// topByScore returns the best days × mid-trip-count destinations, with any must-visit
// destination that missed the cut moved to the front in score order.
func topByScore(scored []ScoredDestination, prefs types.TravelPreferences) []types.Destination {
	rule, _ := ruleFor(prefs.Pace)
	n := min(prefs.Days*rule.MidTripActivities, len(scored))

	top := make([]types.Destination, 0, n)
	inTop := make(map[int64]bool, n)
	for _, sd := range scored[:n] {
		top = append(top, sd.Destination)
		inTop[sd.Destination.ID] = true
	}

	var missing []types.Destination
	for _, sd := range scored[n:] {
		if prefs.IsMustVisit(sd.Destination.ID) && !inTop[sd.Destination.ID] {
			missing = append(missing, sd.Destination)
			inTop[sd.Destination.ID] = true
		}
	}
	if len(missing) == 0 {
		return top
	}
	return append(missing, top...)
}
