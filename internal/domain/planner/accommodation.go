package planner

import (
	"slices"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

const shortTripDays = 3

// SelectAccommodations picks the base(s) of stay. An explicitly requested, available
// accommodation wins outright; a missing or inactive one falls back to automatic
// selection in catalog order.
func SelectAccommodations(accs []types.Accommodation, prefs types.TravelPreferences) []types.Accommodation {
	if !prefs.IncludeAccommodation {
		return nil
	}

	if prefs.AccommodationID != nil {
		if acc, ok := findAvailableAccommodation(accs, *prefs.AccommodationID); ok {
			return []types.Accommodation{acc}
		}
	}

	limit := 2
	if prefs.Days <= shortTripDays {
		limit = 1
	}

	selected := make([]types.Accommodation, 0, limit)
	for _, acc := range accs {
		if len(selected) == limit {
			break
		}
		if accommodationEligible(acc, prefs) {
			selected = append(selected, acc)
		}
	}
	return selected
}

func findAvailableAccommodation(accs []types.Accommodation, id int64) (types.Accommodation, bool) {
	for _, acc := range accs {
		if acc.ID == id && acc.Available() {
			return acc, true
		}
	}
	return types.Accommodation{}, false
}

func accommodationEligible(acc types.Accommodation, prefs types.TravelPreferences) bool {
	switch {
	case !acc.Available():
		return false
	case !acc.Budget.Valid() || acc.Budget > prefs.Budget:
		return false
	case len(prefs.AccommodationTypes) > 0 && !slices.Contains(prefs.AccommodationTypes, acc.Type):
		return false
	case prefs.HasPets && !acc.PetFriendly:
		return false
	case prefs.HasDisabilities && !acc.WheelchairFriendly:
		return false
	}
	return true
}
