package planner

import (
	"slices"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

// Exclusion reasons reported for destinations rejected by the hard filters.
const (
	ReasonInactive           = "inactive"
	ReasonExcludedID         = "excluded_destination"
	ReasonExcludedCategory   = "excluded_category"
	ReasonOverBudget         = "over_budget"
	ReasonNotKidFriendly     = "not_kid_friendly"
	ReasonNotSeniorFriendly  = "not_senior_friendly"
	ReasonNotWheelchairReady = "not_wheelchair_friendly"
	ReasonNotInCatalog       = "not_in_catalog"
)

// Rejection pairs a filtered-out destination with the first rule it failed.
type Rejection struct {
	Destination types.Destination
	Reason      string
}

// FilterDestinations returns the hard-eligible subset of dests in their original order,
// plus the rejected destinations with their reasons. An empty result is not an error.
func FilterDestinations(dests []types.Destination, prefs types.TravelPreferences) ([]types.Destination, []Rejection) {
	eligible := make([]types.Destination, 0, len(dests))
	var rejected []Rejection

	for _, d := range dests {
		if reason := rejectionReason(d, prefs); reason != "" {
			rejected = append(rejected, Rejection{Destination: d, Reason: reason})
			continue
		}
		eligible = append(eligible, d)
	}
	return eligible, rejected
}

func rejectionReason(d types.Destination, prefs types.TravelPreferences) string {
	switch {
	case !d.Available():
		return ReasonInactive
	case slices.Contains(prefs.ExcludeDestinationIDs, d.ID):
		return ReasonExcludedID
	case slices.Contains(prefs.ExcludeCategories, d.Category):
		return ReasonExcludedCategory
	case !d.Budget.Valid() || d.Budget > prefs.Budget:
		return ReasonOverBudget
	case prefs.HasChildren && !d.KidFriendly:
		return ReasonNotKidFriendly
	case prefs.HasSeniors && !d.SeniorFriendly:
		return ReasonNotSeniorFriendly
	case prefs.HasDisabilities && !d.WheelchairFriendly:
		return ReasonNotWheelchairReady
	}
	return ""
}

// mustVisitExclusions explains every requested must-visit id that did not survive
// filtering, including ids absent from the catalog.
func mustVisitExclusions(prefs types.TravelPreferences, all []types.Destination, rejected []Rejection) []types.MustVisitExclusion {
	if len(prefs.MustVisitIDs) == 0 {
		return nil
	}

	reasons := make(map[int64]Rejection, len(rejected))
	for _, r := range rejected {
		if _, seen := reasons[r.Destination.ID]; !seen {
			reasons[r.Destination.ID] = r
		}
	}
	known := make(map[int64]bool, len(all))
	for _, d := range all {
		known[d.ID] = true
	}

	var out []types.MustVisitExclusion
	seen := make(map[int64]bool, len(prefs.MustVisitIDs))
	for _, id := range prefs.MustVisitIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if r, ok := reasons[id]; ok {
			out = append(out, types.MustVisitExclusion{
				DestinationID:   id,
				DestinationName: r.Destination.Name,
				Reason:          r.Reason,
			})
			continue
		}
		if !known[id] {
			out = append(out, types.MustVisitExclusion{DestinationID: id, Reason: ReasonNotInCatalog})
		}
	}
	return out
}
