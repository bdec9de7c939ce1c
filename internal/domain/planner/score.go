package planner

import (
	"slices"
	"sort"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

const (
	interestMatchScore = 10.0
	mustVisitScore     = 50.0
	paceFitScore       = 5.0
	moderatePaceScore  = 3.0
	freeEntryScore     = 2.0

	relaxedMinMinutes = 90
	packedMaxMinutes  = 60
)

// ScoredDestination pairs an eligible destination with its relevance score.
type ScoredDestination struct {
	Destination types.Destination
	Score       float64
}

// ScoreDestinations scores every destination and sorts by score descending. Equal
// scores keep their input order.
func ScoreDestinations(dests []types.Destination, prefs types.TravelPreferences) []ScoredDestination {
	scored := make([]ScoredDestination, 0, len(dests))
	for _, d := range dests {
		scored = append(scored, ScoredDestination{Destination: d, Score: scoreDestination(d, prefs)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func scoreDestination(d types.Destination, prefs types.TravelPreferences) float64 {
	var score float64

	for _, interest := range prefs.Interests {
		if slices.Contains(InterestCategories[interest], d.Category) {
			score += interestMatchScore
		}
	}

	if prefs.IsMustVisit(d.ID) {
		score += mustVisitScore
	}

	duration := d.VisitMinutes()
	switch {
	case prefs.Pace == types.PaceRelaxed && duration >= relaxedMinMinutes:
		score += paceFitScore
	case prefs.Pace == types.PacePacked && duration <= packedMaxMinutes:
		score += paceFitScore
	case prefs.Pace == types.PaceModerate:
		score += moderatePaceScore
	}

	if d.EntranceFee == 0 {
		score += freeEntryScore
	}

	return score
}
