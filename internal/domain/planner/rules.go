package planner

import "github.com/FACorreiaa/loci-trip-planner/internal/types"

// PaceRule holds the per-pace scheduling budget. EdgeDayActivities applies to the
// first and last active day, MidTripActivities to every other active day.
type PaceRule struct {
	EdgeDayActivities int
	MidTripActivities int
	MaxDailyTravelMin int
	BufferMinutes     int
	DayStartMinutes   int
	DayEndMinutes     int
}

// PaceRules is the fixed pace table. Treat it as read-only.
var PaceRules = map[types.Pace]PaceRule{
	types.PaceRelaxed: {
		EdgeDayActivities: 2,
		MidTripActivities: 3,
		MaxDailyTravelMin: 60,
		BufferMinutes:     90,
		DayStartMinutes:   9 * 60,
		DayEndMinutes:     18 * 60,
	},
	types.PaceModerate: {
		EdgeDayActivities: 3,
		MidTripActivities: 4,
		MaxDailyTravelMin: 120,
		BufferMinutes:     60,
		DayStartMinutes:   8 * 60,
		DayEndMinutes:     20 * 60,
	},
	types.PacePacked: {
		EdgeDayActivities: 5,
		MidTripActivities: 7,
		MaxDailyTravelMin: 180,
		BufferMinutes:     30,
		DayStartMinutes:   6 * 60,
		DayEndMinutes:     22 * 60,
	},
}

// InterestCategories maps an interest tag to the destination categories it matches.
// Treat it as read-only.
var InterestCategories = map[string][]types.Category{
	"nature":        {types.CategoryNature},
	"beaches":       {types.CategoryNature},
	"adventure":     {types.CategoryAdventure, types.CategoryNature},
	"cultural":      {types.CategoryCultural},
	"historical":    {types.CategoryHistorical, types.CategoryCultural},
	"wildlife":      {types.CategoryAdventure, types.CategoryNature},
	"photography":   {types.CategoryNature, types.CategoryCultural, types.CategoryHistorical},
	"relaxation":    {types.CategoryNature},
	"hiking":        {types.CategoryAdventure, types.CategoryNature},
	"water_sports":  {types.CategoryAdventure, types.CategoryNature},
	"local_cuisine": {types.CategoryCultural, types.CategoryFood},
	"shopping":      {types.CategoryShopping, types.CategoryOther},
}

const (
	// Same-day arrivals start at 06:00 plus travel time plus this check-in buffer.
	arrivalDepartureMinutes = 6 * 60
	checkInBufferMinutes    = 30
)

func ruleFor(p types.Pace) (PaceRule, bool) {
	r, ok := PaceRules[p]
	return r, ok
}
