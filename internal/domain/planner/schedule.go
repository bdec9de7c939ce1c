package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

// Trips with at least this many active days get one rest day in the middle.
const restDayThreshold = 5

// Activity is one scheduled stop. Clock values are minutes after midnight of the day
// and may run past 24:00 on very late days.
type Activity struct {
	Destination     types.Destination
	StartMinutes    int
	EndMinutes      int
	DurationMinutes int
	TravelMinutes   int
	DistanceKm      float64
	Type            string
}

// StartTime formats the activity start as HH:MM.
func (a Activity) StartTime() string { return formatClock(a.StartMinutes) }

// EndTime formats the activity end as HH:MM.
func (a Activity) EndTime() string { return formatClock(a.EndMinutes) }

// DayPlan is the internal plan of one trip day.
type DayPlan struct {
	DayNumber          int
	Date               time.Time
	Activities         []Activity
	Accommodation      *types.Accommodation
	TotalTravelMinutes int
	TotalDistanceKm    float64
	IsRestDay          bool
	IsTravelDay        bool
	DayType            string
}

// TotalActivities is the number of scheduled activities.
func (d DayPlan) TotalActivities() int { return len(d.Activities) }

// Schedule is the scheduler output: one DayPlan per trip day, in order.
type Schedule struct {
	Days []DayPlan
	// UnscheduledMustVisit lists must-visit ids that never fit into any active day.
	UnscheduledMustVisit []int64
}

// BuildSchedule walks the trip day by day and fills each active day greedily, first
// with the must-visit destinations assigned to it and then with the nearest remaining
// filler destinations. start is the calendar date of day 1.
func BuildSchedule(clusters [][]types.Destination, accs []types.Accommodation, prefs types.TravelPreferences, start time.Time) Schedule {
	rule, _ := ruleFor(prefs.Pace)

	var acc *types.Accommodation
	base := DefaultOrigin
	if len(accs) > 0 {
		a := accs[0]
		acc = &a
		base = pointOf(a.Location)
	}

	originMinutes := prefs.OriginTravelMinutes()
	layout := planDays(prefs.Days, originMinutes, prefs.ActivityOnSameDay)
	activeStart, activeCount := layout.activeStart, layout.activeCount
	activeEnd := activeStart + activeCount - 1
	sameDayArrival := originMinutes > 0 && !layout.arrivalDay

	restDay := 0
	if activeCount >= restDayThreshold {
		restDay = activeStart + activeCount/2
	}

	mustVisit, fillers := splitPool(clusters, prefs, base)

	var visitDays []int
	for day := activeStart; day <= activeEnd; day++ {
		if day != restDay {
			visitDays = append(visitDays, day)
		}
	}
	assigned := make(map[int][]types.Destination, len(visitDays))
	for i, d := range mustVisit {
		day := visitDays[i%len(visitDays)]
		assigned[day] = append(assigned[day], d)
	}

	s := &scheduler{
		rule:    rule,
		prefs:   prefs,
		acc:     acc,
		base:    base,
		fillers: fillers,
	}

	days := make([]DayPlan, 0, prefs.Days)
	if layout.arrivalDay {
		days = append(days, travelDay(1, start, acc, originMinutes, true))
	}

	var carried []types.Destination
	for day := activeStart; day <= activeEnd; day++ {
		date := start.AddDate(0, 0, day-1)

		if day == restDay {
			days = append(days, DayPlan{
				DayNumber:     day,
				Date:          date,
				Accommodation: acc,
				IsRestDay:     true,
				DayType:       types.DayTypeRest,
			})
			continue
		}

		target := rule.MidTripActivities
		if day == activeStart || day == activeEnd {
			target = rule.EdgeDayActivities
		}

		clock := rule.DayStartMinutes
		if sameDayArrival && day == activeStart {
			clock = arrivalDepartureMinutes + originMinutes + checkInBufferMinutes
		}

		queue := make([]types.Destination, 0, len(carried)+len(assigned[day]))
		queue = append(queue, carried...)
		queue = append(queue, assigned[day]...)

		var plan DayPlan
		plan, carried = s.fillDay(day, date, queue, target, clock)
		days = append(days, plan)
	}

	if layout.departureDay {
		days = append(days, travelDay(activeEnd+1, start.AddDate(0, 0, activeEnd), acc, originMinutes, false))
	}

	var unscheduled []int64
	for _, d := range carried {
		unscheduled = append(unscheduled, d.ID)
	}

	return Schedule{Days: days, UnscheduledMustVisit: unscheduled}
}

// dayLayout splits the requested trip length into travel days and active days.
type dayLayout struct {
	arrivalDay   bool
	departureDay bool
	activeStart  int
	activeCount  int
}

// planDays carves travel days out of the trip length. With origin travel, day 1 is an
// arrival travel day unless the traveler starts activities on arrival, and the last day
// is a departure travel day. A travel day is only carved while at least one active day
// remains; otherwise the lone day starts after arrival instead.
func planDays(days, originMinutes int, sameDay bool) dayLayout {
	l := dayLayout{activeStart: 1, activeCount: days}
	if originMinutes <= 0 {
		return l
	}
	if !sameDay && l.activeCount > 1 {
		l.arrivalDay = true
		l.activeStart = 2
		l.activeCount--
	}
	if l.activeCount > 1 {
		l.departureDay = true
		l.activeCount--
	}
	return l
}

// scheduler carries the run-local state shared across days: the filler list and the
// running filler index.
type scheduler struct {
	rule    PaceRule
	prefs   types.TravelPreferences
	acc     *types.Accommodation
	base    types.GeoPoint
	fillers []types.Destination
	next    int
}

// dayState is the accumulator of a single day.
type dayState struct {
	clock      int
	here       types.GeoPoint
	travel     int
	distance   float64
	activities []Activity
	buffer     int
}

func (st *dayState) visit(d types.Destination, distance float64, travel int) {
	st.clock += travel
	st.travel += travel
	st.distance += distance

	start := st.clock
	duration := d.VisitMinutes()
	st.clock += duration

	st.activities = append(st.activities, Activity{
		Destination:     d,
		StartMinutes:    start,
		EndMinutes:      st.clock,
		DurationMinutes: duration,
		TravelMinutes:   travel,
		DistanceKm:      distance,
		Type:            types.ActivityDestination,
	})

	st.clock += st.buffer
	st.here = pointOf(d.Location)
}

func (st *dayState) leg(d types.Destination) (float64, int) {
	distance := Distance(st.here, pointOf(d.Location))
	return distance, EstimateTravelMinutes(distance)
}

// fillDay schedules one active day and returns the must-visit destinations that did
// not fit, in order, so they can be retried on the next active day.
func (s *scheduler) fillDay(dayNumber int, date time.Time, mustVisit []types.Destination, target, clock int) (DayPlan, []types.Destination) {
	st := &dayState{clock: clock, here: s.base, buffer: s.rule.BufferMinutes}
	open := func() bool {
		return st.clock <= s.rule.DayEndMinutes && len(st.activities) < target
	}

	maxLeg := float64(s.prefs.MaxTravelTimeMinutes) * mustVisitSlackRate
	maxDaily := float64(s.rule.MaxDailyTravelMin) * mustVisitSlackRate

	var deferred []types.Destination
	for i := 0; i < len(mustVisit); i++ {
		if !open() {
			deferred = append(deferred, mustVisit[i:]...)
			break
		}
		d := mustVisit[i]
		distance, travel := st.leg(d)
		if float64(travel) > maxLeg {
			deferred = append(deferred, d)
			continue
		}
		if float64(st.travel+travel) > maxDaily {
			deferred = append(deferred, mustVisit[i:]...)
			break
		}
		st.visit(d, distance, travel)
	}

	for open() && s.next < len(s.fillers) {
		d := s.fillers[s.next]
		distance, travel := st.leg(d)
		if travel > s.prefs.MaxTravelTimeMinutes {
			s.next++
			continue
		}
		if st.travel+travel > s.rule.MaxDailyTravelMin {
			break
		}
		st.visit(d, distance, travel)
		s.next++
	}

	if s.acc != nil && len(st.activities) > 0 {
		back := Distance(st.here, s.base)
		st.travel += EstimateTravelMinutes(back)
		st.distance += back
	}

	return DayPlan{
		DayNumber:          dayNumber,
		Date:               date,
		Activities:         st.activities,
		Accommodation:      s.acc,
		TotalTravelMinutes: st.travel,
		TotalDistanceKm:    round(st.distance, 2),
		DayType:            types.DayTypeRegular,
	}, deferred
}

// splitPool flattens the clusters without duplicates, separating must-visit
// destinations (cluster order) from fillers (nearest to base first).
func splitPool(clusters [][]types.Destination, prefs types.TravelPreferences, base types.GeoPoint) ([]types.Destination, []types.Destination) {
	seen := make(map[int64]bool)
	var mustVisit []types.Destination

	type filler struct {
		dest     types.Destination
		distance float64
	}
	var others []filler

	for _, cluster := range clusters {
		for _, d := range cluster {
			if seen[d.ID] {
				continue
			}
			seen[d.ID] = true
			if prefs.IsMustVisit(d.ID) {
				mustVisit = append(mustVisit, d)
				continue
			}
			others = append(others, filler{dest: d, distance: Distance(base, pointOf(d.Location))})
		}
	}

	sort.SliceStable(others, func(i, j int) bool {
		return others[i].distance < others[j].distance
	})

	fillers := make([]types.Destination, 0, len(others))
	for _, o := range others {
		fillers = append(fillers, o.dest)
	}
	return mustVisit, fillers
}

func travelDay(dayNumber int, date time.Time, acc *types.Accommodation, minutes int, arrival bool) DayPlan {
	plan := DayPlan{
		DayNumber:          dayNumber,
		Date:               date,
		IsTravelDay:        true,
		TotalTravelMinutes: minutes,
		DayType:            types.DayTypeTravelFrom,
	}
	if arrival {
		plan.DayType = types.DayTypeTravelTo
		plan.Accommodation = acc
	}
	return plan
}

func formatClock(minutes int) string {
	m := minutes % (24 * 60)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
