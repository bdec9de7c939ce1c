// Package planner turns travel preferences and a catalog snapshot into a day-by-day
// itinerary. It is pure: it never fetches data and never mutates its inputs.
package planner

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

// Planner runs the filter, score, select, cluster, schedule and serialize stages.
type Planner struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes a Planner.
type Option func(*Planner)

// WithClock overrides the clock used to date trips without an explicit start date.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

func NewPlanner(logger *slog.Logger, opts ...Option) *Planner {
	p := &Planner{
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan generates an itinerary. Sparse catalogs are not errors: the result may hold days
// without activities. Only preferences the pipeline cannot interpret are rejected.
func (p *Planner) Plan(ctx context.Context, prefs types.TravelPreferences, snapshot types.CatalogSnapshot) (*types.Itinerary, error) {
	_, span := otel.Tracer("Planner").Start(ctx, "Plan", trace.WithAttributes(
		attribute.Int("trip.days", prefs.Days),
		attribute.String("trip.pace", string(prefs.Pace)),
		attribute.String("trip.budget", prefs.Budget.String()),
	))
	defer span.End()

	l := p.logger.With(slog.String("method", "Plan"))

	if prefs.Days < 1 {
		err := types.NewValidationError("days", "must be at least 1, got %d", prefs.Days)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid preferences")
		return nil, err
	}
	if _, ok := ruleFor(prefs.Pace); !ok {
		err := types.NewValidationError("pace", "unknown pace %q", prefs.Pace)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid preferences")
		return nil, err
	}
	if !prefs.Budget.Valid() {
		err := types.NewValidationError("budget_category", "unknown budget %s", prefs.Budget)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid preferences")
		return nil, err
	}

	eligible, rejected := FilterDestinations(snapshot.Destinations, prefs)
	scored := ScoreDestinations(eligible, prefs)
	accs := SelectAccommodations(snapshot.Accommodations, prefs)
	clusters := ClusterDestinations(scored, accs, prefs)

	l.DebugContext(ctx, "Candidate pool prepared",
		slog.Int("eligible", len(eligible)),
		slog.Int("rejected", len(rejected)),
		slog.Int("accommodations", len(accs)),
		slog.Int("clusters", len(clusters)))

	schedule := BuildSchedule(clusters, accs, prefs, p.startDate(prefs))

	itinerary := Serialize(schedule, prefs, snapshot.TransportHubs)
	itinerary.ExcludedMustVisit = mustVisitExclusions(prefs, snapshot.Destinations, rejected)

	if len(itinerary.UnscheduledMustVisitIDs) > 0 {
		l.WarnContext(ctx, "Some must-visit destinations did not fit the schedule",
			slog.Any("destination_ids", itinerary.UnscheduledMustVisitIDs))
	}

	l.InfoContext(ctx, "Itinerary generated",
		slog.Int("days", len(itinerary.Days)),
		slog.Int("destinations", itinerary.Summary.TotalDestinations))
	span.SetAttributes(
		attribute.Int("itinerary.days", len(itinerary.Days)),
		attribute.Int("itinerary.destinations", itinerary.Summary.TotalDestinations),
	)
	span.SetStatus(codes.Ok, "Itinerary generated")

	return &itinerary, nil
}

func (p *Planner) startDate(prefs types.TravelPreferences) time.Time {
	if prefs.StartDate != nil {
		return dateOnly(*prefs.StartDate)
	}
	return dateOnly(p.now().UTC())
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
