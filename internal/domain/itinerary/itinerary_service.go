// Package itinerary is the request boundary around the planner: validation, catalog
// snapshot, result caching and the HTTP and Connect transports.
package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
	"github.com/FACorreiaa/loci-trip-planner/pkg/observability"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service generates itineraries from validated preferences.
type Service interface {
	Generate(ctx context.Context, prefs types.TravelPreferences) (*types.Itinerary, error)
}

// SnapshotProvider supplies the catalog for one run.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (types.CatalogSnapshot, error)
}

// Planner runs one planning pass over a snapshot.
type Planner interface {
	Plan(ctx context.Context, prefs types.TravelPreferences, snapshot types.CatalogSnapshot) (*types.Itinerary, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	catalog SnapshotProvider
	planner Planner
	cache   ResultCache
	now     func() time.Time
}

// NewService wires the generation pipeline. cache may be nil to disable result caching.
func NewService(catalog SnapshotProvider, planner Planner, cache ResultCache, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		catalog: catalog,
		planner: planner,
		cache:   cache,
		now:     time.Now,
	}
}

func (s *ServiceImpl) Generate(ctx context.Context, prefs types.TravelPreferences) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.Int("trip.days", prefs.Days),
		attribute.Int("trip.pax", prefs.Pax),
		attribute.String("trip.pace", string(prefs.Pace)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Generate"))

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load catalog", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog unavailable")
		observability.ItineraryGenerations.WithLabelValues(string(prefs.Pace), observability.OutcomeFailed).Inc()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	key := s.cacheKey(ctx, prefs, snapshot.Version)
	if key != "" {
		cached, found, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			observability.CacheLookups.WithLabelValues("itinerary", "error").Inc()
			l.WarnContext(ctx, "Itinerary cache read failed", slog.Any("error", err))
		case found:
			observability.CacheLookups.WithLabelValues("itinerary", "hit").Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		default:
			observability.CacheLookups.WithLabelValues("itinerary", "miss").Inc()
		}
	}

	start := time.Now()
	it, err := s.plan(ctx, prefs, snapshot)
	observability.ItineraryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		outcome := observability.OutcomeFailed
		if errors.Is(err, types.ErrBadRequest) {
			outcome = observability.OutcomeInvalid
		}
		observability.ItineraryGenerations.WithLabelValues(string(prefs.Pace), outcome).Inc()

		l.ErrorContext(ctx, "Failed to generate itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil, err
	}
	observability.ItineraryGenerations.WithLabelValues(string(prefs.Pace), observability.OutcomeSuccess).Inc()

	if key != "" {
		if err := s.cache.Set(ctx, key, it); err != nil {
			l.WarnContext(ctx, "Itinerary cache write failed", slog.Any("error", err))
		}
	}

	l.InfoContext(ctx, "Itinerary generated",
		slog.Int("days", len(it.Days)),
		slog.Int("destinations", it.Summary.TotalDestinations),
		slog.Int("excluded_must_visit", len(it.ExcludedMustVisit)))
	span.SetStatus(codes.Ok, "Itinerary generated")
	return it, nil
}

// plan converts a planner panic into an ErrInternal error.
func (s *ServiceImpl) plan(ctx context.Context, prefs types.TravelPreferences, snapshot types.CatalogSnapshot) (it *types.Itinerary, err error) {
	defer func() {
		if r := recover(); r != nil {
			it = nil
			err = fmt.Errorf("%w: planner panic: %v", types.ErrInternal, r)
		}
	}()
	return s.planner.Plan(ctx, prefs, snapshot)
}

func (s *ServiceImpl) cacheKey(ctx context.Context, prefs types.TravelPreferences, catalogVersion string) string {
	if s.cache == nil {
		return ""
	}
	start := s.now().UTC()
	if prefs.StartDate != nil {
		start = *prefs.StartDate
	}
	key, err := CacheKey(prefs, start, catalogVersion)
	if err != nil {
		s.logger.WarnContext(ctx, "Skipping itinerary cache", slog.Any("error", err))
		return ""
	}
	return key
}
