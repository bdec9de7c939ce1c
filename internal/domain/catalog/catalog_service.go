// Package catalog fetches the destination, accommodation and transport hub catalog and
// hands the planner one consistent snapshot per run.
package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
	"github.com/FACorreiaa/loci-trip-planner/pkg/observability"
)

const snapshotKey = "catalog:snapshot"

// Service serves cached catalog snapshots. A snapshot is immutable once built; callers
// must not modify the slices they receive.
type Service struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Cache
	ttl    time.Duration
	now    func() time.Time
}

// NewService caches snapshots for ttl. A ttl of zero disables caching.
func NewService(repo Repository, ttl time.Duration, logger *slog.Logger) *Service {
	cleanup := 2 * ttl
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &Service{
		logger: logger,
		repo:   repo,
		cache:  cache.New(ttl, cleanup),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Snapshot returns the cached catalog or fetches a fresh one.
func (s *Service) Snapshot(ctx context.Context) (types.CatalogSnapshot, error) {
	if s.ttl > 0 {
		if cached, found := s.cache.Get(snapshotKey); found {
			observability.CacheLookups.WithLabelValues("catalog", "hit").Inc()
			return cached.(types.CatalogSnapshot), nil
		}
		observability.CacheLookups.WithLabelValues("catalog", "miss").Inc()
	}
	return s.Refresh(ctx)
}

// Refresh fetches the three collections concurrently and replaces the cached snapshot.
func (s *Service) Refresh(ctx context.Context) (types.CatalogSnapshot, error) {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "Refresh")
	defer span.End()

	l := s.logger.With(slog.String("method", "Refresh"))

	var snapshot types.CatalogSnapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dests, err := s.repo.ListActiveDestinations(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch destinations: %w", err)
		}
		snapshot.Destinations = dests
		return nil
	})
	g.Go(func() error {
		accs, err := s.repo.ListActiveAccommodations(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch accommodations: %w", err)
		}
		snapshot.Accommodations = accs
		return nil
	})
	g.Go(func() error {
		hubs, err := s.repo.ListActiveTransportHubs(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch transport hubs: %w", err)
		}
		snapshot.TransportHubs = hubs
		return nil
	})

	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Failed to build catalog snapshot", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog fetch failed")
		return types.CatalogSnapshot{}, fmt.Errorf("%w: %w", types.ErrCatalog, err)
	}
	snapshot.FetchedAt = s.now().UTC()
	version, err := snapshotVersion(snapshot)
	if err != nil {
		l.WarnContext(ctx, "Falling back to a time based catalog version", slog.Any("error", err))
		version = snapshot.FetchedAt.Format(time.RFC3339Nano)
	}
	snapshot.Version = version

	if s.ttl > 0 {
		s.cache.SetDefault(snapshotKey, snapshot)
	}

	l.InfoContext(ctx, "Catalog snapshot built",
		slog.Int("destinations", len(snapshot.Destinations)),
		slog.Int("accommodations", len(snapshot.Accommodations)),
		slog.Int("transport_hubs", len(snapshot.TransportHubs)))
	span.SetAttributes(
		attribute.Int("catalog.destinations", len(snapshot.Destinations)),
		attribute.Int("catalog.accommodations", len(snapshot.Accommodations)),
	)
	span.SetStatus(codes.Ok, "Catalog fetched")

	return snapshot, nil
}

// Invalidate drops the cached snapshot so the next run refetches.
func (s *Service) Invalidate() {
	s.cache.Delete(snapshotKey)
}

// StartRefresher re-warms the snapshot on the given cron schedule until the returned
// scheduler is stopped. Failures keep the previous snapshot.
func (s *Service) StartRefresher(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.Refresh(ctx); err != nil {
			s.logger.Warn("Scheduled catalog refresh failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid catalog refresh schedule %q: %w", schedule, err)
	}
	c.Start()
	s.logger.Info("Catalog refresher started", slog.String("schedule", schedule))
	return c, nil
}

// snapshotVersion hashes the catalog content, so identical catalogs share a version
// across refreshes and instances.
func snapshotVersion(snapshot types.CatalogSnapshot) (string, error) {
	raw, err := json.Marshal(struct {
		Destinations   []types.Destination   `json:"d"`
		Accommodations []types.Accommodation `json:"a"`
		TransportHubs  []types.TransportHub  `json:"h"`
	}{snapshot.Destinations, snapshot.Accommodations, snapshot.TransportHubs})
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8]), nil
}
