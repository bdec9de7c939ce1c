package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository returns the schedulable (active) part of the catalog.
type Repository interface {
	ListActiveDestinations(ctx context.Context) ([]types.Destination, error)
	ListActiveAccommodations(ctx context.Context) ([]types.Accommodation, error)
	ListActiveTransportHubs(ctx context.Context) ([]types.TransportHub, error)
}

// Querier is the subset of *pgxpool.Pool the repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresRepository struct {
	logger *slog.Logger
	pgpool Querier
}

func NewPostgresRepository(pool Querier, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pool,
	}
}

var activeOnly = squirrel.Eq{"is_active": true, "status": types.StatusActive}

var destinationColumns = []string{
	"id",
	"name",
	"category",
	"COALESCE(description, '')",
	"COALESCE(address, '')",
	"latitude",
	"longitude",
	"COALESCE(avg_duration_minutes, 0)",
	"COALESCE(entrance_fee, 0)::float8",
	"COALESCE(to_char(opening_time, 'HH24:MI'), '')",
	"COALESCE(to_char(closing_time, 'HH24:MI'), '')",
	"budget_category",
	"wheelchair_friendly",
	"kid_friendly",
	"senior_friendly",
	"status",
	"is_active",
	"COALESCE(image, '')",
}

var accommodationColumns = []string{
	"id",
	"name",
	"type",
	"COALESCE(description, '')",
	"COALESCE(address, '')",
	"latitude",
	"longitude",
	"budget_category",
	"pet_friendly",
	"wheelchair_friendly",
	"wifi",
	"parking",
	"breakfast",
	"ac",
	"COALESCE(contact_number, '')",
	"COALESCE(email, '')",
	"COALESCE(website, '')",
	"status",
	"is_active",
	"COALESCE(image, '')",
}

var transportHubColumns = []string{
	"id",
	"name",
	"hub_type",
	"COALESCE(address, '')",
	"latitude",
	"longitude",
	"status",
	"is_active",
}

func activeQuery(table string, columns []string) (string, []any, error) {
	return squirrel.Select(columns...).
		From(table).
		Where(activeOnly).
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func startSpan(ctx context.Context, name, table string) (context.Context, trace.Span) {
	return otel.Tracer("CatalogRepository").Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.sql.table", table),
	))
}

func (r *PostgresRepository) ListActiveDestinations(ctx context.Context) ([]types.Destination, error) {
	ctx, span := startSpan(ctx, "ListActiveDestinations", "destinations")
	defer span.End()

	l := r.logger.With(slog.String("method", "ListActiveDestinations"))

	query, args, err := activeQuery("destinations", destinationColumns)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build destinations query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query destinations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to query destinations: %w", err)
	}
	defer rows.Close()

	var out []types.Destination
	for rows.Next() {
		var (
			d        types.Destination
			category string
			budget   string
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(
			&d.ID, &d.Name, &category, &d.Description, &d.Address, &lat, &lon,
			&d.AvgDurationMinutes, &d.EntranceFee, &d.OpeningTime, &d.ClosingTime,
			&budget, &d.WheelchairFriendly, &d.KidFriendly, &d.SeniorFriendly,
			&d.Status, &d.IsActive, &d.Image,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Scan failed")
			return nil, fmt.Errorf("failed to scan destination row: %w", err)
		}

		tier, err := types.ParseBudgetTier(budget)
		if err != nil {
			l.WarnContext(ctx, "Skipping destination with unknown budget category",
				slog.Int64("destination_id", d.ID), slog.String("budget_category", budget))
			continue
		}
		d.Budget = tier
		d.Category = types.Category(category)
		d.Location = geoPoint(lat, lon)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("failed iterating destination rows: %w", err)
	}

	l.DebugContext(ctx, "Fetched active destinations", slog.Int("count", len(out)))
	span.SetAttributes(attribute.Int("results.count", len(out)))
	span.SetStatus(codes.Ok, "Destinations fetched")
	return out, nil
}

func (r *PostgresRepository) ListActiveAccommodations(ctx context.Context) ([]types.Accommodation, error) {
	ctx, span := startSpan(ctx, "ListActiveAccommodations", "accommodations")
	defer span.End()

	l := r.logger.With(slog.String("method", "ListActiveAccommodations"))

	query, args, err := activeQuery("accommodations", accommodationColumns)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build accommodations query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query accommodations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to query accommodations: %w", err)
	}
	defer rows.Close()

	var out []types.Accommodation
	for rows.Next() {
		var (
			a        types.Accommodation
			budget   string
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Type, &a.Description, &a.Address, &lat, &lon,
			&budget, &a.PetFriendly, &a.WheelchairFriendly,
			&a.Amenities.Wifi, &a.Amenities.Parking, &a.Amenities.Breakfast, &a.Amenities.AirConditioned,
			&a.ContactNumber, &a.Email, &a.Website, &a.Status, &a.IsActive, &a.Image,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Scan failed")
			return nil, fmt.Errorf("failed to scan accommodation row: %w", err)
		}

		tier, err := types.ParseBudgetTier(budget)
		if err != nil {
			l.WarnContext(ctx, "Skipping accommodation with unknown budget category",
				slog.Int64("accommodation_id", a.ID), slog.String("budget_category", budget))
			continue
		}
		a.Budget = tier
		a.Location = geoPoint(lat, lon)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("failed iterating accommodation rows: %w", err)
	}

	l.DebugContext(ctx, "Fetched active accommodations", slog.Int("count", len(out)))
	span.SetAttributes(attribute.Int("results.count", len(out)))
	span.SetStatus(codes.Ok, "Accommodations fetched")
	return out, nil
}

func (r *PostgresRepository) ListActiveTransportHubs(ctx context.Context) ([]types.TransportHub, error) {
	ctx, span := startSpan(ctx, "ListActiveTransportHubs", "transportation_hubs")
	defer span.End()

	query, args, err := activeQuery("transportation_hubs", transportHubColumns)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build transport hubs query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query transport hubs", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to query transport hubs: %w", err)
	}
	defer rows.Close()

	var out []types.TransportHub
	for rows.Next() {
		var (
			h        types.TransportHub
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.HubType, &h.Address, &lat, &lon, &h.Status, &h.IsActive); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Scan failed")
			return nil, fmt.Errorf("failed to scan transport hub row: %w", err)
		}
		h.Location = geoPoint(lat, lon)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed iterating transport hub rows: %w", err)
	}

	span.SetAttributes(attribute.Int("results.count", len(out)))
	span.SetStatus(codes.Ok, "Transport hubs fetched")
	return out, nil
}

// geoPoint keeps a coordinate only when both halves are present.
func geoPoint(lat, lon sql.NullFloat64) *types.GeoPoint {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &types.GeoPoint{Latitude: lat.Float64, Longitude: lon.Float64}
}
