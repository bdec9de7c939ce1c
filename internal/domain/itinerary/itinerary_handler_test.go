package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/loci-trip-planner/internal/domain/interests"
	"github.com/FACorreiaa/loci-trip-planner/internal/domain/itinerary/presenter"
	"github.com/FACorreiaa/loci-trip-planner/internal/domain/planner"
	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

type stubService struct {
	generate func(ctx context.Context, prefs types.TravelPreferences) (*types.Itinerary, error)
	last     types.TravelPreferences
}

func (s *stubService) Generate(ctx context.Context, prefs types.TravelPreferences) (*types.Itinerary, error) {
	s.last = prefs
	return s.generate(ctx, prefs)
}

func okService() *stubService {
	return &stubService{generate: func(_ context.Context, prefs types.TravelPreferences) (*types.Itinerary, error) {
		return fixedItinerary(prefs, types.CatalogSnapshot{})
	}}
}

const validBody = `{"days":3,"pax":2,"budget_category":"medium","pace_preference":"moderate","interests":["I love beaches"]}`

func serve(t *testing.T, h *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) presenter.Envelope {
	t.Helper()
	var env presenter.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestHandlerGenerate(t *testing.T) {
	svc := okService()
	h := NewHandler(svc, interests.NewMatcher(), newTestLogger())

	rec := serve(t, h, http.MethodPost, GeneratePath, validBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Empty(t, env.Error)
	require.NotNil(t, env.Data)
	assert.Equal(t, 1, env.Data.Summary.TotalDestinations)

	assert.Equal(t, 3, svc.last.Days)
	assert.Equal(t, []string{"beaches"}, svc.last.Interests)
}

func TestHandlerGenerateTrailingSlash(t *testing.T) {
	rec := serve(t, NewHandler(okService(), nil, newTestLogger()), http.MethodPost, GeneratePath+"/", validBody)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		body    string
		svcErr  error
		status  int
		message string
	}{
		{
			name:    "wrong method",
			method:  http.MethodGet,
			status:  http.StatusMethodNotAllowed,
			message: "Method not allowed",
		},
		{
			name:    "malformed json",
			method:  http.MethodPost,
			body:    `{"days": 3,`,
			status:  http.StatusBadRequest,
			message: "Invalid JSON format",
		},
		{
			name:    "missing fields",
			method:  http.MethodPost,
			body:    `{"days": 3}`,
			status:  http.StatusBadRequest,
			message: "Missing required fields: pax, budget_category, pace_preference",
		},
		{
			name:    "out of range days",
			method:  http.MethodPost,
			body:    `{"days":20,"pax":2,"budget_category":"medium","pace_preference":"moderate"}`,
			status:  http.StatusBadRequest,
			message: "Days must be between 1 and 14",
		},
		{
			name:    "service rejects preferences",
			method:  http.MethodPost,
			body:    validBody,
			svcErr:  types.NewValidationError("pace", "Pace preference must be: relaxed, moderate, or packed"),
			status:  http.StatusBadRequest,
			message: "Pace preference must be: relaxed, moderate, or packed",
		},
		{
			name:    "internal failure",
			method:  http.MethodPost,
			body:    validBody,
			svcErr:  errors.New("failed to load catalog: boom"),
			status:  http.StatusInternalServerError,
			message: "Server error: failed to load catalog: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &stubService{generate: func(context.Context, types.TravelPreferences) (*types.Itinerary, error) {
				called = true
				if tt.svcErr != nil {
					return nil, tt.svcErr
				}
				return fixedItinerary(types.TravelPreferences{}, types.CatalogSnapshot{})
			}}

			rec := serve(t, NewHandler(svc, nil, newTestLogger()), tt.method, GeneratePath, tt.body)
			require.Equal(t, tt.status, rec.Code)

			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Nil(t, env.Data)
			assert.Equal(t, tt.message, env.Error)
			assert.Equal(t, tt.svcErr != nil, called)
		})
	}
}

func TestHandlerGeneratePDF(t *testing.T) {
	rec := serve(t, NewHandler(okService(), nil, newTestLogger()), http.MethodPost, GeneratePDFPath, validBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=itinerary-2026-03-10.pdf", rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestHandlerGeneratePDFValidationUsesEnvelope(t *testing.T) {
	rec := serve(t, NewHandler(okService(), nil, newTestLogger()), http.MethodPost, GeneratePDFPath, `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Missing required fields: days, pax, budget_category, pace_preference", env.Error)
}

func TestHandlerEndToEnd(t *testing.T) {
	loc := func(lat, lon float64) *types.GeoPoint { return &types.GeoPoint{Latitude: lat, Longitude: lon} }
	snapshot := types.CatalogSnapshot{
		Destinations: []types.Destination{
			{ID: 1, Name: "Bulusan Lake", Category: types.CategoryNature, Location: loc(12.75, 124.10), AvgDurationMinutes: 90, EntranceFee: 50, Budget: types.BudgetLow, Status: types.StatusActive, IsActive: true},
			{ID: 2, Name: "Sorsogon Cathedral", Category: types.CategoryCultural, Location: loc(12.97, 124.01), AvgDurationMinutes: 60, Budget: types.BudgetLow, Status: types.StatusActive, IsActive: true},
			{ID: 3, Name: "Paguriran Beach", Category: types.CategoryNature, Location: loc(13.02, 124.13), AvgDurationMinutes: 120, EntranceFee: 30, Budget: types.BudgetLow, Status: types.StatusActive, IsActive: true},
		},
		Accommodations: []types.Accommodation{
			{ID: 10, Name: "Villa Isabel", Type: "hotel", Location: loc(12.97, 124.00), Budget: types.BudgetMedium, Status: types.StatusActive, IsActive: true},
		},
		TransportHubs: []types.TransportHub{{ID: 20, Name: "Matnog Port", Status: types.StatusActive, IsActive: true}},
	}
	clock := func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) }
	svc := NewService(&stubSnapshots{snapshot: snapshot}, planner.NewPlanner(newTestLogger(), planner.WithClock(clock)),
		NewMemoryResultCache(time.Minute), newTestLogger())
	svc.now = clock

	body := `{"days":2,"pax":2,"budget_category":"medium","pace_preference":"moderate","interests":["beach","church"],"must_visit_ids":[1,99]}`
	rec := serve(t, NewHandler(svc, interests.NewMatcher(), newTestLogger()), http.MethodPost, GeneratePath, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)
	it := env.Data
	require.Len(t, it.Days, 2)
	assert.Equal(t, "2026-03-10", it.Days[0].Date)
	assert.Equal(t, "2026-03-11", it.Days[1].Date)
	assert.Equal(t, types.Currency, it.Summary.Currency)
	assert.Equal(t, 1, it.Summary.AvailableTransportHubs)

	fees := 0.0
	seen := map[int64]bool{}
	for _, day := range it.Days {
		for _, a := range day.Activities {
			assert.False(t, seen[a.DestinationID], "destination %d scheduled twice", a.DestinationID)
			seen[a.DestinationID] = true
			fees += a.EntranceFee * 2
		}
	}
	assert.True(t, seen[1], "must-visit destination is scheduled")
	assert.Equal(t, len(seen), it.Summary.TotalDestinations)
	assert.InDelta(t, fees, it.Summary.TotalEntranceFees, 0.001)

	require.Len(t, it.ExcludedMustVisit, 1)
	assert.Equal(t, int64(99), it.ExcludedMustVisit[0].DestinationID)
}
