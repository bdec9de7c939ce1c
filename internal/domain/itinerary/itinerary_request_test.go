package itinerary

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

func ptr[T any](v T) *T { return &v }

type prefixNormalizer struct{}

func (prefixNormalizer) Normalize(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, "tag:"+r)
	}
	return out
}

func validRequest() GenerateRequest {
	return GenerateRequest{
		Days:           ptr(3),
		Pax:            ptr(2),
		BudgetCategory: ptr("medium"),
		PacePreference: ptr("moderate"),
	}
}

func TestPreferencesDefaults(t *testing.T) {
	prefs, err := validRequest().Preferences(nil)
	require.NoError(t, err)

	assert.Equal(t, 3, prefs.Days)
	assert.Equal(t, 2, prefs.Pax)
	assert.Equal(t, types.BudgetMedium, prefs.Budget)
	assert.Equal(t, types.PaceModerate, prefs.Pace)
	assert.Equal(t, "sorsogon_city", prefs.StartingPoint)
	assert.Equal(t, "Sorsogon City", prefs.PointOfOrigin)
	assert.Equal(t, 120, prefs.MaxTravelTimeMinutes)
	assert.True(t, prefs.IncludeAccommodation)
	assert.True(t, prefs.ActivityOnSameDay)
	assert.Zero(t, prefs.TravelTimeHours)
	assert.Nil(t, prefs.StartDate)
}

func TestPreferencesCarriesOptionalFields(t *testing.T) {
	req := validRequest()
	req.BudgetCategory = ptr(" HIGH ")
	req.PacePreference = ptr("Packed")
	req.Interests = []string{"beaches"}
	req.IncludeAccommodation = ptr(false)
	req.ActivityOnSameDay = ptr(false)
	req.MaxTravelTime = ptr(0)
	req.TravelTimeHours = ptr(2.5)
	req.StartDate = ptr("2026-05-01")
	req.ExcludeCategories = []string{" Shopping "}
	req.MustVisitIDs = []int64{4, 5}
	req.AccommodationID = ptr(int64(12))

	prefs, err := req.Preferences(prefixNormalizer{})
	require.NoError(t, err)

	assert.Equal(t, types.BudgetHigh, prefs.Budget)
	assert.Equal(t, types.PacePacked, prefs.Pace)
	assert.Equal(t, []string{"tag:beaches"}, prefs.Interests)
	assert.False(t, prefs.IncludeAccommodation)
	assert.False(t, prefs.ActivityOnSameDay)
	assert.Equal(t, 0, prefs.MaxTravelTimeMinutes)
	assert.Equal(t, 2.5, prefs.TravelTimeHours)
	require.NotNil(t, prefs.StartDate)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), *prefs.StartDate)
	assert.Equal(t, []types.Category{types.CategoryShopping}, prefs.ExcludeCategories)
	assert.Equal(t, []int64{4, 5}, prefs.MustVisitIDs)
	assert.Equal(t, int64(12), *prefs.AccommodationID)
}

func TestPreferencesValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *GenerateRequest)
		field   string
		message string
	}{
		{
			name:    "all required missing",
			mutate:  func(r *GenerateRequest) { *r = GenerateRequest{} },
			field:   "days",
			message: "Missing required fields: days, pax, budget_category, pace_preference",
		},
		{
			name:    "pace missing",
			mutate:  func(r *GenerateRequest) { r.PacePreference = nil },
			field:   "pace_preference",
			message: "Missing required fields: pace_preference",
		},
		{
			name:    "zero days",
			mutate:  func(r *GenerateRequest) { r.Days = ptr(0) },
			field:   "days",
			message: "Days must be between 1 and 14",
		},
		{
			name:    "too many days",
			mutate:  func(r *GenerateRequest) { r.Days = ptr(15) },
			field:   "days",
			message: "Days must be between 1 and 14",
		},
		{
			name:    "no travelers",
			mutate:  func(r *GenerateRequest) { r.Pax = ptr(0) },
			field:   "pax",
			message: "Number of travelers must be at least 1",
		},
		{
			name:    "unknown budget",
			mutate:  func(r *GenerateRequest) { r.BudgetCategory = ptr("luxury") },
			field:   "budget_category",
			message: "Budget category must be: low, medium, or high",
		},
		{
			name:    "unknown pace",
			mutate:  func(r *GenerateRequest) { r.PacePreference = ptr("slow") },
			field:   "pace_preference",
			message: "Pace preference must be: relaxed, moderate, or packed",
		},
		{
			name:    "budget in the wrong case",
			mutate:  func(r *GenerateRequest) { r.BudgetCategory = ptr("Medium") },
			field:   "budget_category",
			message: "Budget category must be: low, medium, or high",
		},
		{
			name:    "pace with padding",
			mutate:  func(r *GenerateRequest) { r.PacePreference = ptr(" packed ") },
			field:   "pace_preference",
			message: "Pace preference must be: relaxed, moderate, or packed",
		},
		{
			name:    "negative travel hours",
			mutate:  func(r *GenerateRequest) { r.TravelTimeHours = ptr(-1.0) },
			field:   "travel_time_hours",
			message: "Travel time must be between 0 and 24 hours",
		},
		{
			name:    "travel hours above a day",
			mutate:  func(r *GenerateRequest) { r.TravelTimeHours = ptr(24.5) },
			field:   "travel_time_hours",
			message: "Travel time must be between 0 and 24 hours",
		},
		{
			name:    "negative max travel",
			mutate:  func(r *GenerateRequest) { r.MaxTravelTime = ptr(-5) },
			field:   "max_travel_time",
			message: "Maximum travel time cannot be negative",
		},
		{
			name:    "bad start date",
			mutate:  func(r *GenerateRequest) { r.StartDate = ptr("01/05/2026") },
			field:   "start_date",
			message: "Start date must be in YYYY-MM-DD format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := req.Preferences(nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrBadRequest)

			var verr *types.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestPreferencesBoundaries(t *testing.T) {
	for _, days := range []int{MinTripDays, MaxTripDays} {
		req := validRequest()
		req.Days = ptr(days)
		_, err := req.Preferences(nil)
		assert.NoError(t, err, "days=%d", days)
	}

	req := validRequest()
	req.TravelTimeHours = ptr(24.0)
	_, err := req.Preferences(nil)
	assert.NoError(t, err)

	req = validRequest()
	req.StartDate = ptr("")
	prefs, err := req.Preferences(nil)
	require.NoError(t, err)
	assert.Nil(t, prefs.StartDate)
}

func TestDecodeRequest(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		req, err := DecodeRequest(strings.NewReader(`{"days":2,"pax":1,"budget_category":"low","pace_preference":"relaxed","interests":["nature"]}`))
		require.NoError(t, err)
		assert.Equal(t, 2, *req.Days)
		assert.Equal(t, []string{"nature"}, req.Interests)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := DecodeRequest(strings.NewReader(`{"days":`))
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrBadRequest)
		assert.Equal(t, "Invalid JSON format", err.Error())
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := DecodeRequest(strings.NewReader(""))
		require.Error(t, err)
		assert.Equal(t, "Invalid JSON format", err.Error())
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := DecodeRequest(strings.NewReader(`{"days":"three"}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrBadRequest)
		assert.True(t, strings.HasPrefix(err.Error(), "Invalid data type: days"), err.Error())
	})
}
