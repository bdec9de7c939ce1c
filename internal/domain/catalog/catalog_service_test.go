package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListActiveDestinations(ctx context.Context) ([]types.Destination, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Destination), args.Error(1)
}

func (m *MockRepository) ListActiveAccommodations(ctx context.Context) ([]types.Accommodation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Accommodation), args.Error(1)
}

func (m *MockRepository) ListActiveTransportHubs(ctx context.Context) ([]types.TransportHub, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TransportHub), args.Error(1)
}

func expectCatalog(repo *MockRepository, times int) {
	repo.On("ListActiveDestinations", mock.Anything).
		Return([]types.Destination{{ID: 1, Name: "Bulusan Lake"}}, nil).Times(times)
	repo.On("ListActiveAccommodations", mock.Anything).
		Return([]types.Accommodation{{ID: 10, Name: "Siama Hotel"}}, nil).Times(times)
	repo.On("ListActiveTransportHubs", mock.Anything).
		Return([]types.TransportHub{{ID: 20, Name: "Matnog Port"}}, nil).Times(times)
}

func TestServiceSnapshotCachesResult(t *testing.T) {
	repo := new(MockRepository)
	expectCatalog(repo, 1)

	svc := NewService(repo, time.Minute, newTestLogger())
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	second, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.Destinations, 1)
	assert.Len(t, first.Accommodations, 1)
	assert.Len(t, first.TransportHubs, 1)
	assert.Equal(t, fixed, first.FetchedAt)
	repo.AssertExpectations(t)
}

func TestServiceInvalidateForcesRefetch(t *testing.T) {
	repo := new(MockRepository)
	expectCatalog(repo, 2)

	svc := NewService(repo, time.Minute, newTestLogger())

	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	svc.Invalidate()
	_, err = svc.Snapshot(context.Background())
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestServiceSnapshotVersionFollowsContent(t *testing.T) {
	lake := types.Destination{ID: 1, Name: "Bulusan Lake", Budget: types.BudgetLow}
	falls := types.Destination{ID: 2, Name: "Palogtoc Falls", Budget: types.BudgetLow}

	repo := new(MockRepository)
	repo.On("ListActiveDestinations", mock.Anything).Return([]types.Destination{lake}, nil).Twice()
	repo.On("ListActiveDestinations", mock.Anything).Return([]types.Destination{lake, falls}, nil).Once()
	repo.On("ListActiveAccommodations", mock.Anything).Return([]types.Accommodation{}, nil).Times(3)
	repo.On("ListActiveTransportHubs", mock.Anything).Return([]types.TransportHub{}, nil).Times(3)

	svc := NewService(repo, time.Minute, newTestLogger())
	ticks := 0
	svc.now = func() time.Time {
		ticks++
		return time.Date(2026, 1, 2, 3, ticks, 0, 0, time.UTC)
	}

	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	same, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	changed, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, first.Version)
	assert.NotEqual(t, first.FetchedAt, same.FetchedAt)
	assert.Equal(t, first.Version, same.Version)
	assert.NotEqual(t, first.Version, changed.Version)
	repo.AssertExpectations(t)
}

func TestServiceWithoutTTLAlwaysFetches(t *testing.T) {
	repo := new(MockRepository)
	expectCatalog(repo, 2)

	svc := NewService(repo, 0, newTestLogger())

	for range 2 {
		_, err := svc.Snapshot(context.Background())
		require.NoError(t, err)
	}
	repo.AssertExpectations(t)
}

func TestServiceSnapshotFailure(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListActiveDestinations", mock.Anything).Return(nil, errors.New("db down"))
	repo.On("ListActiveAccommodations", mock.Anything).Return([]types.Accommodation{}, nil).Maybe()
	repo.On("ListActiveTransportHubs", mock.Anything).Return([]types.TransportHub{}, nil).Maybe()

	svc := NewService(repo, time.Minute, newTestLogger())

	_, err := svc.Snapshot(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrCatalog)
	assert.ErrorContains(t, err, "db down")

	_, found := svc.cache.Get(snapshotKey)
	assert.False(t, found)
}

func TestServiceStartRefresherRejectsBadSchedule(t *testing.T) {
	svc := NewService(new(MockRepository), time.Minute, newTestLogger())

	c, err := svc.StartRefresher("not a schedule")
	assert.Nil(t, c)
	assert.Error(t, err)
}

func TestServiceStartRefresher(t *testing.T) {
	svc := NewService(new(MockRepository), time.Minute, newTestLogger())

	c, err := svc.StartRefresher("@every 1h")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
