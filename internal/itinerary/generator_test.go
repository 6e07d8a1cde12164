package itinerary

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/alexivanou/trip-planner-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// memoryStops keeps stops keyed by trip and day, like the real upsert
type memoryStops struct {
	mu         sync.Mutex
	stops      map[string]model.TripStop
	activities map[string][]model.Activity
	failOnDay  int
	seq        int
}

func newMemoryStops() *memoryStops {
	return &memoryStops{stops: map[string]model.TripStop{}, activities: map[string][]model.Activity{}}
}

func (m *memoryStops) UpsertStop(_ context.Context, stop *model.TripStop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stop.DayNumber == m.failOnDay {
		return errors.New("disk full")
	}
	key := fmt.Sprintf("%s/%d", stop.TripID, stop.DayNumber)
	if existing, ok := m.stops[key]; ok {
		stop.ID = existing.ID
	} else {
		m.seq++
		stop.ID = fmt.Sprintf("stop-%d", m.seq)
	}
	m.stops[key] = *stop
	return nil
}

func (m *memoryStops) ReplaceActivities(_ context.Context, stopID string, activities []model.Activity) ([]model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]model.Activity, len(activities))
	for i, a := range activities {
		a.ID = fmt.Sprintf("%s-act-%d", stopID, i)
		a.TripStopID = stopID
		stored[i] = a
	}
	m.activities[stopID] = stored
	return stored, nil
}

func (m *memoryStops) ListStopsByTrip(_ context.Context, tripID string) ([]model.StopDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.StopDetail
	for _, s := range m.stops {
		if s.TripID == tripID {
			out = append(out, model.StopDetail{TripStop: s, Activities: m.activities[s.ID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

func (m *memoryStops) DeleteStopsAfter(_ context.Context, tripID string, lastDay int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, s := range m.stops {
		if s.TripID == tripID && s.DayNumber > lastDay {
			delete(m.activities, s.ID)
			delete(m.stops, key)
		}
	}
	return nil
}

type generatorFixture struct {
	cities *testutil.MockCityRepository
	trips  *testutil.MockTripRepository
	stops  *memoryStops
	gen    *Generator
}

func newFixture(t *testing.T, concurrency int) *generatorFixture {
	f := &generatorFixture{
		cities: new(testutil.MockCityRepository),
		trips:  new(testutil.MockTripRepository),
		stops:  newMemoryStops(),
	}
	f.gen = NewGenerator(f.cities, f.trips, f.stops, zaptest.NewLogger(t), 100, concurrency)
	return f
}

func (f *generatorFixture) withTrip(id string) {
	f.trips.On("GetTripByID", mock.Anything, id).Return(&model.Trip{ID: id}, nil)
}

func (f *generatorFixture) withCities(cities ...model.City) {
	f.cities.On("GetCitiesByIDs", mock.Anything, mock.Anything).Return(cities, nil)
}

var (
	rome   = testutil.City("rome", "Rome", "Italy", 41.9028, 12.4964)
	milan  = testutil.City("milan", "Milan", "Italy", 45.4642, 9.19)
	venice = testutil.City("venice", "Venice", "Italy", 45.4408, 12.3155)
)

func TestPlanDays_Distribution(t *testing.T) {
	start, err := model.ParseDate("2025-07-01")
	require.NoError(t, err)

	days := PlanDays([]model.City{rome, milan, venice}, start, 7, PaceModerate, nil, 100)
	require.Len(t, days, 7)

	perCity := map[string]int{}
	for i, d := range days {
		assert.Equal(t, i+1, d.DayNumber)
		assert.Equal(t, start.AddDays(i), d.Date)
		perCity[d.CityID]++
	}
	assert.Equal(t, map[string]int{"rome": 3, "milan": 2, "venice": 2}, perCity)

	assert.Equal(t, "rome", days[2].CityID)
	assert.Equal(t, "milan", days[3].CityID)
	assert.Equal(t, "venice", days[6].CityID)
	assert.Equal(t, "2025-07-07", days[6].Date.String())
}

func TestPlanDays_MoreCitiesThanDays(t *testing.T) {
	start, _ := model.ParseDate("2025-07-01")
	days := PlanDays([]model.City{rome, milan, venice}, start, 2, PaceModerate, nil, 100)

	require.Len(t, days, 2)
	assert.Equal(t, "rome", days[0].CityID)
	assert.Equal(t, "milan", days[1].CityID)
}

func TestGenerator_Generate(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency %d", concurrency), func(t *testing.T) {
			f := newFixture(t, concurrency)
			f.withTrip("trip-1")
			f.withCities(venice, rome, milan)

			it, err := f.gen.Generate(context.Background(), Request{
				TripID:    "trip-1",
				StartDate: "2025-07-01",
				EndDate:   "2025-07-07",
				CityIDs:   []string{"rome", "milan", "venice"},
			})
			require.NoError(t, err)

			assert.Equal(t, 7, it.TotalDays)
			require.Len(t, it.Stops, 7)
			assert.InDelta(t, 7*55.0, it.TotalBudget, 1e-9)

			stored, err := f.stops.ListStopsByTrip(context.Background(), "trip-1")
			require.NoError(t, err)
			require.Len(t, stored, 7)

			for i, day := range it.Stops {
				assert.NotEmpty(t, day.StopID)
				assert.True(t, day.Validation.IsValid)
				assert.Equal(t, stored[i].ID, day.StopID)
				assert.Equal(t, fmt.Sprintf("Day %d in %s", i+1, day.CityName), stored[i].Notes)
				assert.Len(t, stored[i].Activities, len(day.Activities))
				for _, a := range day.Activities {
					assert.Equal(t, day.StopID, a.TripStopID)
					assert.NotEmpty(t, a.ID)
				}
			}
			assert.Equal(t, "Rome", it.Stops[0].CityName)
		})
	}
}

func TestGenerator_Generate_RetryDoesNotDuplicate(t *testing.T) {
	f := newFixture(t, 2)
	f.withTrip("trip-1")
	f.withCities(rome)

	req := Request{TripID: "trip-1", StartDate: "2025-07-01", EndDate: "2025-07-03", CityIDs: []string{"rome"}}
	first, err := f.gen.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := f.gen.Generate(context.Background(), req)
	require.NoError(t, err)

	stored, _ := f.stops.ListStopsByTrip(context.Background(), "trip-1")
	assert.Len(t, stored, 3)
	for i := range first.Stops {
		assert.Equal(t, first.Stops[i].StopID, second.Stops[i].StopID)
	}
}

func TestGenerator_Generate_ShorterPlanDropsTrailingDays(t *testing.T) {
	f := newFixture(t, 2)
	f.withTrip("trip-1")
	f.withCities(rome)

	_, err := f.gen.Generate(context.Background(), Request{
		TripID: "trip-1", StartDate: "2025-07-01", EndDate: "2025-07-05", CityIDs: []string{"rome"},
	})
	require.NoError(t, err)

	it, err := f.gen.Generate(context.Background(), Request{
		TripID: "trip-1", StartDate: "2025-07-01", EndDate: "2025-07-02", CityIDs: []string{"rome"},
	})
	require.NoError(t, err)
	require.Len(t, it.Stops, 2)

	stored, _ := f.stops.ListStopsByTrip(context.Background(), "trip-1")
	require.Len(t, stored, 2)
	assert.Equal(t, 2, stored[1].DayNumber)
}

func TestGenerator_Generate_PersistenceErrorOnPrune(t *testing.T) {
	stops := new(testutil.MockStopRepository)
	trips := new(testutil.MockTripRepository)
	cities := new(testutil.MockCityRepository)
	trips.On("GetTripByID", mock.Anything, "trip-1").Return(&model.Trip{ID: "trip-1"}, nil)
	cities.On("GetCitiesByIDs", mock.Anything, mock.Anything).Return([]model.City{rome}, nil)
	stops.On("UpsertStop", mock.Anything, mock.Anything).Return(nil)
	stops.On("ReplaceActivities", mock.Anything, mock.Anything, mock.Anything).Return([]model.Activity{}, nil)
	stops.On("DeleteStopsAfter", mock.Anything, "trip-1", 1).Return(errors.New("locked"))

	gen := NewGenerator(cities, trips, stops, zaptest.NewLogger(t), 100, 1)
	it, err := gen.Generate(context.Background(), Request{
		TripID: "trip-1", StartDate: "2025-07-01", EndDate: "2025-07-01", CityIDs: []string{"rome"},
	})
	assert.Nil(t, it)
	assert.ErrorIs(t, err, model.ErrPersistence)
	stops.AssertExpectations(t)
}

func TestGenerator_Generate_PartialFailureKeepsEarlierDays(t *testing.T) {
	f := newFixture(t, 1)
	f.withTrip("trip-1")
	f.withCities(rome)
	f.stops.failOnDay = 3

	it, err := f.gen.Generate(context.Background(), Request{
		TripID: "trip-1", StartDate: "2025-07-01", EndDate: "2025-07-05", CityIDs: []string{"rome"},
	})
	assert.Nil(t, it)
	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")

	stored, _ := f.stops.ListStopsByTrip(context.Background(), "trip-1")
	require.Len(t, stored, 2)
	assert.Equal(t, 1, stored[0].DayNumber)
	assert.Equal(t, 2, stored[1].DayNumber)
}

func TestGenerator_Generate_Preferences(t *testing.T) {
	f := newFixture(t, 1)
	f.withTrip("trip-1")
	f.withCities(rome)

	budget := 40.0
	it, err := f.gen.Generate(context.Background(), Request{
		TripID: "trip-1", StartDate: "2025-07-01", EndDate: "2025-07-01", CityIDs: []string{"rome"},
		Preferences: Preferences{Pace: "packed", ActivityTypes: []model.ActivityType{model.ActivityDining}, BudgetPerDay: &budget},
	})
	require.NoError(t, err)
	require.Len(t, it.Stops, 1)
	assert.Equal(t, []string{"Lunch at Local Restaurant", "Coffee Break at Cafe"}, titles(it.Stops[0].Activities))
	assert.Equal(t, 40.0, it.TotalBudget)
}

func TestGenerator_Generate_InputErrors(t *testing.T) {
	negative := -1.0
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "unparseable start",
			req:     Request{TripID: "t", StartDate: "soon", EndDate: "2025-07-01", CityIDs: []string{"rome"}},
			wantErr: model.ErrInvalidInput,
		},
		{
			name:    "end before start",
			req:     Request{TripID: "t", StartDate: "2025-07-05", EndDate: "2025-07-01", CityIDs: []string{"rome"}},
			wantErr: model.ErrInvalidDateRange,
		},
		{
			name:    "no cities",
			req:     Request{TripID: "t", StartDate: "2025-07-01", EndDate: "2025-07-02"},
			wantErr: model.ErrEmptyCityList,
		},
		{
			name: "unknown pace",
			req: Request{TripID: "t", StartDate: "2025-07-01", EndDate: "2025-07-02", CityIDs: []string{"rome"},
				Preferences: Preferences{Pace: "sprint"}},
			wantErr: model.ErrInvalidInput,
		},
		{
			name: "negative budget",
			req: Request{TripID: "t", StartDate: "2025-07-01", EndDate: "2025-07-02", CityIDs: []string{"rome"},
				Preferences: Preferences{BudgetPerDay: &negative}},
			wantErr: model.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1)
			_, err := f.gen.Generate(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.stops.stops)
			f.trips.AssertNotCalled(t, "GetTripByID", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerator_Generate_NotFound(t *testing.T) {
	t.Run("trip", func(t *testing.T) {
		f := newFixture(t, 1)
		f.trips.On("GetTripByID", mock.Anything, "ghost").Return(nil, nil)

		_, err := f.gen.Generate(context.Background(), Request{
			TripID: "ghost", StartDate: "2025-07-01", EndDate: "2025-07-02", CityIDs: []string{"rome"},
		})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("city", func(t *testing.T) {
		f := newFixture(t, 1)
		f.withTrip("trip-1")
		f.withCities(rome)

		_, err := f.gen.Generate(context.Background(), Request{
			TripID: "trip-1", StartDate: "2025-07-01", EndDate: "2025-07-02", CityIDs: []string{"rome", "atlantis"},
		})
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Contains(t, err.Error(), "atlantis")
		assert.Empty(t, f.stops.stops)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t, 1)
		f.trips.On("GetTripByID", mock.Anything, "trip-1").Return(nil, errors.New("connection reset"))

		_, err := f.gen.Generate(context.Background(), Request{
			TripID: "trip-1", StartDate: "2025-07-01", EndDate: "2025-07-02", CityIDs: []string{"rome"},
		})
		assert.ErrorIs(t, err, model.ErrPersistence)
	})
}

func TestResolveCities_KeepsRequestOrder(t *testing.T) {
	repo := new(testutil.MockCityRepository)
	repo.On("GetCitiesByIDs", mock.Anything, []string{"venice", "rome", "venice"}).Return([]model.City{rome, venice}, nil)

	got, err := ResolveCities(context.Background(), repo, []string{"venice", "rome", "venice"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "venice", got[0].ID)
	assert.Equal(t, "rome", got[1].ID)
	assert.Equal(t, "venice", got[2].ID)
}
