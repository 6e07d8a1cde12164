package stats

import (
	"context"
	"testing"

	"github.com/alexivanou/trip-planner-api/internal/config"
	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/alexivanou/trip-planner-api/internal/repository"
	"github.com/alexivanou/trip-planner-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Collect(t *testing.T) {
	db, cfg := testutil.NewTestDB(t)
	ctx := context.Background()

	testutil.SeedCities(t, db, testutil.City("1", "Test City", "Testland", 10, 10))
	repos := repository.NewRepositories(db, config.DBTypeMemory)

	start, err := model.ParseDate("2025-07-01")
	require.NoError(t, err)
	trip := &model.Trip{UserID: "u", Title: "t", StartDate: start, EndDate: start.AddDays(1)}
	require.NoError(t, repos.Trip.CreateTrip(ctx, trip))
	for day := 1; day <= 2; day++ {
		stop := &model.TripStop{TripID: trip.ID, CityID: "1", DayNumber: day, StopDate: start.AddDays(day - 1)}
		require.NoError(t, repos.Stop.UpsertStop(ctx, stop))
	}
	for _, amount := range []string{"19.99", "5.10"} {
		require.NoError(t, repos.Expense.CreateExpense(ctx, &model.Expense{
			TripID: trip.ID, Amount: decimal.RequireFromString(amount), Currency: "USD",
			Category: model.CategoryFood, ExpenseDate: start,
		}))
	}

	collector := NewCollector(db, cfg)

	stats, err := collector.Collect(ctx)
	require.NoError(t, err)

	assert.Equal(t, "memory", stats.Database.Type)
	assert.Equal(t, int64(6), stats.Database.TotalRecords)

	counts := map[string]int64{}
	for _, ts := range stats.Database.TableStats {
		counts[ts.Name] = ts.RowCount
	}
	assert.Equal(t, map[string]int64{
		"cities": 1, "trips": 1, "trip_stops": 2, "activities": 0, "expenses": 2,
	}, counts)

	assert.Equal(t, int64(1), stats.Planner.TripsWithItinerary)
	assert.Equal(t, 2.0, stats.Planner.AvgDaysPerTrip)
	assert.Equal(t, "25.09", stats.Planner.TotalSpent.StringFixed(2))

	assert.Greater(t, stats.Memory.Alloc, uint64(0))
	assert.GreaterOrEqual(t, stats.Runtime.NumGoroutines, 1)

	stats2, err := collector.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Memory.Alloc, stats2.Memory.Alloc, "memory stats are cached")
}

func TestCollector_EmptyDB(t *testing.T) {
	db, cfg := testutil.NewTestDB(t)
	collector := NewCollector(db, cfg)

	stats, err := collector.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.Database.TotalRecords)
	assert.Len(t, stats.Database.TableStats, len(Tables))
	assert.Zero(t, stats.Planner.TripsWithItinerary)
	assert.True(t, stats.Planner.TotalSpent.IsZero())
}
