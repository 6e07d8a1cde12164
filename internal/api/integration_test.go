package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexivanou/trip-planner-api/internal/budget"
	"github.com/alexivanou/trip-planner-api/internal/config"
	"github.com/alexivanou/trip-planner-api/internal/itinerary"
	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/alexivanou/trip-planner-api/internal/repository"
	"github.com/alexivanou/trip-planner-api/internal/service"
	"github.com/alexivanou/trip-planner-api/internal/stats"
	"github.com/alexivanou/trip-planner-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setupIntegrationStack(t *testing.T) http.Handler {
	db, cfg := testutil.NewTestDB(t)
	testutil.SeedCities(t, db,
		testutil.City("paris", "Paris", "France", 48.8566, 2.3522),
		testutil.City("rome", "Rome", "Italy", 41.9028, 12.4964),
		testutil.City("london", "London", "United Kingdom", 51.5074, -0.1278),
	)

	logger := zaptest.NewLogger(t)
	repos := repository.NewRepositories(db, config.DBTypeMemory)
	planner := config.PlannerConfig{MaxRouteCities: 20, DefaultBudgetPerDay: 100, WriteConcurrency: 1}
	svc := service.NewService(repos, planner, logger)

	return NewRouter(svc, stats.NewCollector(db, cfg), logger)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestAPI_Integration_Cities(t *testing.T) {
	h := setupIntegrationStack(t)

	rr := do(t, h, "GET", "/api/v1/cities?q=Par", "")
	require.Equal(t, http.StatusOK, rr.Code)
	search := decodeBody[model.SearchResponse](t, rr)
	require.Len(t, search.Results, 1)
	assert.Equal(t, "Paris", search.Results[0].Name)

	rr = do(t, h, "GET", "/api/v1/cities/nearest?lat=41.9&lon=12.5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Rome", decodeBody[model.NearestCityResponse](t, rr).City.Name)

	rr = do(t, h, "GET", "/api/v1/cities/london", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "London", decodeBody[model.City](t, rr).Name)

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/api/v1/cities/atlantis", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/health", "").Code)
}

func TestAPI_Integration_Route(t *testing.T) {
	h := setupIntegrationStack(t)

	rr := do(t, h, "POST", "/api/v1/route/optimize", `{"city_ids":["paris","rome","london"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	route := decodeBody[model.RouteResult](t, rr)
	assert.Equal(t, []string{"paris", "london", "rome"}, route.CityIDs)
	assert.Greater(t, route.Savings, 0.0)

	rr = do(t, h, "POST", "/api/v1/route/distance-matrix", `{"city_ids":["paris","london"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	matrix := decodeBody[struct {
		Matrix model.DistanceMatrix `json:"matrix"`
	}](t, rr)
	assert.InDelta(t, 343.56, matrix.Matrix["paris"]["london"], 0.01)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/api/v1/route/optimize", `{"city_ids":[]}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "POST", "/api/v1/route/optimize", `{"city_ids":["paris","atlantis"]}`).Code)
}

func TestAPI_Integration_TripLifecycle(t *testing.T) {
	h := setupIntegrationStack(t)

	rr := do(t, h, "POST", "/api/v1/trips",
		`{"user_id":"u1","title":"Europe","start_date":"2025-07-01","end_date":"2025-07-04","planned_budget":400}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	trip := decodeBody[model.Trip](t, rr)
	require.NotEmpty(t, trip.ID)

	rr = do(t, h, "GET", "/api/v1/trips/"+trip.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/api/v1/itinerary/"+trip.ID, "").Code)

	rr = do(t, h, "POST", "/api/v1/itinerary/generate",
		`{"trip_id":"`+trip.ID+`","start_date":"2025-07-01","end_date":"2025-07-04","city_ids":["paris","london"],"preferences":{"pace_preference":"relaxed"}}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	generated := decodeBody[itinerary.Itinerary](t, rr)
	assert.Equal(t, 4, generated.TotalDays)
	assert.Equal(t, 220.0, generated.TotalBudget)

	rr = do(t, h, "GET", "/api/v1/itinerary/"+trip.ID+"/summary", "")
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decodeBody[service.ItinerarySummary](t, rr)
	assert.Equal(t, 4, summary.TotalDays)
	assert.Equal(t, 8, summary.TotalActivities)
	assert.Equal(t, []string{"Paris", "London"}, summary.Cities)

	firstStop := summary.Stops[0].ID
	rr = do(t, h, "POST", "/api/v1/budget/expense",
		`{"trip_id":"`+trip.ID+`","trip_stop_id":"`+firstStop+`","category":"food","amount":"300","description":"Tasting menu","expense_date":"2025-07-01"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, "POST", "/api/v1/budget/expense",
		`{"trip_id":"`+trip.ID+`","category":"food","amount":-5,"description":"refund","expense_date":"2025-07-01"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "validation_errors")

	rr = do(t, h, "GET", "/api/v1/budget/"+trip.ID+"/expenses", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decodeBody[model.ExpenseList](t, rr)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "300.00", list.Total.StringFixed(2))

	rr = do(t, h, "GET", "/api/v1/budget/"+trip.ID+"?planned=400", "")
	require.Equal(t, http.StatusOK, rr.Code)
	analysis := decodeBody[budget.Analysis](t, rr)
	assert.Equal(t, budget.StatusUnder, analysis.Status)
	require.Len(t, analysis.DailyBreakdown, 1)
	assert.Equal(t, 1, analysis.DailyBreakdown[0].DayNumber)

	rr = do(t, h, "GET", "/api/v1/budget/"+trip.ID+"/validate?planned=250", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "OVER BUDGET by $50.00")

	rr = do(t, h, "GET", "/api/v1/trips/"+trip.ID+"/validate", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, "GET", "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	snapshot := decodeBody[stats.Stats](t, rr)
	assert.Equal(t, int64(1), snapshot.Planner.TripsWithItinerary)
	assert.Equal(t, 4.0, snapshot.Planner.AvgDaysPerTrip)
}
