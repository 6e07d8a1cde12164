package repository

import (
	"context"

	"github.com/alexivanou/trip-planner-api/internal/config"
	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// CityRepository defines read access to city reference data plus bulk loading for the seeder
type CityRepository interface {
	SearchCities(ctx context.Context, query string, limit int) ([]model.City, error)
	GetCityByID(ctx context.Context, id string) (*model.City, error)
	// GetCitiesByIDs returns the cities that exist, in no particular order
	GetCitiesByIDs(ctx context.Context, ids []string) ([]model.City, error)
	FindNearestCity(ctx context.Context, lat, lon float64) (*model.City, float64, error)
	BulkInsertCities(ctx context.Context, cities []model.City) error
}

// TripRepository defines operations for trips
type TripRepository interface {
	CreateTrip(ctx context.Context, trip *model.Trip) error
	// GetTripByID returns nil, nil when the trip does not exist
	GetTripByID(ctx context.Context, id string) (*model.Trip, error)
}

// StopRepository defines operations for trip stops and their activities
type StopRepository interface {
	// UpsertStop writes the stop keyed by (trip_id, day_number) and sets stop.ID
	UpsertStop(ctx context.Context, stop *model.TripStop) error
	// ReplaceActivities swaps the stop's activities for the given ones in one transaction
	ReplaceActivities(ctx context.Context, stopID string, activities []model.Activity) ([]model.Activity, error)
	// ListStopsByTrip returns stops ordered by day with city and activities attached
	ListStopsByTrip(ctx context.Context, tripID string) ([]model.StopDetail, error)
	// DeleteStopsAfter removes the trip's stops with day_number > lastDay
	DeleteStopsAfter(ctx context.Context, tripID string, lastDay int) error
}

// ExpenseRepository defines operations for expenses
type ExpenseRepository interface {
	CreateExpense(ctx context.Context, expense *model.Expense) error
	// ListExpensesByTrip returns expenses ordered by expense date
	ListExpensesByTrip(ctx context.Context, tripID string) ([]model.Expense, error)
	// ListExpensesWithDay joins each expense with the day number of its linked stop
	ListExpensesWithDay(ctx context.Context, tripID string) ([]model.DatedExpense, error)
}

// Container holds all repositories
type Container struct {
	City    CityRepository
	Trip    TripRepository
	Stop    StopRepository
	Expense ExpenseRepository
}

// NewRepositories creates repository implementations based on DB type.
// Only city lookups differ between engines; the planner tables share one
// implementation that rebinds placeholders for the driver.
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	planner := &plannerStore{db: db}

	c := &Container{Trip: planner, Stop: planner, Expense: planner}
	if dbType == config.DBTypePostgreSQL {
		c.City = &pgCityRepository{db: db}
	} else {
		c.City = &sqliteCityRepository{db: db}
	}
	return c
}

// IsDatabaseEmpty reports whether no city reference data is loaded
func IsDatabaseEmpty(ctx context.Context, db *sqlx.DB) (bool, error) {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM cities"); err != nil {
		// missing table counts as empty
		return true, nil
	}
	return count == 0, nil
}
