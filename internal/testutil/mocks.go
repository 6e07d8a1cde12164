// Package testutil provides repository mocks and a migrated in-memory database for tests.
package testutil

import (
	"context"

	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockCityRepository implements repository.CityRepository
type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) SearchCities(ctx context.Context, query string, limit int) ([]model.City, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.City), args.Error(1)
}

func (m *MockCityRepository) GetCityByID(ctx context.Context, id string) (*model.City, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.City), args.Error(1)
}

func (m *MockCityRepository) GetCitiesByIDs(ctx context.Context, ids []string) ([]model.City, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.City), args.Error(1)
}

func (m *MockCityRepository) FindNearestCity(ctx context.Context, lat, lon float64) (*model.City, float64, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*model.City), args.Get(1).(float64), args.Error(2)
}

func (m *MockCityRepository) BulkInsertCities(ctx context.Context, cities []model.City) error {
	args := m.Called(ctx, cities)
	return args.Error(0)
}

// MockTripRepository implements repository.TripRepository
type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) CreateTrip(ctx context.Context, trip *model.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripRepository) GetTripByID(ctx context.Context, id string) (*model.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trip), args.Error(1)
}

// MockStopRepository implements repository.StopRepository
type MockStopRepository struct {
	mock.Mock
}

func (m *MockStopRepository) UpsertStop(ctx context.Context, stop *model.TripStop) error {
	args := m.Called(ctx, stop)
	return args.Error(0)
}

func (m *MockStopRepository) ReplaceActivities(ctx context.Context, stopID string, activities []model.Activity) ([]model.Activity, error) {
	args := m.Called(ctx, stopID, activities)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Activity), args.Error(1)
}

func (m *MockStopRepository) ListStopsByTrip(ctx context.Context, tripID string) ([]model.StopDetail, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StopDetail), args.Error(1)
}

func (m *MockStopRepository) DeleteStopsAfter(ctx context.Context, tripID string, lastDay int) error {
	args := m.Called(ctx, tripID, lastDay)
	return args.Error(0)
}

// MockExpenseRepository implements repository.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) CreateExpense(ctx context.Context, expense *model.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) ListExpensesByTrip(ctx context.Context, tripID string) ([]model.Expense, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesWithDay(ctx context.Context, tripID string) ([]model.DatedExpense, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DatedExpense), args.Error(1)
}
