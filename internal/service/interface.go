package service

import (
	"context"

	"github.com/alexivanou/trip-planner-api/internal/budget"
	"github.com/alexivanou/trip-planner-api/internal/itinerary"
	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/alexivanou/trip-planner-api/internal/validation"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	SearchCities(ctx context.Context, query string, limit int) (*model.SearchResponse, error)
	GetCity(ctx context.Context, id string) (*model.City, error)
	FindNearestCity(ctx context.Context, lat, lon float64) (*model.NearestCityResponse, error)

	CreateTrip(ctx context.Context, req model.CreateTripRequest) (*model.Trip, error)
	GetTrip(ctx context.Context, tripID string) (*model.Trip, error)
	ValidateTrip(ctx context.Context, tripID string) (*validation.TripResult, error)

	OptimizeRoute(ctx context.Context, cityIDs []string) (*model.RouteResult, error)
	GetDistanceMatrix(ctx context.Context, cityIDs []string) (model.DistanceMatrix, error)

	GenerateItinerary(ctx context.Context, req itinerary.Request) (*itinerary.Itinerary, error)
	GetItinerary(ctx context.Context, tripID string) ([]model.StopDetail, error)
	GetItinerarySummary(ctx context.Context, tripID string) (*ItinerarySummary, error)

	CalculateBudgetDrift(ctx context.Context, tripID string, plannedBudget float64) (*budget.Analysis, error)
	ValidateBudget(ctx context.Context, tripID string, plannedBudget float64) (*validation.BudgetResult, error)
	ValidateExpense(req model.NewExpenseRequest) validation.Result
	AddExpense(ctx context.Context, req model.NewExpenseRequest) (*model.Expense, error)
	GetExpenses(ctx context.Context, tripID string) (*model.ExpenseList, error)
}

var _ ServiceInterface = (*Service)(nil)
