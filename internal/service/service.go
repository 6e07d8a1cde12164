package service

import (
	"github.com/alexivanou/trip-planner-api/internal/budget"
	"github.com/alexivanou/trip-planner-api/internal/config"
	"github.com/alexivanou/trip-planner-api/internal/itinerary"
	"github.com/alexivanou/trip-planner-api/internal/repository"
	"github.com/alexivanou/trip-planner-api/internal/route"
	"go.uber.org/zap"
)

// Service provides the planning operations behind the API.
// Every method returns either a result or an error, never both.
type Service struct {
	cityRepo    repository.CityRepository
	tripRepo    repository.TripRepository
	stopRepo    repository.StopRepository
	expenseRepo repository.ExpenseRepository

	sequencer *route.Sequencer
	generator *itinerary.Generator
	analyzer  *budget.Analyzer

	planner config.PlannerConfig
	logger  *zap.Logger
}

// NewService creates a new service instance
func NewService(repos *repository.Container, planner config.PlannerConfig, logger *zap.Logger) *Service {
	if planner.MaxRouteCities <= 0 {
		planner.MaxRouteCities = 20
	}
	return &Service{
		cityRepo:    repos.City,
		tripRepo:    repos.Trip,
		stopRepo:    repos.Stop,
		expenseRepo: repos.Expense,
		sequencer:   route.NewSequencer(nil),
		generator: itinerary.NewGenerator(
			repos.City, repos.Trip, repos.Stop, logger,
			planner.DefaultBudgetPerDay, planner.WriteConcurrency,
		),
		analyzer: budget.NewAnalyzer(repos.Trip, repos.Expense, logger),
		planner:  planner,
		logger:   logger,
	}
}
