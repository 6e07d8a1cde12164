package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/alexivanou/trip-planner-api/internal/validation"
	"go.uber.org/zap"
)

// CreateTrip registers a trip so that itineraries and expenses can reference it
func (s *Service) CreateTrip(ctx context.Context, req model.CreateTripRequest) (*model.Trip, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, model.InputErrorf("user_id is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, model.InputErrorf("title is required")
	}
	start, err := model.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := model.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start.Time) {
		return nil, model.ErrInvalidDateRange
	}
	if b := req.PlannedBudget; b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0) || *b < 0) {
		return nil, model.InputErrorf("planned budget must be a non-negative number")
	}

	trip := &model.Trip{
		UserID:        req.UserID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		StartDate:     start,
		EndDate:       end,
		PlannedBudget: req.PlannedBudget,
	}
	if err := s.tripRepo.CreateTrip(ctx, trip); err != nil {
		return nil, model.PersistenceError("create trip", err)
	}

	s.logger.Info("Trip created",
		zap.String("trip_id", trip.ID),
		zap.String("user_id", trip.UserID),
		zap.Int("days", model.InclusiveDays(start, end)),
	)
	return trip, nil
}

// GetTrip retrieves a trip by id
func (s *Service) GetTrip(ctx context.Context, tripID string) (*model.Trip, error) {
	return s.requireTrip(ctx, tripID)
}

// ValidateTrip runs every advisory check over the stored trip
func (s *Service) ValidateTrip(ctx context.Context, tripID string) (*validation.TripResult, error) {
	return s.validateTripAt(ctx, tripID, time.Now())
}

func (s *Service) validateTripAt(ctx context.Context, tripID string, today time.Time) (*validation.TripResult, error) {
	trip, err := s.requireTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	stops, err := s.stopRepo.ListStopsByTrip(ctx, tripID)
	if err != nil {
		return nil, model.PersistenceError("list stops", err)
	}
	expenses, err := s.expenseRepo.ListExpensesByTrip(ctx, tripID)
	if err != nil {
		return nil, model.PersistenceError("list expenses", err)
	}

	result := validation.ValidateTripAt(*trip, stops, expenses, today)
	return &result, nil
}

func (s *Service) requireTrip(ctx context.Context, tripID string) (*model.Trip, error) {
	if strings.TrimSpace(tripID) == "" {
		return nil, model.InputErrorf("trip id is required")
	}
	trip, err := s.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, model.PersistenceError("get trip", err)
	}
	if trip == nil {
		return nil, model.NotFoundf("trip %s", tripID)
	}
	return trip, nil
}
