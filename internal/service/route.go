package service

import (
	"context"
	"strings"

	"github.com/alexivanou/trip-planner-api/internal/itinerary"
	"github.com/alexivanou/trip-planner-api/internal/model"
	"go.uber.org/zap"
)

// OptimizeRoute orders the cities with the nearest-neighbour heuristic
func (s *Service) OptimizeRoute(ctx context.Context, cityIDs []string) (*model.RouteResult, error) {
	cities, err := s.routeCities(ctx, cityIDs)
	if err != nil {
		return nil, err
	}

	result, err := s.sequencer.Optimize(cities)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Route optimized",
		zap.Int("cities", len(cities)),
		zap.Float64("total_km", result.TotalDistance),
		zap.Float64("savings_km", result.Savings),
	)
	return result, nil
}

// GetDistanceMatrix returns the pairwise distances between the cities
func (s *Service) GetDistanceMatrix(ctx context.Context, cityIDs []string) (model.DistanceMatrix, error) {
	cities, err := s.routeCities(ctx, cityIDs)
	if err != nil {
		return nil, err
	}
	return s.sequencer.Matrix(cities)
}

// routeCities checks the id list and loads the cities in request order
func (s *Service) routeCities(ctx context.Context, cityIDs []string) ([]model.City, error) {
	if len(cityIDs) == 0 {
		return nil, model.ErrEmptyCityList
	}
	if len(cityIDs) > s.planner.MaxRouteCities {
		return nil, model.InputErrorf("at most %d cities are allowed", s.planner.MaxRouteCities)
	}

	seen := make(map[string]bool, len(cityIDs))
	for _, id := range cityIDs {
		if strings.TrimSpace(id) == "" {
			return nil, model.InputErrorf("city id must not be blank")
		}
		if seen[id] {
			return nil, model.InputErrorf("city %s is listed more than once", id)
		}
		seen[id] = true
	}

	return itinerary.ResolveCities(ctx, s.cityRepo, cityIDs)
}
