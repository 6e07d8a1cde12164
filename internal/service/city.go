package service

import (
	"context"
	"strings"

	"github.com/alexivanou/trip-planner-api/internal/model"
)

const (
	defaultLimit   = 10
	maxLimit       = 100
	minQueryLength = 2
)

// SearchCities finds cities whose name contains the query, most populous first
func (s *Service) SearchCities(ctx context.Context, query string, limit int) (*model.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return nil, model.InputErrorf("query must be at least %d characters", minQueryLength)
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	results, err := s.cityRepo.SearchCities(ctx, query, limit)
	if err != nil {
		return nil, model.PersistenceError("search cities", err)
	}
	return &model.SearchResponse{Results: results}, nil
}

// GetCity retrieves a city by id
func (s *Service) GetCity(ctx context.Context, id string) (*model.City, error) {
	city, err := s.cityRepo.GetCityByID(ctx, id)
	if err != nil {
		return nil, model.PersistenceError("get city", err)
	}
	if city == nil {
		return nil, model.NotFoundf("city %s", id)
	}
	return city, nil
}

// FindNearestCity finds the closest city to the given coordinates
func (s *Service) FindNearestCity(ctx context.Context, lat, lon float64) (*model.NearestCityResponse, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, model.InputErrorf("coordinates out of range")
	}

	city, dist, err := s.cityRepo.FindNearestCity(ctx, lat, lon)
	if err != nil {
		return nil, model.PersistenceError("find nearest city", err)
	}
	if city == nil {
		return nil, model.NotFoundf("no cities with coordinates")
	}

	return &model.NearestCityResponse{
		City:               *city,
		RequestCoordinates: model.Coordinate{Lat: lat, Lon: lon},
		DistanceKm:         dist,
	}, nil
}
