package service

import (
	"context"

	"github.com/alexivanou/trip-planner-api/internal/itinerary"
	"github.com/alexivanou/trip-planner-api/internal/model"
)

// ItinerarySummary is the condensed view of a stored itinerary
type ItinerarySummary struct {
	TripID          string             `json:"trip_id"`
	TotalDays       int                `json:"total_days"`
	TotalActivities int                `json:"total_activities"`
	Cities          []string           `json:"cities"`
	Stops           []model.StopDetail `json:"stops"`
}

// GenerateItinerary builds and stores a day-by-day plan for the trip
func (s *Service) GenerateItinerary(ctx context.Context, req itinerary.Request) (*itinerary.Itinerary, error) {
	return s.generator.Generate(ctx, req)
}

// GetItinerary returns the stored stops of a trip with their activities, by day
func (s *Service) GetItinerary(ctx context.Context, tripID string) ([]model.StopDetail, error) {
	if _, err := s.requireTrip(ctx, tripID); err != nil {
		return nil, err
	}

	stops, err := s.stopRepo.ListStopsByTrip(ctx, tripID)
	if err != nil {
		return nil, model.PersistenceError("list stops", err)
	}
	if len(stops) == 0 {
		return nil, model.NotFoundf("no itinerary for trip %s", tripID)
	}
	return stops, nil
}

// GetItinerarySummary counts days, activities and distinct cities of a stored itinerary
func (s *Service) GetItinerarySummary(ctx context.Context, tripID string) (*ItinerarySummary, error) {
	stops, err := s.GetItinerary(ctx, tripID)
	if err != nil {
		return nil, err
	}

	summary := &ItinerarySummary{
		TripID:    tripID,
		TotalDays: len(stops),
		Cities:    []string{},
		Stops:     stops,
	}
	seen := map[string]bool{}
	for _, stop := range stops {
		summary.TotalActivities += len(stop.Activities)
		if !seen[stop.CityName] {
			seen[stop.CityName] = true
			summary.Cities = append(summary.Cities, stop.CityName)
		}
	}
	return summary, nil
}
