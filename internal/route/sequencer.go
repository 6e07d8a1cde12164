// Package route orders the cities of a trip so that the total travel distance
// stays low. It uses the greedy nearest-neighbour construction and makes no
// claim of optimality.
package route

import (
	"github.com/alexivanou/trip-planner-api/internal/geo"
	"github.com/alexivanou/trip-planner-api/internal/model"
)

// DistanceFunc measures the distance between two cities in kilometers
type DistanceFunc func(a, b model.City) (float64, error)

// Sequencer builds city routes
type Sequencer struct {
	distance DistanceFunc
}

// NewSequencer creates a sequencer. A nil distance function falls back to haversine.
func NewSequencer(distance DistanceFunc) *Sequencer {
	if distance == nil {
		distance = geo.CityDistance
	}
	return &Sequencer{distance: distance}
}

// Optimize orders cities by repeatedly moving to the nearest unvisited city,
// starting from the first one. Ties go to the city that comes first in the input.
func (s *Sequencer) Optimize(cities []model.City) (*model.RouteResult, error) {
	switch len(cities) {
	case 0, 1:
		return newResult(cities, 0, 0), nil
	case 2:
		d, err := s.distance(cities[0], cities[1])
		if err != nil {
			return nil, err
		}
		return newResult(cities, d, d), nil
	}

	originalDistance := 0.0
	for i := 0; i < len(cities)-1; i++ {
		d, err := s.distance(cities[i], cities[i+1])
		if err != nil {
			return nil, err
		}
		originalDistance += d
	}

	visited := make([]bool, len(cities))
	ordered := make([]model.City, 0, len(cities))

	current := 0
	visited[current] = true
	ordered = append(ordered, cities[current])
	totalDistance := 0.0

	for len(ordered) < len(cities) {
		nearest := -1
		minDist := 0.0

		for j := range cities {
			if visited[j] {
				continue
			}
			d, err := s.distance(cities[current], cities[j])
			if err != nil {
				return nil, err
			}
			if nearest < 0 || d < minDist {
				nearest = j
				minDist = d
			}
		}

		visited[nearest] = true
		ordered = append(ordered, cities[nearest])
		totalDistance += minDist
		current = nearest
	}

	result := newResult(ordered, totalDistance, originalDistance)
	result.Savings = originalDistance - totalDistance
	if originalDistance > 0 {
		result.SavingsPercent = result.Savings / originalDistance * 100
	}
	return result, nil
}

// Matrix returns the pairwise distances between cities. The diagonal is zero
// and each pair is measured once, so the matrix is symmetric.
func (s *Sequencer) Matrix(cities []model.City) (model.DistanceMatrix, error) {
	matrix := make(model.DistanceMatrix, len(cities))
	for _, c := range cities {
		matrix[c.ID] = map[string]float64{c.ID: 0}
	}

	for i := range cities {
		for j := i + 1; j < len(cities); j++ {
			a, b := cities[i], cities[j]
			if a.ID == b.ID {
				continue
			}
			d, err := s.distance(a, b)
			if err != nil {
				return nil, err
			}
			matrix[a.ID][b.ID] = d
			matrix[b.ID][a.ID] = d
		}
	}
	return matrix, nil
}

func newResult(cities []model.City, total, original float64) *model.RouteResult {
	result := &model.RouteResult{
		CityIDs:          make([]string, 0, len(cities)),
		Cities:           make([]model.CitySummary, 0, len(cities)),
		TotalDistance:    total,
		OriginalDistance: original,
	}
	for _, c := range cities {
		result.CityIDs = append(result.CityIDs, c.ID)
		result.Cities = append(result.Cities, c.Summary())
	}
	return result
}
