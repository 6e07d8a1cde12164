package geo

import (
	"math"

	"github.com/alexivanou/trip-planner-api/internal/model"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula
const EarthRadiusKm = 6371

// Distance returns the great-circle distance between a and b in kilometers.
// It fails with model.ErrInvalidCoordinate when any component is NaN.
func Distance(a, b model.Coordinate) (float64, error) {
	if math.IsNaN(a.Lat) || math.IsNaN(a.Lon) || math.IsNaN(b.Lat) || math.IsNaN(b.Lon) {
		return 0, model.ErrInvalidCoordinate
	}
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon), nil
}

// CityDistance returns the distance between two cities
func CityDistance(a, b model.City) (float64, error) {
	d, err := Distance(a.Coordinate(), b.Coordinate())
	if err != nil {
		return 0, model.InputErrorf("cannot measure %s -> %s: coordinate is missing or not a number", a.Name, b.Name)
	}
	return d, nil
}

// Haversine computes the distance without validating its inputs
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(toRad(lat1))*math.Cos(toRad(lat2))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
