package model

import "math"

// City is immutable reference data; coordinates may be missing
type City struct {
	ID          string   `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Country     string   `db:"country" json:"country"`
	CountryCode string   `db:"country_code" json:"country_code"`
	Population  int      `db:"population" json:"population"`
	Latitude    *float64 `db:"latitude" json:"latitude"`
	Longitude   *float64 `db:"longitude" json:"longitude"`
}

// Coordinate returns the city position. Missing components become NaN.
func (c City) Coordinate() Coordinate {
	coord := Coordinate{Lat: math.NaN(), Lon: math.NaN()}
	if c.Latitude != nil {
		coord.Lat = *c.Latitude
	}
	if c.Longitude != nil {
		coord.Lon = *c.Longitude
	}
	return coord
}

// Summary returns the short form of the city used in route results
func (c City) Summary() CitySummary {
	return CitySummary{ID: c.ID, Name: c.Name, Country: c.Country}
}

// Coordinate represents geographic coordinates
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CitySummary is the id/name/country triple shown in routes
type CitySummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// NearestCityResponse represents the response for nearest city search
type NearestCityResponse struct {
	City               City       `json:"city"`
	RequestCoordinates Coordinate `json:"request_coordinates"`
	DistanceKm         float64    `json:"distance_km"`
}

// SearchResponse represents the response for city search
type SearchResponse struct {
	Results []City `json:"results"`
}
