package model

// RouteResult is a sequenced list of cities with distance bookkeeping in kilometers
type RouteResult struct {
	CityIDs          []string      `json:"city_ids"`
	Cities           []CitySummary `json:"cities"`
	TotalDistance    float64       `json:"total_distance"`
	OriginalDistance float64       `json:"original_distance"`
	Savings          float64       `json:"savings"`
	SavingsPercent   float64       `json:"savings_percent"`
}

// DistanceMatrix maps city id -> city id -> kilometers
type DistanceMatrix map[string]map[string]float64

// CityIDsRequest carries the city ids of a route request
type CityIDsRequest struct {
	CityIDs []string `json:"city_ids"`
}
