// Package seeder imports GeoNames city reference data.
package seeder

import (
	"context"
	"fmt"

	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/alexivanou/trip-planner-api/internal/repository"
	"go.uber.org/zap"
)

// Import parses the data files and inserts the cities in batches of batchSize.
// Cities already present are left untouched. It returns the number of parsed cities.
func Import(ctx context.Context, parser *Parser, cities repository.CityRepository, batchSize int, logger *zap.Logger) (int, error) {
	logger.Info("Parsing countries...")
	countries, err := parser.ParseCountries()
	if err != nil {
		// names fall back to codes
		logger.Warn("Country names unavailable", zap.Error(err))
		countries = map[string]string{}
	}

	logger.Info("Parsing cities...")
	parsed, err := parser.ParseCities(countries)
	if err != nil {
		return 0, fmt.Errorf("failed to parse cities: %w", err)
	}

	logger.Info("Inserting cities...", zap.Int("cities", len(parsed)))
	for _, batch := range batches(parsed, batchSize) {
		if err := cities.BulkInsertCities(ctx, batch); err != nil {
			return 0, fmt.Errorf("failed to insert cities: %w", err)
		}
	}
	return len(parsed), nil
}

func batches(cities []model.City, size int) [][]model.City {
	if size <= 0 {
		size = len(cities)
	}
	var out [][]model.City
	for start := 0; start < len(cities); start += size {
		end := min(start+size, len(cities))
		out = append(out, cities[start:end])
	}
	return out
}
