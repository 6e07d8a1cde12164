package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// --- PostgreSQL Implementation ---

type pgCityRepository struct {
	db *sqlx.DB
}

func (r *pgCityRepository) SearchCities(ctx context.Context, query string, limit int) ([]model.City, error) {
	q := `
		SELECT *
		FROM cities
		WHERE unaccent(LOWER(name)) LIKE '%' || unaccent(LOWER($1)) || '%'
		ORDER BY population DESC, name
		LIMIT $2
	`
	cities := []model.City{}
	if err := r.db.SelectContext(ctx, &cities, q, query, limit); err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *pgCityRepository) FindNearestCity(ctx context.Context, lat, lon float64) (*model.City, float64, error) {
	// Haversine via SQL
	q := `
		SELECT
			*,
			(
				6371 * 2 * asin(sqrt(
					power(sin(radians(latitude - $1) / 2), 2) +
					cos(radians($1)) * cos(radians(latitude)) *
					power(sin(radians(longitude - $2) / 2), 2)
				))
			) AS distance
		FROM cities
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY distance ASC
		LIMIT 1
	`
	type cityWithDist struct {
		model.City
		Distance float64 `db:"distance"`
	}

	var res cityWithDist
	if err := r.db.GetContext(ctx, &res, q, lat, lon); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	return &res.City, res.Distance, nil
}

func (r *pgCityRepository) GetCityByID(ctx context.Context, id string) (*model.City, error) {
	var city model.City
	if err := r.db.GetContext(ctx, &city, "SELECT * FROM cities WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

func (r *pgCityRepository) GetCitiesByIDs(ctx context.Context, ids []string) ([]model.City, error) {
	return citiesByIDs(ctx, r.db, ids)
}

func (r *pgCityRepository) BulkInsertCities(ctx context.Context, cities []model.City) error {
	// Chunking to stay under the 65535 parameter limit
	chunkSize := 2000
	for i := 0; i < len(cities); i += chunkSize {
		end := i + chunkSize
		if end > len(cities) {
			end = len(cities)
		}
		batch := cities[i:end]

		_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO cities (id, name, country, country_code, population, latitude, longitude)
		VALUES (:id, :name, :country, :country_code, :population, :latitude, :longitude)
		ON CONFLICT (id) DO NOTHING`,
			batch)
		if err != nil {
			return err
		}
	}
	return nil
}
