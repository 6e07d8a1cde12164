package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/alexivanou/trip-planner-api/internal/geo"
	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/jmoiron/sqlx"
)

type sqliteCityRepository struct {
	db *sqlx.DB
}

func (r *sqliteCityRepository) SearchCities(ctx context.Context, query string, limit int) ([]model.City, error) {
	q := `
		SELECT *
		FROM cities
		WHERE LOWER(name) LIKE '%' || LOWER(?) || '%'
		ORDER BY population DESC, name
		LIMIT ?
	`
	cities := []model.City{}
	if err := r.db.SelectContext(ctx, &cities, q, query, limit); err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *sqliteCityRepository) FindNearestCity(ctx context.Context, lat, lon float64) (*model.City, float64, error) {
	delta := 2.0
	q := `
		SELECT * FROM cities
		WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?
	`
	var candidates []model.City
	err := r.db.SelectContext(ctx, &candidates, q, lat-delta, lat+delta, lon-delta, lon+delta)
	if err != nil {
		return nil, 0, err
	}

	if len(candidates) == 0 {
		q = "SELECT * FROM cities WHERE latitude IS NOT NULL AND longitude IS NOT NULL"
		if err := r.db.SelectContext(ctx, &candidates, q); err != nil {
			return nil, 0, err
		}
	}

	var nearest *model.City
	minDist := math.MaxFloat64
	origin := model.Coordinate{Lat: lat, Lon: lon}

	for i := range candidates {
		dist, err := geo.Distance(origin, candidates[i].Coordinate())
		if err != nil {
			continue
		}
		if dist < minDist {
			minDist = dist
			nearest = &candidates[i]
		}
	}

	if nearest == nil {
		return nil, 0, nil
	}
	return nearest, minDist, nil
}

func (r *sqliteCityRepository) GetCityByID(ctx context.Context, id string) (*model.City, error) {
	var city model.City
	if err := r.db.GetContext(ctx, &city, "SELECT * FROM cities WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

func (r *sqliteCityRepository) GetCitiesByIDs(ctx context.Context, ids []string) ([]model.City, error) {
	return citiesByIDs(ctx, r.db, ids)
}

func (r *sqliteCityRepository) BulkInsertCities(ctx context.Context, cities []model.City) error {
	// 100 rows * 7 params stays well under the SQLite variable limit
	chunkSize := 100
	for i := 0; i < len(cities); i += chunkSize {
		end := i + chunkSize
		if end > len(cities) {
			end = len(cities)
		}
		batch := cities[i:end]

		_, err := r.db.NamedExecContext(ctx, `
		INSERT OR IGNORE INTO cities (id, name, country, country_code, population, latitude, longitude)
		VALUES (:id, :name, :country, :country_code, :population, :latitude, :longitude)`,
			batch)
		if err != nil {
			return err
		}
	}
	return nil
}

// citiesByIDs expands the id list with sqlx.In so it works on either driver
func citiesByIDs(ctx context.Context, db *sqlx.DB, ids []string) ([]model.City, error) {
	cities := []model.City{}
	if len(ids) == 0 {
		return cities, nil
	}
	q, args, err := sqlx.In("SELECT * FROM cities WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	if err := db.SelectContext(ctx, &cities, db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return cities, nil
}
