package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/alexivanou/trip-planner-api/internal/config"
	"github.com/alexivanou/trip-planner-api/internal/database"
	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// MigrationsRoot is the migrations directory as seen from a package under internal/
const MigrationsRoot = "../../migrations"

// NewTestDB returns a migrated in-memory SQLite database private to the test.
// It is closed when the test ends.
func NewTestDB(t *testing.T) (*sqlx.DB, config.DBConfig) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	cfg := config.DBConfig{Type: config.DBTypeMemory, Name: "test_" + name}

	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, cfg, MigrationsRoot))
	return db, cfg
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// City builds a city with coordinates
func City(id, name, country string, lat, lon float64) model.City {
	return model.City{
		ID:          id,
		Name:        name,
		Country:     country,
		CountryCode: strings.ToUpper(country[:2]),
		Population:  100000,
		Latitude:    Ptr(lat),
		Longitude:   Ptr(lon),
	}
}

// SeedCities inserts cities straight into the database
func SeedCities(t *testing.T, db *sqlx.DB, cities ...model.City) {
	t.Helper()
	_, err := db.NamedExec(`
		INSERT INTO cities (id, name, country, country_code, population, latitude, longitude)
		VALUES (:id, :name, :country, :country_code, :population, :latitude, :longitude)`, cities)
	require.NoError(t, err)
}
