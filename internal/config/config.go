package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB      DBConfig
	Server  ServerConfig
	Seeder  SeederConfig
	Planner PlannerConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// SeederConfig holds settings for city reference data import
type SeederConfig struct {
	DataDir          string
	BatchSize        int
	MinPopulation    int
	AllowedCountries []string
}

// PlannerConfig holds the knobs of the trip-planning engine
type PlannerConfig struct {
	MaxRouteCities      int
	DefaultBudgetPerDay float64
	// WriteConcurrency bounds how many itinerary days are persisted in parallel.
	WriteConcurrency int
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		// SQLite in-memory database
		if c.Name != "" && c.Name != "tripplanner" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// MigrationsSource returns the golang-migrate source URL for the configured dialect
func (c DBConfig) MigrationsSource(root string) string {
	if c.IsMemory() {
		return "file://" + root + "/sqlite"
	}
	return "file://" + root + "/postgres"
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	config := &Config{
		DB: DBConfig{
			Type:     dbType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "tripplanner"),
			Password: getEnv("DB_PASSWORD", "tripplanner_password"),
			Name:     getEnv("DB_NAME", "tripplanner"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		Seeder: SeederConfig{
			DataDir:          getEnv("SEEDER_DATA_DIR", "data"),
			BatchSize:        getEnvAsInt("SEEDER_BATCH_SIZE", 1000),
			MinPopulation:    getEnvAsInt("SEEDER_MIN_POPULATION", 100000),
			AllowedCountries: getEnvAsSlice("SEEDER_ALLOWED_COUNTRIES"),
		},
		Planner: PlannerConfig{
			MaxRouteCities:      getEnvAsInt("PLANNER_MAX_ROUTE_CITIES", 20),
			DefaultBudgetPerDay: getEnvAsFloat("PLANNER_DEFAULT_BUDGET_PER_DAY", 100),
			WriteConcurrency:    getEnvAsInt("PLANNER_WRITE_CONCURRENCY", 1),
		},
	}

	if config.Planner.WriteConcurrency < 1 {
		config.Planner.WriteConcurrency = 1
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
