package seeder

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexivanou/trip-planner-api/internal/config"
	"github.com/alexivanou/trip-planner-api/internal/model"
)

const (
	countriesFile = "countryInfo.txt"
	citiesFile    = "cities1000.txt"
	citiesZip     = "cities1000.zip"
)

// GeoNames column positions in cities1000.txt
const (
	colID          = 0
	colName        = 1
	colLatitude    = 4
	colLongitude   = 5
	colCountryCode = 8
	colPopulation  = 14
	cityColumns    = 15
)

// Parser parses GeoNames data files into city reference rows
type Parser struct {
	dataDir          string
	minPopulation    int
	allowedCountries map[string]bool
}

// NewParser creates a new parser instance with config
func NewParser(dataDir string, seederCfg config.SeederConfig) *Parser {
	allowed := make(map[string]bool)
	for _, code := range seederCfg.AllowedCountries {
		allowed[strings.ToUpper(code)] = true
	}

	return &Parser{
		dataDir:          dataDir,
		minPopulation:    seederCfg.MinPopulation,
		allowedCountries: allowed,
	}
}

// HasData reports whether the city file is present in the data directory
func (p *Parser) HasData() bool {
	for _, name := range []string{citiesZip, citiesFile} {
		if _, err := os.Stat(filepath.Join(p.dataDir, name)); err == nil {
			return true
		}
	}
	return false
}

// ParseCountries reads countryInfo.txt into a code to name map
func (p *Parser) ParseCountries() (map[string]string, error) {
	file, err := os.Open(filepath.Join(p.dataDir, countriesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", countriesFile, err)
	}
	defer file.Close()

	names := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 5 {
			continue
		}
		code, name := parts[0], parts[4]
		if code != "" && name != "" {
			names[code] = name
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", countriesFile, err)
	}
	return names, nil
}

// ParseCities reads cities1000 (zip preferred over txt) and keeps cities at or
// above the minimum population in the allowed countries. Country names come
// from countries; an unknown code is used as the name.
func (p *Parser) ParseCities(countries map[string]string) ([]model.City, error) {
	zipPath := filepath.Join(p.dataDir, citiesZip)
	if _, err := os.Stat(zipPath); err == nil {
		return p.parseCitiesFromZip(zipPath, countries)
	}

	file, err := os.Open(filepath.Join(p.dataDir, citiesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", citiesFile, err)
	}
	defer file.Close()

	return p.parseCitiesFromReader(file, countries)
}

func (p *Parser) parseCitiesFromZip(zipPath string, countries map[string]string) ([]model.City, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !strings.HasSuffix(f.Name, ".txt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file in zip: %w", err)
		}
		defer rc.Close()
		return p.parseCitiesFromReader(rc, countries)
	}

	return nil, fmt.Errorf("no txt file found in zip")
}

func (p *Parser) parseCitiesFromReader(reader io.Reader, countries map[string]string) ([]model.City, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cities []model.City
	for scanner.Scan() {
		city, ok := p.parseCityLine(scanner.Text(), countries)
		if ok {
			cities = append(cities, city)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan cities: %w", err)
	}
	return cities, nil
}

func (p *Parser) parseCityLine(line string, countries map[string]string) (model.City, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < cityColumns {
		return model.City{}, false
	}
	if _, err := strconv.Atoi(parts[colID]); err != nil {
		return model.City{}, false
	}

	population, err := strconv.Atoi(parts[colPopulation])
	if err != nil || population < p.minPopulation {
		return model.City{}, false
	}

	code := parts[colCountryCode]
	if len(p.allowedCountries) > 0 && !p.allowedCountries[code] {
		return model.City{}, false
	}

	country := countries[code]
	if country == "" {
		country = code
	}

	return model.City{
		ID:          parts[colID],
		Name:        parts[colName],
		Country:     country,
		CountryCode: code,
		Population:  population,
		Latitude:    parseCoordinate(parts[colLatitude]),
		Longitude:   parseCoordinate(parts[colLongitude]),
	}, true
}

// parseCoordinate returns nil for an empty or malformed value
func parseCoordinate(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
