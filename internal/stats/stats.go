// Package stats reports process and storage statistics for the planner.
package stats

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/alexivanou/trip-planner-api/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Stats struct {
	Timestamp time.Time     `json:"timestamp"`
	Memory    MemoryStats   `json:"memory"`
	Database  DatabaseStats `json:"database"`
	Planner   PlannerStats  `json:"planner"`
	Runtime   RuntimeStats  `json:"runtime"`
}

type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapInuse  uint64 `json:"heap_inuse"`
}

type DatabaseStats struct {
	Type         string      `json:"type"`
	TotalRecords int64       `json:"total_records"`
	SizeBytes    int64       `json:"size_bytes"`
	TableStats   []TableStat `json:"table_stats"`
}

type TableStat struct {
	Name      string `json:"name"`
	RowCount  int64  `json:"row_count"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// PlannerStats summarises what users have planned so far
type PlannerStats struct {
	TripsWithItinerary int64           `json:"trips_with_itinerary"`
	AvgDaysPerTrip     float64         `json:"avg_days_per_trip"`
	TotalSpent         decimal.Decimal `json:"total_spent"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// Tables are the planner tables counted by Collect, in report order
var Tables = []string{"cities", "trips", "trip_stops", "activities", "expenses"}

type Collector struct {
	db         *sqlx.DB
	config     config.DBConfig
	startTime  time.Time
	cachedMem  *MemoryStats
	cacheTime  time.Time
	cacheMutex sync.RWMutex
}

var memStatsCacheDuration = 5 * time.Second

func NewCollector(db *sqlx.DB, cfg config.DBConfig) *Collector {
	return &Collector{
		db:        db,
		config:    cfg,
		startTime: time.Now(),
	}
}

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	dbStats, err := c.collectDatabaseStats(ctx)
	if err != nil {
		return nil, err
	}
	planner, err := c.collectPlannerStats(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Timestamp: time.Now(),
		Memory:    c.collectMemoryStats(),
		Database:  *dbStats,
		Planner:   *planner,
		Runtime:   c.collectRuntimeStats(),
	}, nil
}

// collectMemoryStats reads runtime memory at most once per cache window
func (c *Collector) collectMemoryStats() MemoryStats {
	c.cacheMutex.RLock()
	if c.cachedMem != nil && time.Since(c.cacheTime) < memStatsCacheDuration {
		mem := *c.cachedMem
		c.cacheMutex.RUnlock()
		return mem
	}
	c.cacheMutex.RUnlock()

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mem := MemoryStats{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
		HeapAlloc:  m.HeapAlloc,
		HeapInuse:  m.HeapInuse,
	}
	c.cachedMem = &mem
	c.cacheTime = time.Now()
	return mem
}

func (c *Collector) collectDatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	stats := &DatabaseStats{
		Type:       string(c.config.Type),
		TableStats: make([]TableStat, 0, len(Tables)),
	}

	if size, err := c.databaseSize(ctx); err == nil {
		stats.SizeBytes = size
	}

	for _, table := range Tables {
		stat, err := c.tableStat(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats.TableStats = append(stats.TableStats, *stat)
		stats.TotalRecords += stat.RowCount
	}
	return stats, nil
}

func (c *Collector) collectPlannerStats(ctx context.Context) (*PlannerStats, error) {
	var row struct {
		Trips int64   `db:"trips"`
		Days  float64 `db:"avg_days"`
	}
	err := c.db.GetContext(ctx, &row, `
		SELECT COUNT(*) AS trips, COALESCE(AVG(days), 0) AS avg_days
		FROM (SELECT trip_id, COUNT(*) AS days FROM trip_stops GROUP BY trip_id) per_trip`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise itineraries: %w", err)
	}

	var spent decimal.NullDecimal
	if err := c.db.GetContext(ctx, &spent, "SELECT SUM(amount) FROM expenses"); err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	stats := &PlannerStats{
		TripsWithItinerary: row.Trips,
		AvgDaysPerTrip:     row.Days,
		TotalSpent:         decimal.Zero,
	}
	if spent.Valid {
		stats.TotalSpent = spent.Decimal.Round(2)
	}
	return stats, nil
}

func (c *Collector) databaseSize(ctx context.Context) (int64, error) {
	var size int64
	query := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
	if c.config.Type == config.DBTypePostgreSQL {
		query = "SELECT pg_database_size(current_database())"
	}
	if err := c.db.GetContext(ctx, &size, query); err != nil {
		return 0, err
	}
	return size, nil
}

func (c *Collector) tableStat(ctx context.Context, table string) (*TableStat, error) {
	stat := &TableStat{Name: table}
	if err := c.db.GetContext(ctx, &stat.RowCount, "SELECT COUNT(*) FROM "+table); err != nil {
		return nil, err
	}

	// size is best effort; sqlite builds without dbstat report zero
	var size int64
	if c.config.Type == config.DBTypePostgreSQL {
		_ = c.db.GetContext(ctx, &size, `SELECT COALESCE(pg_total_relation_size($1::regclass), 0)`, table)
	} else {
		_ = c.db.GetContext(ctx, &size, `SELECT COALESCE(SUM(pgsize), 0) FROM dbstat WHERE name = ?`, table)
	}
	stat.SizeBytes = size
	return stat, nil
}

func (c *Collector) collectRuntimeStats() RuntimeStats {
	return RuntimeStats{
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		UptimeSeconds: int64(time.Since(c.startTime).Seconds()),
	}
}
