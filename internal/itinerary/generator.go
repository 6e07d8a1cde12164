// Package itinerary turns an ordered list of cities and a date range into a
// day-by-day plan of stops and activities and stores it.
package itinerary

import (
	"context"
	"fmt"
	"math"

	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/alexivanou/trip-planner-api/internal/repository"
	"github.com/alexivanou/trip-planner-api/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Preferences shape the synthesized days
type Preferences struct {
	Pace          string               `json:"pace_preference"`
	ActivityTypes []model.ActivityType `json:"activity_types"`
	BudgetPerDay  *float64             `json:"budget_per_day,omitempty"`
}

// Request asks for an itinerary over the given cities, in visiting order
type Request struct {
	TripID      string      `json:"trip_id"`
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	CityIDs     []string    `json:"city_ids"`
	Preferences Preferences `json:"preferences"`
}

// DayPlan is one generated day
type DayPlan struct {
	StopID           string                    `json:"stop_id"`
	DayNumber        int                       `json:"day_number"`
	Date             model.Date                `json:"date"`
	CityID           string                    `json:"city_id"`
	CityName         string                    `json:"city_name"`
	Activities       []model.Activity          `json:"activities"`
	TotalDailyBudget float64                   `json:"total_daily_budget"`
	Validation       validation.ScheduleResult `json:"validation"`
}

// Itinerary is the summary returned after generation
type Itinerary struct {
	TripID      string    `json:"trip_id"`
	Stops       []DayPlan `json:"stops"`
	TotalBudget float64   `json:"total_budget"`
	TotalDays   int       `json:"total_days"`
}

// Generator builds and persists itineraries.
// Two generations for the same trip must not run at the same time.
type Generator struct {
	cities       repository.CityRepository
	trips        repository.TripRepository
	stops        repository.StopRepository
	logger       *zap.Logger
	budgetPerDay float64
	concurrency  int
}

// NewGenerator creates a generator. concurrency bounds parallel per-day writes.
func NewGenerator(
	cities repository.CityRepository,
	trips repository.TripRepository,
	stops repository.StopRepository,
	logger *zap.Logger,
	defaultBudgetPerDay float64,
	concurrency int,
) *Generator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Generator{
		cities:       cities,
		trips:        trips,
		stops:        stops,
		logger:       logger,
		budgetPerDay: defaultBudgetPerDay,
		concurrency:  concurrency,
	}
}

// Generate allocates the trip days across the cities, synthesizes each day and
// stores one stop plus its activities per day. Writes are upserts keyed by
// trip and day, so a retry after a partial failure overwrites instead of
// duplicating. Days already written when a later day fails stay written.
// Once every day is stored, days past the new end left by an earlier, longer
// plan are removed.
func (g *Generator) Generate(ctx context.Context, req Request) (*Itinerary, error) {
	start, err := model.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := model.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start.Time) {
		return nil, model.ErrInvalidDateRange
	}
	if len(req.CityIDs) == 0 {
		return nil, model.ErrEmptyCityList
	}
	pace, err := ParsePace(req.Preferences.Pace)
	if err != nil {
		return nil, err
	}
	budgetPerDay := g.budgetPerDay
	if req.Preferences.BudgetPerDay != nil {
		budgetPerDay = *req.Preferences.BudgetPerDay
	}
	if math.IsNaN(budgetPerDay) || math.IsInf(budgetPerDay, 0) || budgetPerDay < 0 {
		return nil, model.InputErrorf("budget per day must be a non-negative number")
	}

	trip, err := g.trips.GetTripByID(ctx, req.TripID)
	if err != nil {
		return nil, model.PersistenceError("get trip", err)
	}
	if trip == nil {
		return nil, model.NotFoundf("trip %s", req.TripID)
	}

	cities, err := ResolveCities(ctx, g.cities, req.CityIDs)
	if err != nil {
		return nil, err
	}

	totalDays := model.InclusiveDays(start, end)
	days := PlanDays(cities, start, totalDays, pace, req.Preferences.ActivityTypes, budgetPerDay)

	g.logger.Info("Generating itinerary",
		zap.String("trip_id", req.TripID),
		zap.Int("days", totalDays),
		zap.Int("cities", len(cities)),
		zap.String("pace", string(pace)),
	)

	if err := g.persist(ctx, req.TripID, days); err != nil {
		return nil, err
	}

	itinerary := &Itinerary{TripID: req.TripID, Stops: days, TotalDays: totalDays}
	for _, d := range days {
		itinerary.TotalBudget += d.TotalDailyBudget
	}

	g.logger.Info("Itinerary generated",
		zap.String("trip_id", req.TripID),
		zap.Float64("total_budget", itinerary.TotalBudget),
	)
	return itinerary, nil
}

// PlanDays distributes totalDays over the cities in order and synthesizes each
// day. Every city gets totalDays/len(cities) days and the first
// totalDays%len(cities) cities get one more. Nothing is stored.
func PlanDays(cities []model.City, start model.Date, totalDays int, pace Pace, allowed []model.ActivityType, budgetPerDay float64) []DayPlan {
	if len(cities) == 0 || totalDays <= 0 {
		return []DayPlan{}
	}
	base := totalDays / len(cities)
	extra := totalDays % len(cities)

	days := make([]DayPlan, 0, totalDays)
	dayNumber := 1
	for i, city := range cities {
		n := base
		if i < extra {
			n++
		}
		for j := 0; j < n; j++ {
			activities := SynthesizeDay(city, pace, allowed, budgetPerDay)
			days = append(days, DayPlan{
				DayNumber:        dayNumber,
				Date:             start.AddDays(dayNumber - 1),
				CityID:           city.ID,
				CityName:         city.Name,
				Activities:       activities,
				TotalDailyBudget: DailyCost(activities),
				Validation:       validation.ValidateDaySchedule(activities),
			})
			dayNumber++
		}
	}
	return days
}

func (g *Generator) persist(ctx context.Context, tripID string, days []DayPlan) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for i := range days {
		day := &days[i]
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			stop := model.TripStop{
				TripID:    tripID,
				CityID:    day.CityID,
				DayNumber: day.DayNumber,
				StopDate:  day.Date,
				Notes:     stopNotes(day.DayNumber, day.CityName),
			}
			if err := g.stops.UpsertStop(egCtx, &stop); err != nil {
				g.logger.Error("Failed to store stop", zap.Int("day", day.DayNumber), zap.Error(err))
				return model.PersistenceError("store stop", err)
			}
			stored, err := g.stops.ReplaceActivities(egCtx, stop.ID, day.Activities)
			if err != nil {
				g.logger.Error("Failed to store activities", zap.Int("day", day.DayNumber), zap.Error(err))
				return model.PersistenceError("store activities", err)
			}
			day.StopID = stop.ID
			day.Activities = stored
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	// a shorter regeneration leaves earlier trailing days behind
	if err := g.stops.DeleteStopsAfter(ctx, tripID, len(days)); err != nil {
		g.logger.Error("Failed to prune stops", zap.Int("last_day", len(days)), zap.Error(err))
		return model.PersistenceError("prune stops", err)
	}
	return nil
}

// ResolveCities loads the cities and returns them in the requested order.
// Repeated ids yield repeated cities; an unknown id is ErrNotFound.
func ResolveCities(ctx context.Context, repo repository.CityRepository, ids []string) ([]model.City, error) {
	found, err := repo.GetCitiesByIDs(ctx, ids)
	if err != nil {
		return nil, model.PersistenceError("get cities", err)
	}
	byID := make(map[string]model.City, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	ordered := make([]model.City, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, model.NotFoundf("city %s", id)
		}
		ordered = append(ordered, c)
	}
	return ordered, nil
}

func stopNotes(day int, city string) string {
	return fmt.Sprintf("Day %d in %s", day, city)
}
