// Package budget compares what a trip actually spent against what was planned.
package budget

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/alexivanou/trip-planner-api/internal/repository"
	"github.com/alexivanou/trip-planner-api/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	statusThresholdPercent = 10.0
	dayOverspendRatio      = 0.5
	categoryAlertPercent   = 40.0
	projectionTolerance    = 1.1
)

// Status classifies overall drift
type Status string

const (
	StatusOver    Status = "over"
	StatusUnder   Status = "under"
	StatusOnTrack Status = "on-track"
)

// StatusFor maps a drift percentage to a status. Both bounds are exclusive.
func StatusFor(driftPercentage float64) Status {
	switch {
	case driftPercentage > statusThresholdPercent:
		return StatusOver
	case driftPercentage < -statusThresholdPercent:
		return StatusUnder
	default:
		return StatusOnTrack
	}
}

// DayBreakdown is the spend of one trip day against the per-day plan
type DayBreakdown struct {
	DayNumber    int     `json:"day_number"`
	Planned      float64 `json:"planned"`
	Actual       float64 `json:"actual"`
	Drift        float64 `json:"drift"`
	DriftPercent float64 `json:"drift_percent"`
}

// CategoryBreakdown is the spend of one category against an equal share of the plan
type CategoryBreakdown struct {
	Category   model.ExpenseCategory `json:"category"`
	Planned    float64               `json:"planned"`
	Actual     float64               `json:"actual"`
	Percentage float64               `json:"percentage"`
}

// Summary holds per-day figures
type Summary struct {
	TotalDays       int     `json:"total_days"`
	PlannedPerDay   float64 `json:"planned_per_day"`
	AvgActualPerDay float64 `json:"avg_actual_per_day"`
}

// Analysis is the drift report of a trip
type Analysis struct {
	TripID            string                  `json:"trip_id"`
	PlannedBudget     float64                 `json:"planned_budget"`
	ActualSpent       float64                 `json:"actual_spent"`
	Remaining         float64                 `json:"remaining"`
	DriftPercentage   float64                 `json:"drift_percentage"`
	Status            Status                  `json:"status"`
	DailyBreakdown    []DayBreakdown          `json:"daily_breakdown"`
	CategoryBreakdown []CategoryBreakdown     `json:"category_breakdown"`
	Alerts            []string                `json:"alerts"`
	Summary           Summary                 `json:"summary"`
	Validation        validation.BudgetResult `json:"validation"`
}

// Analyzer reads a trip and its expenses and builds the drift report
type Analyzer struct {
	trips    repository.TripRepository
	expenses repository.ExpenseRepository
	logger   *zap.Logger
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(trips repository.TripRepository, expenses repository.ExpenseRepository, logger *zap.Logger) *Analyzer {
	return &Analyzer{trips: trips, expenses: expenses, logger: logger}
}

// Analyze builds the drift report of a trip against plannedBudget
func (a *Analyzer) Analyze(ctx context.Context, tripID string, plannedBudget float64) (*Analysis, error) {
	if math.IsNaN(plannedBudget) || math.IsInf(plannedBudget, 0) || plannedBudget < 0 {
		return nil, model.InputErrorf("planned budget must be a non-negative number")
	}

	trip, err := a.trips.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, model.PersistenceError("get trip", err)
	}
	if trip == nil {
		return nil, model.NotFoundf("trip %s", tripID)
	}

	expenses, err := a.expenses.ListExpensesWithDay(ctx, tripID)
	if err != nil {
		return nil, model.PersistenceError("list expenses", err)
	}

	analysis := Compute(*trip, plannedBudget, expenses)

	a.logger.Info("Budget analysed",
		zap.String("trip_id", tripID),
		zap.Float64("planned", plannedBudget),
		zap.Float64("actual", analysis.ActualSpent),
		zap.String("status", string(analysis.Status)),
		zap.Int("alerts", len(analysis.Alerts)),
	)
	return analysis, nil
}

// Compute builds the drift report from already loaded data. Expenses not
// linked to a stop count toward day 1. Unknown categories count as other.
func Compute(trip model.Trip, plannedBudget float64, expenses []model.DatedExpense) *Analysis {
	total := decimal.Zero
	byDay := map[int]decimal.Decimal{}
	byCategory := map[model.ExpenseCategory]decimal.Decimal{}
	plain := make([]model.Expense, 0, len(expenses))

	for _, e := range expenses {
		total = total.Add(e.Amount)

		day := 1
		if e.DayNumber != nil {
			day = *e.DayNumber
		}
		byDay[day] = byDay[day].Add(e.Amount)

		cat, _ := model.ParseExpenseCategory(string(e.Category))
		byCategory[cat] = byCategory[cat].Add(e.Amount)

		plain = append(plain, e.Expense)
	}

	actual := total.InexactFloat64()
	res := &Analysis{
		TripID:        trip.ID,
		PlannedBudget: plannedBudget,
		ActualSpent:   actual,
		Remaining:     plannedBudget - actual,
		Validation:    validation.ValidateBudget(plannedBudget, plain),
	}
	if plannedBudget > 0 {
		res.DriftPercentage = (actual - plannedBudget) / plannedBudget * 100
	}
	res.Status = StatusFor(res.DriftPercentage)

	res.Summary.TotalDays = model.InclusiveDays(trip.StartDate, trip.EndDate)
	if res.Summary.TotalDays > 0 {
		res.Summary.PlannedPerDay = plannedBudget / float64(res.Summary.TotalDays)
	}

	res.DailyBreakdown = dailyBreakdown(byDay, res.Summary.PlannedPerDay)
	res.CategoryBreakdown = categoryBreakdown(byCategory, plannedBudget, actual)

	days := len(res.DailyBreakdown)
	if days == 0 {
		days = 1
	}
	res.Summary.AvgActualPerDay = actual / float64(days)

	res.Alerts = alerts(res, len(expenses))
	return res
}

func dailyBreakdown(byDay map[int]decimal.Decimal, plannedPerDay float64) []DayBreakdown {
	out := make([]DayBreakdown, 0, len(byDay))
	for day, amount := range byDay {
		actual := amount.InexactFloat64()
		d := DayBreakdown{
			DayNumber: day,
			Planned:   plannedPerDay,
			Actual:    actual,
			Drift:     actual - plannedPerDay,
		}
		if plannedPerDay > 0 {
			d.DriftPercent = d.Drift / plannedPerDay * 100
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out
}

// categoryBreakdown splits the plan equally across the fixed categories
func categoryBreakdown(byCategory map[model.ExpenseCategory]decimal.Decimal, plannedBudget, actualSpent float64) []CategoryBreakdown {
	share := plannedBudget / float64(len(model.ExpenseCategories))
	out := make([]CategoryBreakdown, 0, len(model.ExpenseCategories))
	for _, cat := range model.ExpenseCategories {
		actual := byCategory[cat].InexactFloat64()
		c := CategoryBreakdown{Category: cat, Planned: share, Actual: actual}
		if actualSpent > 0 {
			c.Percentage = actual / actualSpent * 100
		}
		out = append(out, c)
	}
	return out
}

func alerts(a *Analysis, expenseCount int) []string {
	out := []string{}

	switch a.Status {
	case StatusOver:
		out = append(out, fmt.Sprintf("OVER BUDGET by $%.2f (%.1f%%)", math.Abs(a.Remaining), math.Abs(a.DriftPercentage)))
	case StatusUnder:
		out = append(out, fmt.Sprintf("Under budget by $%.2f (%.1f%%)", a.Remaining, math.Abs(a.DriftPercentage)))
	default:
		out = append(out, "On track with budget")
	}

	for _, d := range a.DailyBreakdown {
		if d.Drift <= d.Planned*dayOverspendRatio {
			continue
		}
		if d.Planned > 0 {
			out = append(out, fmt.Sprintf("Day %d: Overspent by $%.2f (%.0f%% over daily budget)", d.DayNumber, d.Drift, d.DriftPercent))
		} else {
			out = append(out, fmt.Sprintf("Day %d: Overspent by $%.2f (no daily budget)", d.DayNumber, d.Drift))
		}
	}

	for _, c := range a.CategoryBreakdown {
		if c.Percentage > categoryAlertPercent {
			out = append(out, fmt.Sprintf("%s spending is %.0f%% of total (consider reducing)", c.Category, c.Percentage))
		}
	}

	if expenseCount > 0 && len(a.DailyBreakdown) > 0 {
		projected := a.ActualSpent / float64(len(a.DailyBreakdown)) * float64(a.Summary.TotalDays)
		if projected > a.PlannedBudget*projectionTolerance {
			out = append(out, fmt.Sprintf("Projected total: $%.2f (may exceed budget by end of trip)", projected))
		}
	}

	return out
}
