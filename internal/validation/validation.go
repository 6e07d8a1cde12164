// Package validation holds advisory checks over schedules, budgets, dates and
// expenses. Nothing here has side effects and nothing here blocks a write:
// callers decide what to do with the findings.
package validation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/shopspring/decimal"
)

const (
	maxDayHours      = 14.0
	overbookedHours  = 12.0
	packedHours      = 10.0
	earliestStart    = 7.0
	latestStart      = 22.0
	largeExpenseMult = 3.0
	largeExpenseCap  = 10000.0
	longTripDays     = 30
)

// Result is the common shape of every check
type Result struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func newResult() Result {
	return Result{Errors: []string{}, Warnings: []string{}}
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) finish() {
	r.IsValid = len(r.Errors) == 0
}

// ScheduleResult reports on one day of activities
type ScheduleResult struct {
	Result
	TotalHours    float64 `json:"total_hours"`
	ActivityCount int     `json:"activity_count"`
}

// BudgetResult reports spend against a planned budget
type BudgetResult struct {
	Result
	TotalSpent  float64 `json:"total_spent"`
	Remaining   float64 `json:"remaining"`
	PercentUsed float64 `json:"percent_used"`
}

// DatesResult reports on a trip date range
type DatesResult struct {
	Result
	DurationDays int `json:"duration_days"`
}

// DaySchedule is the schedule check of one stop inside a trip check
type DaySchedule struct {
	ScheduleResult
	DayNumber int    `json:"day_number"`
	CityName  string `json:"city_name"`
}

// TripResult aggregates every check over a trip
type TripResult struct {
	Dates    DatesResult   `json:"dates"`
	Budget   *BudgetResult `json:"budget"`
	Schedule []DaySchedule `json:"schedule"`
	Overall  Result        `json:"overall"`
}

type timedActivity struct {
	model.Activity
	start, end float64
}

// ValidateDaySchedule checks a day for inverted ranges, overbooking, overlaps
// and activities at unusual hours. Activities without both times are ignored.
// The input slice is not modified.
func ValidateDaySchedule(activities []model.Activity) ScheduleResult {
	res := ScheduleResult{Result: newResult(), ActivityCount: len(activities)}

	timed := make([]timedActivity, 0, len(activities))
	for _, a := range activities {
		if a.StartTime == "" || a.EndTime == "" {
			continue
		}
		start, errStart := parseClock(a.StartTime)
		end, errEnd := parseClock(a.EndTime)
		if errStart != nil || errEnd != nil {
			res.errorf("Invalid time format: %s (%s to %s)", a.Title, a.StartTime, a.EndTime)
			continue
		}
		timed = append(timed, timedActivity{Activity: a, start: start, end: end})

		if end < start {
			res.errorf("Invalid time range: %s (%s to %s)", a.Title, a.StartTime, a.EndTime)
			continue
		}
		res.TotalHours += end - start
	}

	switch {
	case res.TotalHours > maxDayHours:
		res.errorf("Day is severely overbooked: %.1f hours (max 14 hours recommended)", res.TotalHours)
	case res.TotalHours > overbookedHours:
		res.warnf("Day is overbooked: %.1f hours (recommended: 10-12 hours)", res.TotalHours)
	case res.TotalHours > packedHours:
		res.warnf("Day is packed: %.1f hours of activities", res.TotalHours)
	}

	sort.SliceStable(timed, func(i, j int) bool { return timed[i].start < timed[j].start })

	for i := 0; i+1 < len(timed); i++ {
		cur, next := timed[i], timed[i+1]
		switch {
		case cur.end > next.start:
			res.errorf("Time conflict: %q (ends %s) overlaps with %q (starts %s)",
				cur.Title, cur.EndTime, next.Title, next.StartTime)
		case cur.end == next.start:
			res.warnf("No break between: %q and %q (recommended: 30-60 min break)", cur.Title, next.Title)
		}
	}

	for _, a := range timed {
		if a.start < earliestStart {
			res.warnf("Early start: %q at %s (before 7 AM)", a.Title, a.StartTime)
		}
		if a.start > latestStart {
			res.warnf("Late activity: %q at %s (after 10 PM)", a.Title, a.StartTime)
		}
	}

	res.finish()
	return res
}

// ValidateBudget compares expenses against a planned total
func ValidateBudget(plannedBudget float64, expenses []model.Expense) BudgetResult {
	res := BudgetResult{Result: newResult(), Remaining: plannedBudget}
	if len(expenses) == 0 {
		res.finish()
		return res
	}

	for _, e := range expenses {
		res.TotalSpent += e.AmountFloat()
	}
	res.Remaining = plannedBudget - res.TotalSpent
	if plannedBudget > 0 {
		res.PercentUsed = res.TotalSpent / plannedBudget * 100
	}

	switch {
	case res.Remaining < 0:
		res.errorf("OVER BUDGET by $%.2f (spent: $%.2f, planned: $%.2f)",
			math.Abs(res.Remaining), res.TotalSpent, plannedBudget)
	case res.PercentUsed > 90:
		res.warnf("Budget almost exhausted: %.0f%% used (only $%.2f remaining)", res.PercentUsed, res.Remaining)
	case res.PercentUsed > 75:
		res.warnf("Budget running low: %.0f%% used ($%.2f remaining)", res.PercentUsed, res.Remaining)
	}

	avg := res.TotalSpent / float64(len(expenses))
	for _, e := range expenses {
		if e.AmountFloat() > avg*largeExpenseMult {
			label := e.Description
			if strings.TrimSpace(label) == "" {
				label = string(e.Category)
			}
			res.warnf("Large expense detected: $%s for %q (3x average expense)", e.Amount.StringFixed(2), label)
		}
	}

	res.finish()
	return res
}

// ValidateTripDates checks a date range against the current day
func ValidateTripDates(start, end string) DatesResult {
	return ValidateTripDatesAt(start, end, time.Now())
}

// ValidateTripDatesAt checks a date range as if today were the given day
func ValidateTripDatesAt(start, end string, today time.Time) DatesResult {
	res := DatesResult{Result: newResult()}

	startDate, err := model.ParseDate(start)
	if err != nil {
		res.errorf("Invalid start date")
	}
	endDate, err := model.ParseDate(end)
	if err != nil {
		res.errorf("Invalid end date")
	}
	if len(res.Errors) > 0 {
		res.finish()
		return res
	}

	return checkDates(startDate, endDate, model.NewDate(today))
}

func checkDates(start, end, today model.Date) DatesResult {
	res := DatesResult{Result: newResult()}

	if end.Before(start.Time) {
		res.errorf("End date must be after start date")
	}
	if start.Before(today.Time) {
		res.warnf("Trip start date is in the past")
	}

	res.DurationDays = model.InclusiveDays(start, end)
	switch {
	case res.DurationDays > longTripDays:
		res.warnf("Very long trip: %d days (consider splitting into multiple trips)", res.DurationDays)
	case res.DurationDays == 1:
		res.warnf("Single-day trip (consider extending for better experience)")
	}

	res.finish()
	return res
}

// ValidateExpense checks a single expense before it is recorded
func ValidateExpense(amount decimal.Decimal, category, description string) Result {
	res := newResult()

	if !amount.IsPositive() {
		res.errorf("Expense amount must be positive")
	}
	if amount.GreaterThan(decimal.NewFromFloat(largeExpenseCap)) {
		res.warnf("Very large expense: $%s (verify this is correct)", amount.StringFixed(2))
	}
	if strings.TrimSpace(category) == "" {
		res.warnf("No category specified for expense")
	}
	if strings.TrimSpace(description) == "" {
		res.warnf("No description provided for expense")
	}

	res.finish()
	return res
}

// ValidateTrip runs every check that applies to a trip and merges the findings
func ValidateTrip(trip model.Trip, stops []model.StopDetail, expenses []model.Expense) TripResult {
	return ValidateTripAt(trip, stops, expenses, time.Now())
}

// ValidateTripAt is ValidateTrip with an explicit current day
func ValidateTripAt(trip model.Trip, stops []model.StopDetail, expenses []model.Expense, today time.Time) TripResult {
	res := TripResult{
		Dates:    checkDates(trip.StartDate, trip.EndDate, model.NewDate(today)),
		Schedule: []DaySchedule{},
	}

	if trip.PlannedBudget != nil && *trip.PlannedBudget > 0 && expenses != nil {
		b := ValidateBudget(*trip.PlannedBudget, expenses)
		res.Budget = &b
	}

	for _, stop := range stops {
		if len(stop.Activities) == 0 {
			continue
		}
		res.Schedule = append(res.Schedule, DaySchedule{
			ScheduleResult: ValidateDaySchedule(stop.Activities),
			DayNumber:      stop.DayNumber,
			CityName:       stop.CityName,
		})
	}

	overall := newResult()
	overall.Errors = append(overall.Errors, res.Dates.Errors...)
	overall.Warnings = append(overall.Warnings, res.Dates.Warnings...)
	if res.Budget != nil {
		overall.Errors = append(overall.Errors, res.Budget.Errors...)
		overall.Warnings = append(overall.Warnings, res.Budget.Warnings...)
	}
	for _, s := range res.Schedule {
		overall.Errors = append(overall.Errors, s.Errors...)
		overall.Warnings = append(overall.Warnings, s.Warnings...)
	}
	overall.finish()
	res.Overall = overall

	return res
}

// parseClock converts "HH:MM" to fractional hours
func parseClock(s string) (float64, error) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m := 0
	if found {
		// tolerate "HH:MM:SS" as stored by some databases
		mm, _, _ = strings.Cut(mm, ":")
		m, err = strconv.Atoi(mm)
		if err != nil || m < 0 || m > 59 {
			return 0, fmt.Errorf("invalid minute in %q", s)
		}
	}
	return float64(h) + float64(m)/60, nil
}
