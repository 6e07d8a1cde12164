package service

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/alexivanou/trip-planner-api/internal/budget"
	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/alexivanou/trip-planner-api/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultCurrency = "USD"

// CalculateBudgetDrift compares recorded spending against the planned budget
func (s *Service) CalculateBudgetDrift(ctx context.Context, tripID string, plannedBudget float64) (*budget.Analysis, error) {
	return s.analyzer.Analyze(ctx, tripID, plannedBudget)
}

// ValidateBudget is the quick budget check without the per-day and per-category report
func (s *Service) ValidateBudget(ctx context.Context, tripID string, plannedBudget float64) (*validation.BudgetResult, error) {
	if math.IsNaN(plannedBudget) || math.IsInf(plannedBudget, 0) || plannedBudget < 0 {
		return nil, model.InputErrorf("planned budget must be a non-negative number")
	}
	if _, err := s.requireTrip(ctx, tripID); err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.ListExpensesByTrip(ctx, tripID)
	if err != nil {
		return nil, model.PersistenceError("list expenses", err)
	}

	result := validation.ValidateBudget(plannedBudget, expenses)
	return &result, nil
}

// ValidateExpense checks an expense payload without storing it
func (s *Service) ValidateExpense(req model.NewExpenseRequest) validation.Result {
	return validation.ValidateExpense(req.Amount, req.Category, req.Description)
}

// AddExpense records an expense. The amount is kept at two decimal places.
// An empty category is stored as other; an unknown one is rejected.
func (s *Service) AddExpense(ctx context.Context, req model.NewExpenseRequest) (*model.Expense, error) {
	if !req.Amount.IsPositive() {
		return nil, model.InputErrorf("amount must be greater than zero")
	}

	category := model.CategoryOther
	if c := strings.TrimSpace(req.Category); c != "" {
		parsed, ok := model.ParseExpenseCategory(c)
		if !ok {
			return nil, model.InputErrorf("unknown expense category %q", c)
		}
		category = parsed
	}

	date, err := model.ParseDate(req.ExpenseDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireTrip(ctx, req.TripID); err != nil {
		return nil, err
	}

	if req.TripStopID != nil || req.ActivityID != nil {
		stops, err := s.stopRepo.ListStopsByTrip(ctx, req.TripID)
		if err != nil {
			return nil, model.PersistenceError("list stops", err)
		}
		if err := checkExpenseLinks(stops, req); err != nil {
			return nil, err
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	expense := &model.Expense{
		TripID:      req.TripID,
		TripStopID:  req.TripStopID,
		ActivityID:  req.ActivityID,
		Amount:      req.Amount.Round(2),
		Currency:    currency,
		Category:    category,
		Description: strings.TrimSpace(req.Description),
		ExpenseDate: date,
	}
	if err := s.expenseRepo.CreateExpense(ctx, expense); err != nil {
		return nil, model.PersistenceError("create expense", err)
	}

	s.logger.Info("Expense recorded",
		zap.String("trip_id", expense.TripID),
		zap.String("category", string(expense.Category)),
		zap.String("amount", expense.Amount.StringFixed(2)),
	)
	return expense, nil
}

// checkExpenseLinks requires a linked stop to belong to the trip and a linked
// activity to belong to the linked stop, or to any stop of the trip.
func checkExpenseLinks(stops []model.StopDetail, req model.NewExpenseRequest) error {
	if req.TripStopID != nil {
		idx := slices.IndexFunc(stops, func(st model.StopDetail) bool { return st.ID == *req.TripStopID })
		if idx < 0 {
			return model.InputErrorf("stop %s does not belong to trip %s", *req.TripStopID, req.TripID)
		}
		stops = stops[idx : idx+1]
	}
	if req.ActivityID == nil {
		return nil
	}
	for _, st := range stops {
		if slices.ContainsFunc(st.Activities, func(a model.Activity) bool { return a.ID == *req.ActivityID }) {
			return nil
		}
	}
	if req.TripStopID != nil {
		return model.InputErrorf("activity %s does not belong to stop %s", *req.ActivityID, *req.TripStopID)
	}
	return model.InputErrorf("activity %s does not belong to trip %s", *req.ActivityID, req.TripID)
}

// GetExpenses lists the expenses of a trip ordered by date, with their total
func (s *Service) GetExpenses(ctx context.Context, tripID string) (*model.ExpenseList, error) {
	if _, err := s.requireTrip(ctx, tripID); err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.ListExpensesByTrip(ctx, tripID)
	if err != nil {
		return nil, model.PersistenceError("list expenses", err)
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	return &model.ExpenseList{Expenses: expenses, Total: total, Count: len(expenses)}, nil
}
