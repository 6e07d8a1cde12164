package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spend recorded against a trip, optionally tied to a stop or activity
type Expense struct {
	ID          string          `db:"id" json:"id"`
	TripID      string          `db:"trip_id" json:"trip_id"`
	TripStopID  *string         `db:"trip_stop_id" json:"trip_stop_id,omitempty"`
	ActivityID  *string         `db:"activity_id" json:"activity_id,omitempty"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Currency    string          `db:"currency" json:"currency"`
	Category    ExpenseCategory `db:"category" json:"category"`
	Description string          `db:"description" json:"description"`
	ExpenseDate Date            `db:"expense_date" json:"expense_date"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// AmountFloat returns the amount for arithmetic in the analyzers
func (e Expense) AmountFloat() float64 {
	return e.Amount.InexactFloat64()
}

// DatedExpense is an expense joined with the day number of its linked stop, if any
type DatedExpense struct {
	Expense
	DayNumber *int `db:"day_number" json:"day_number,omitempty"`
}

// NewExpenseRequest is the payload for recording an expense
type NewExpenseRequest struct {
	TripID      string          `json:"trip_id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	ExpenseDate string          `json:"expense_date"`
	TripStopID  *string         `json:"trip_stop_id,omitempty"`
	ActivityID  *string         `json:"activity_id,omitempty"`
}

// ExpenseList is the expenses of a trip with their running total
type ExpenseList struct {
	Expenses []Expense       `json:"expenses"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// ExpenseCategory classifies an expense
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "food"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryAccommodation ExpenseCategory = "accommodation"
	CategoryActivities    ExpenseCategory = "activities"
	CategoryShopping      ExpenseCategory = "shopping"
	CategoryOther         ExpenseCategory = "other"
)

// ExpenseCategories is the fixed category order used by budget breakdowns
var ExpenseCategories = []ExpenseCategory{
	CategoryFood, CategoryTransport, CategoryAccommodation,
	CategoryActivities, CategoryShopping, CategoryOther,
}

// ParseExpenseCategory maps unknown values to CategoryOther and reports false.
func ParseExpenseCategory(s string) (ExpenseCategory, bool) {
	for _, c := range ExpenseCategories {
		if string(c) == s {
			return c, true
		}
	}
	return CategoryOther, false
}
