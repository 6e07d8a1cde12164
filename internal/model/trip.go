package model

import "time"

// Trip is owned by a user and created outside the planning engine
type Trip struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	StartDate     Date      `db:"start_date" json:"start_date"`
	EndDate       Date      `db:"end_date" json:"end_date"`
	PlannedBudget *float64  `db:"planned_budget" json:"planned_budget,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CreateTripRequest is the payload for registering a trip
type CreateTripRequest struct {
	UserID        string   `json:"user_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	PlannedBudget *float64 `json:"planned_budget,omitempty"`
}

// TripStop is one day of a trip spent in one city.
// Within a trip DayNumber runs 1..N with no gaps.
type TripStop struct {
	ID        string `db:"id" json:"id"`
	TripID    string `db:"trip_id" json:"trip_id"`
	CityID    string `db:"city_id" json:"city_id"`
	DayNumber int    `db:"day_number" json:"day_number"`
	StopDate  Date   `db:"stop_date" json:"stop_date"`
	Notes     string `db:"notes" json:"notes"`
}

// StopDetail is a stored stop joined with its city and activities
type StopDetail struct {
	TripStop
	CityName    string     `db:"city_name" json:"city_name"`
	CityCountry string     `db:"city_country" json:"city_country"`
	Activities  []Activity `db:"-" json:"activities"`
}

// Activity is a scheduled slot within a stop. Times are local "HH:MM".
type Activity struct {
	ID            string       `db:"id" json:"id,omitempty"`
	TripStopID    string       `db:"trip_stop_id" json:"trip_stop_id,omitempty"`
	Title         string       `db:"title" json:"title"`
	ActivityType  ActivityType `db:"activity_type" json:"activity_type"`
	StartTime     string       `db:"start_time" json:"start_time"`
	EndTime       string       `db:"end_time" json:"end_time"`
	Description   string       `db:"description" json:"description"`
	Location      string       `db:"location" json:"location"`
	EstimatedCost float64      `db:"estimated_cost" json:"estimated_cost"`
}

// ActivityType classifies an activity
type ActivityType string

const (
	ActivitySightseeing    ActivityType = "sightseeing"
	ActivityDining         ActivityType = "dining"
	ActivityShopping       ActivityType = "shopping"
	ActivityEntertainment  ActivityType = "entertainment"
	ActivityTransportation ActivityType = "transportation"
	ActivityAccommodation  ActivityType = "accommodation"
	ActivityOther          ActivityType = "other"
)

// ActivityTypes lists every known activity type
var ActivityTypes = []ActivityType{
	ActivitySightseeing, ActivityDining, ActivityShopping, ActivityEntertainment,
	ActivityTransportation, ActivityAccommodation, ActivityOther,
}

// ParseActivityType maps unknown values to ActivityOther and reports false.
func ParseActivityType(s string) (ActivityType, bool) {
	for _, t := range ActivityTypes {
		if string(t) == s {
			return t, true
		}
	}
	return ActivityOther, false
}
