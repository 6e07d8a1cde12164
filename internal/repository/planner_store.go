package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// plannerStore serves trips, stops, activities and expenses on both engines.
// Queries are written with "?" and rebound for the driver.
type plannerStore struct {
	db *sqlx.DB
}

func (s *plannerStore) CreateTrip(ctx context.Context, trip *model.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO trips (id, user_id, title, description, start_date, end_date, planned_budget, created_at)
		VALUES (:id, :user_id, :title, :description, :start_date, :end_date, :planned_budget, :created_at)`,
		trip)
	return err
}

func (s *plannerStore) GetTripByID(ctx context.Context, id string) (*model.Trip, error) {
	var trip model.Trip
	if err := s.db.GetContext(ctx, &trip, s.db.Rebind("SELECT * FROM trips WHERE id = ?"), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (s *plannerStore) UpsertStop(ctx context.Context, stop *model.TripStop) error {
	q := s.db.Rebind(`
		INSERT INTO trip_stops (id, trip_id, city_id, day_number, stop_date, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (trip_id, day_number) DO UPDATE SET
			city_id = excluded.city_id,
			stop_date = excluded.stop_date,
			notes = excluded.notes
		RETURNING id
	`)
	var id string
	err := s.db.GetContext(ctx, &id, q,
		uuid.NewString(), stop.TripID, stop.CityID, stop.DayNumber, stop.StopDate, stop.Notes)
	if err != nil {
		return err
	}
	stop.ID = id
	return nil
}

// DeleteStopsAfter relies on the schema's cascades: activities go with their
// stop and linked expenses keep the trip but lose the stop.
func (s *plannerStore) DeleteStopsAfter(ctx context.Context, tripID string, lastDay int) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		"DELETE FROM trip_stops WHERE trip_id = ? AND day_number > ?"), tripID, lastDay)
	return err
}

func (s *plannerStore) ReplaceActivities(ctx context.Context, stopID string, activities []model.Activity) ([]model.Activity, error) {
	stored := make([]model.Activity, len(activities))
	for i, a := range activities {
		a.ID = uuid.NewString()
		a.TripStopID = stopID
		stored[i] = a
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM activities WHERE trip_stop_id = ?"), stopID); err != nil {
		return nil, err
	}

	if len(stored) > 0 {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO activities (id, trip_stop_id, title, activity_type, start_time, end_time, description, location, estimated_cost)
			VALUES (:id, :trip_stop_id, :title, :activity_type, :start_time, :end_time, :description, :location, :estimated_cost)`,
			stored)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *plannerStore) ListStopsByTrip(ctx context.Context, tripID string) ([]model.StopDetail, error) {
	stops := []model.StopDetail{}
	err := s.db.SelectContext(ctx, &stops, s.db.Rebind(`
		SELECT s.id, s.trip_id, s.city_id, s.day_number, s.stop_date, s.notes,
			c.name AS city_name, c.country AS city_country
		FROM trip_stops s
		JOIN cities c ON c.id = s.city_id
		WHERE s.trip_id = ?
		ORDER BY s.day_number
	`), tripID)
	if err != nil {
		return nil, err
	}

	var activities []model.Activity
	err = s.db.SelectContext(ctx, &activities, s.db.Rebind(`
		SELECT a.*
		FROM activities a
		JOIN trip_stops s ON s.id = a.trip_stop_id
		WHERE s.trip_id = ?
		ORDER BY s.day_number, a.start_time
	`), tripID)
	if err != nil {
		return nil, err
	}

	byStop := make(map[string][]model.Activity, len(stops))
	for _, a := range activities {
		byStop[a.TripStopID] = append(byStop[a.TripStopID], a)
	}
	for i := range stops {
		stops[i].Activities = byStop[stops[i].ID]
		if stops[i].Activities == nil {
			stops[i].Activities = []model.Activity{}
		}
	}
	return stops, nil
}

func (s *plannerStore) CreateExpense(ctx context.Context, expense *model.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO expenses (id, trip_id, trip_stop_id, activity_id, amount, currency, category, description, expense_date, created_at)
		VALUES (:id, :trip_id, :trip_stop_id, :activity_id, :amount, :currency, :category, :description, :expense_date, :created_at)`,
		expense)
	return err
}

func (s *plannerStore) ListExpensesByTrip(ctx context.Context, tripID string) ([]model.Expense, error) {
	expenses := []model.Expense{}
	err := s.db.SelectContext(ctx, &expenses,
		s.db.Rebind("SELECT * FROM expenses WHERE trip_id = ? ORDER BY expense_date, created_at, id"), tripID)
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *plannerStore) ListExpensesWithDay(ctx context.Context, tripID string) ([]model.DatedExpense, error) {
	expenses := []model.DatedExpense{}
	err := s.db.SelectContext(ctx, &expenses, s.db.Rebind(`
		SELECT e.*, s.day_number
		FROM expenses e
		LEFT JOIN trip_stops s ON s.id = e.trip_stop_id
		WHERE e.trip_id = ?
		ORDER BY e.expense_date, e.created_at, e.id
	`), tripID)
	if err != nil {
		return nil, err
	}
	return expenses, nil
}
