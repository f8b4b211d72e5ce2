package db

import (
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/secondkeith/vitalog/internal/errors"
	"github.com/secondkeith/vitalog/internal/health"
)

// newULID generates a new ULID string for a meal or workout row.
func newULID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// InsertDay stores a day record with its meal and workout rows in one
// transaction. Returns DUPLICATE_DATE when the date is already present
// and BAD_DATE when the date is not YYYY-MM-DD.
func InsertDay(db *sql.DB, d health.DayRecord) error {
	if !health.ValidDate(d.Date) {
		return errors.NewBadDate(d.Date)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if err := insertDayTx(tx, d); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// insertDayTx writes the day row and its meal and workout rows within
// the caller's transaction. The caller validates the date and commits.
func insertDayTx(tx *sql.Tx, d health.DayRecord) error {
	_, err := tx.Exec(`
		INSERT INTO days (
			date, weight, calories, protein, fat, carbs,
			steps, calories_burned, resting_hr, active_minutes, sleep_minutes,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.Date, toNullFloat(d.Weight), d.Calories, d.Protein, d.Fat, d.Carbs,
		toNullInt(d.Steps), toNullFloat(d.CaloriesBurned), toNullFloat(d.RestingHR),
		toNullInt(d.ActiveMinutes), toNullInt(d.SleepMinutes),
		time.Now().Unix(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewDuplicateDate(d.Date)
		}
		return errors.NewInternal(err)
	}

	for i, m := range d.Meals {
		_, err = tx.Exec(`
			INSERT INTO meals (id, day_date, position, time_label, name, calories, protein, fat, carbs)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, newULID(), d.Date, i, m.Time, m.Name, m.Calories, m.Protein, m.Fat, m.Carbs)
		if err != nil {
			return errors.NewInternal(err)
		}
	}

	for i, w := range d.Workouts {
		_, err = tx.Exec(`
			INSERT INTO workouts (id, day_date, position, name, weight, sets, reps)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, newULID(), d.Date, i, w.Name, w.Weight, w.Sets, w.Reps.Display())
		if err != nil {
			return errors.NewInternal(err)
		}
	}

	return nil
}

// ReplaceDay deletes any existing record for the date and inserts the
// new one in its place, in one transaction.
func ReplaceDay(db *sql.DB, d health.DayRecord) error {
	if !health.ValidDate(d.Date) {
		return errors.NewBadDate(d.Date)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if err := replaceDayTx(tx, d); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// replaceDayTx removes any existing row for the date (cascading to its
// entries) and inserts the new record within the caller's transaction.
func replaceDayTx(tx *sql.Tx, d health.DayRecord) error {
	if _, err := tx.Exec(`DELETE FROM days WHERE date = ?`, d.Date); err != nil {
		return errors.NewInternal(err)
	}
	return insertDayTx(tx, d)
}

// hasDayTx reports whether a day record exists for the date, as seen
// from within the caller's transaction.
func hasDayTx(tx *sql.Tx, date string) (bool, error) {
	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM days WHERE date = ?`, date).Scan(&n); err != nil {
		return false, errors.NewInternal(err)
	}
	return n > 0, nil
}

// HasDay reports whether a day record exists for the date.
func HasDay(db *sql.DB, date string) (bool, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM days WHERE date = ?`, date).Scan(&n); err != nil {
		return false, errors.NewInternal(err)
	}
	return n > 0, nil
}

// CountDays returns the number of day records in the store.
func CountDays(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM days`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// GetDay retrieves one day record with its meals and workouts.
func GetDay(db *sql.DB, date string) (*health.DayRecord, error) {
	row := db.QueryRow(`
		SELECT date, weight, calories, protein, fat, carbs,
			steps, calories_burned, resting_hr, active_minutes, sleep_minutes
		FROM days WHERE date = ?
	`, date)

	d, err := scanDay(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(date)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	meals, err := loadMeals(db, date)
	if err != nil {
		return nil, err
	}
	workouts, err := loadWorkouts(db, date)
	if err != nil {
		return nil, err
	}
	d.Meals = meals
	d.Workouts = workouts

	return d, nil
}

// DeleteDay removes a day record and, via cascade, its meal and workout rows.
func DeleteDay(db *sql.DB, date string) error {
	res, err := db.Exec(`DELETE FROM days WHERE date = ?`, date)
	if err != nil {
		return errors.NewInternal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound(date)
	}
	return nil
}

// ListDays loads every day record in ascending date order, with meals
// and workouts attached. An empty store yields an empty slice, not an
// error; the caller decides whether that is terminal.
func ListDays(db *sql.DB) ([]health.DayRecord, error) {
	rows, err := db.Query(`
		SELECT date, weight, calories, protein, fat, carbs,
			steps, calories_burned, resting_hr, active_minutes, sleep_minutes
		FROM days ORDER BY date ASC
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	days := []health.DayRecord{}
	index := make(map[string]int)
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		index[d.Date] = len(days)
		days = append(days, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := attachMeals(db, days, index); err != nil {
		return nil, err
	}
	if err := attachWorkouts(db, days, index); err != nil {
		return nil, err
	}

	return days, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDay(s scanner) (*health.DayRecord, error) {
	var d health.DayRecord
	var weight, caloriesBurned, restingHR sql.NullFloat64
	var steps, activeMinutes, sleepMinutes sql.NullInt64

	err := s.Scan(
		&d.Date, &weight, &d.Calories, &d.Protein, &d.Fat, &d.Carbs,
		&steps, &caloriesBurned, &restingHR, &activeMinutes, &sleepMinutes,
	)
	if err != nil {
		return nil, err
	}

	d.Weight = fromNullFloat(weight)
	d.Steps = fromNullInt(steps)
	d.CaloriesBurned = fromNullFloat(caloriesBurned)
	d.RestingHR = fromNullFloat(restingHR)
	d.ActiveMinutes = fromNullInt(activeMinutes)
	d.SleepMinutes = fromNullInt(sleepMinutes)

	return &d, nil
}

func loadMeals(db *sql.DB, date string) ([]health.MealEntry, error) {
	rows, err := db.Query(`
		SELECT time_label, name, calories, protein, fat, carbs
		FROM meals WHERE day_date = ? ORDER BY position ASC
	`, date)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	meals := []health.MealEntry{}
	for rows.Next() {
		var m health.MealEntry
		if err := rows.Scan(&m.Time, &m.Name, &m.Calories, &m.Protein, &m.Fat, &m.Carbs); err != nil {
			return nil, errors.NewInternal(err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return meals, nil
}

func loadWorkouts(db *sql.DB, date string) ([]health.WorkoutEntry, error) {
	rows, err := db.Query(`
		SELECT name, weight, sets, reps
		FROM workouts WHERE day_date = ? ORDER BY position ASC
	`, date)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	workouts := []health.WorkoutEntry{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return workouts, nil
}

// attachMeals bulk-loads all meal rows and distributes them to their days.
func attachMeals(db *sql.DB, days []health.DayRecord, index map[string]int) error {
	rows, err := db.Query(`
		SELECT day_date, time_label, name, calories, protein, fat, carbs
		FROM meals ORDER BY day_date ASC, position ASC
	`)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer rows.Close()

	for rows.Next() {
		var date string
		var m health.MealEntry
		if err := rows.Scan(&date, &m.Time, &m.Name, &m.Calories, &m.Protein, &m.Fat, &m.Carbs); err != nil {
			return errors.NewInternal(err)
		}
		if i, ok := index[date]; ok {
			days[i].Meals = append(days[i].Meals, m)
		}
	}
	return rows.Err()
}

// attachWorkouts bulk-loads all workout rows and distributes them to their days.
func attachWorkouts(db *sql.DB, days []health.DayRecord, index map[string]int) error {
	rows, err := db.Query(`
		SELECT day_date, name, weight, sets, reps
		FROM workouts ORDER BY day_date ASC, position ASC
	`)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer rows.Close()

	for rows.Next() {
		var date string
		var w health.WorkoutEntry
		var reps string
		if err := rows.Scan(&date, &w.Name, &w.Weight, &w.Sets, &reps); err != nil {
			return errors.NewInternal(err)
		}
		w.Reps = health.ParseRepSpec(reps)
		if i, ok := index[date]; ok {
			days[i].Workouts = append(days[i].Workouts, w)
		}
	}
	return rows.Err()
}

func scanWorkout(rows *sql.Rows) (health.WorkoutEntry, error) {
	var w health.WorkoutEntry
	var reps string
	if err := rows.Scan(&w.Name, &w.Weight, &w.Sets, &reps); err != nil {
		return w, err
	}
	w.Reps = health.ParseRepSpec(reps)
	return w, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func toNullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func fromNullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
