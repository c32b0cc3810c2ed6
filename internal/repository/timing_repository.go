// Package repository: schedule timing persistence.  The Recurrence variant
// on the model maps onto two nullable columns: interval_hours (interval
// timings) and day_of_week (weekly timings); both NULL means a daily timing.
// The write path can never produce a row with both set because the model
// cannot represent one; reads that encounter such a legacy row prefer the
// interval interpretation.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/med-schedule-service/internal/model"
)

// TimingRepo manages persistence for schedule timings.
type TimingRepo struct {
	db *sql.DB
}

// NewTimingRepo constructs a TimingRepo with the given DB handle.
func NewTimingRepo(db *sql.DB) *TimingRepo { return &TimingRepo{db: db} }

const timingColumns = `id, schedule_id, time, dosage, dosage_unit, day_of_week, interval_hours,
	is_active, created_at, updated_at`

// recurrenceColumns splits a Recurrence into its two nullable column values.
func recurrenceColumns(rec model.Recurrence) (dayOfWeek, intervalHours interface{}) {
	switch r := rec.(type) {
	case model.IntervalRecurrence:
		return nil, r.Hours
	case model.WeekdayRecurrence:
		return r.Day, nil
	default:
		return nil, nil
	}
}

// recurrenceFrom rebuilds a Recurrence from the two nullable columns.
func recurrenceFrom(dayOfWeek, intervalHours sql.NullInt64) model.Recurrence {
	if intervalHours.Valid {
		return model.IntervalRecurrence{Hours: int(intervalHours.Int64)}
	}
	if dayOfWeek.Valid {
		return model.WeekdayRecurrence{Day: int(dayOfWeek.Int64)}
	}
	return model.DailyRecurrence{}
}

func scanTiming(row interface{ Scan(...interface{}) error }, t *model.ScheduleTiming) error {
	var (
		timeStr       string
		dayOfWeek     sql.NullInt64
		intervalHours sql.NullInt64
	)
	err := row.Scan(
		&t.ID, &t.ScheduleID, &timeStr, &t.Dosage, &t.DosageUnit,
		&dayOfWeek, &intervalHours, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	tod, err := model.ParseTimeOfDay(timeStr)
	if err != nil {
		return err
	}
	t.Time = tod
	t.Recurrence = recurrenceFrom(dayOfWeek, intervalHours)
	return nil
}

// CreateBulkTx inserts all generated timings of a schedule in a single
// statement inside the caller's transaction so that schedule and timings
// commit together.  Passing an empty slice has no effect and returns nil.
func (r *TimingRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, timings []model.ScheduleTiming) error {
	if len(timings) == 0 {
		return nil
	}
	query := `INSERT INTO schedule_timings (schedule_id, time, dosage, dosage_unit, day_of_week, interval_hours) VALUES `
	args := make([]interface{}, 0, len(timings)*6)
	for i, t := range timings {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		day, hours := recurrenceColumns(t.Recurrence)
		args = append(args, t.ScheduleID, t.Time.String(), t.Dosage, t.DosageUnit, day, hours)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID fetches one timing, excluding soft-deleted rows.
func (r *TimingRepo) GetByID(ctx context.Context, id uint64) (model.ScheduleTiming, error) {
	q := `SELECT ` + timingColumns + ` FROM schedule_timings WHERE id = ? AND is_deleted = 0`
	var t model.ScheduleTiming
	err := scanTiming(r.db.QueryRowContext(ctx, q, id), &t)
	if err == sql.ErrNoRows {
		return model.ScheduleTiming{}, ErrTimingNotFound
	}
	return t, err
}

// ListBySchedule returns all non-deleted timings of one schedule, active or
// not.
func (r *TimingRepo) ListBySchedule(ctx context.Context, scheduleID uint64) ([]model.ScheduleTiming, error) {
	q := `SELECT ` + timingColumns + ` FROM schedule_timings
	      WHERE schedule_id = ? AND is_deleted = 0 ORDER BY time, id`
	rows, err := r.db.QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ScheduleTiming
	for rows.Next() {
		var t model.ScheduleTiming
		if err := scanTiming(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListActiveBySchedules returns the active, non-deleted timings of a set of
// schedules in one query.  The calendar assembler uses this batch read.
func (r *TimingRepo) ListActiveBySchedules(ctx context.Context, scheduleIDs []uint64) ([]model.ScheduleTiming, error) {
	if len(scheduleIDs) == 0 {
		return nil, nil
	}
	marks, args := inPlaceholders(scheduleIDs)
	q := `SELECT ` + timingColumns + ` FROM schedule_timings
	      WHERE schedule_id IN (` + marks + `) AND is_active = 1 AND is_deleted = 0
	      ORDER BY schedule_id, time, id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ScheduleTiming
	for rows.Next() {
		var t model.ScheduleTiming
		if err := scanTiming(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a timing: time, dosage, dosage unit,
// recurrence and active flag.
func (r *TimingRepo) Update(ctx context.Context, t *model.ScheduleTiming) error {
	day, hours := recurrenceColumns(t.Recurrence)
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedule_timings
		 SET time = ?, dosage = ?, dosage_unit = ?, day_of_week = ?, interval_hours = ?, is_active = ?
		 WHERE id = ? AND is_deleted = 0`,
		t.Time.String(), t.Dosage, t.DosageUnit, day, hours, t.IsActive, t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTimingNotFound
	}
	return nil
}

// SoftDelete marks a timing deleted.
func (r *TimingRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedule_timings SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTimingNotFound
	}
	return nil
}
