package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/med-schedule-service/internal/model"
)

// IntakeLogRepo manages persistence for intake logs.
type IntakeLogRepo struct {
	db *sql.DB
}

// NewIntakeLogRepo constructs an IntakeLogRepo with the given DB handle.
func NewIntakeLogRepo(db *sql.DB) *IntakeLogRepo { return &IntakeLogRepo{db: db} }

const intakeLogColumns = `id, schedule_id, user_id, client_ref, scheduled_time, taken_time,
	is_taken, is_skipped, notes, created_at`

func scanIntakeLog(row interface{ Scan(...interface{}) error }, l *model.IntakeLog) error {
	var (
		clientRef sql.NullString
		takenTime sql.NullTime
	)
	err := row.Scan(
		&l.ID, &l.ScheduleID, &l.UserID, &clientRef, &l.ScheduledTime, &takenTime,
		&l.IsTaken, &l.IsSkipped, &l.Notes, &l.CreatedAt,
	)
	if err != nil {
		return err
	}
	if clientRef.Valid {
		l.ClientRef = clientRef.String
	}
	if takenTime.Valid {
		t := takenTime.Time.UTC()
		l.TakenTime = &t
	}
	l.ScheduledTime = l.ScheduledTime.UTC()
	return nil
}

// Create inserts an intake log and assigns the generated ID back.  When the
// log carries a ClientRef and a non-deleted row with the same ref already
// exists for the user, that existing row is returned instead of inserting a
// duplicate, making retried submissions idempotent.
func (r *IntakeLogRepo) Create(ctx context.Context, l *model.IntakeLog) error {
	if l.ClientRef != "" {
		q := `SELECT ` + intakeLogColumns + ` FROM intake_logs
		      WHERE user_id = ? AND client_ref = ? AND is_deleted = 0 LIMIT 1`
		err := scanIntakeLog(r.db.QueryRowContext(ctx, q, l.UserID, l.ClientRef), l)
		if err == nil {
			return nil
		}
		if err != sql.ErrNoRows {
			return err
		}
	}

	const q = `INSERT INTO intake_logs
	           (schedule_id, user_id, client_ref, scheduled_time, taken_time, is_taken, is_skipped, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var clientRef interface{}
	if l.ClientRef != "" {
		clientRef = l.ClientRef
	}
	var takenTime interface{}
	if l.TakenTime != nil {
		takenTime = l.TakenTime.UTC()
	}
	res, err := r.db.ExecContext(ctx, q,
		l.ScheduleID, l.UserID, clientRef, l.ScheduledTime.UTC(), takenTime, l.IsTaken, l.IsSkipped, l.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	sel := `SELECT ` + intakeLogColumns + ` FROM intake_logs WHERE id = ?`
	return scanIntakeLog(r.db.QueryRowContext(ctx, sel, l.ID), l)
}

// GetByID fetches one intake log, excluding soft-deleted rows.
func (r *IntakeLogRepo) GetByID(ctx context.Context, id uint64) (model.IntakeLog, error) {
	q := `SELECT ` + intakeLogColumns + ` FROM intake_logs WHERE id = ? AND is_deleted = 0`
	var l model.IntakeLog
	err := scanIntakeLog(r.db.QueryRowContext(ctx, q, id), &l)
	if err == sql.ErrNoRows {
		return model.IntakeLog{}, ErrIntakeLogNotFound
	}
	return l, err
}

// ListByUserInRange returns a user's non-deleted logs with scheduled_time
// inside [start, end].
func (r *IntakeLogRepo) ListByUserInRange(ctx context.Context, userID uint64, start, end time.Time) ([]model.IntakeLog, error) {
	q := `SELECT ` + intakeLogColumns + ` FROM intake_logs
	      WHERE user_id = ? AND is_deleted = 0 AND scheduled_time BETWEEN ? AND ?
	      ORDER BY scheduled_time, id`
	rows, err := r.db.QueryContext(ctx, q, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIntakeLogs(rows)
}

// ListBySchedulesInRange returns non-deleted logs for a set of schedules
// with scheduled_time inside [start, end].  The calendar assembler uses this
// batch read; the end bound is widened to the end of its date so an
// inclusive date window matches the projector's semantics.
func (r *IntakeLogRepo) ListBySchedulesInRange(ctx context.Context, scheduleIDs []uint64, start, end time.Time) ([]model.IntakeLog, error) {
	if len(scheduleIDs) == 0 {
		return nil, nil
	}
	endOfDay := time.Date(end.UTC().Year(), end.UTC().Month(), end.UTC().Day(), 23, 59, 59, 0, time.UTC)
	marks, args := inPlaceholders(scheduleIDs)
	q := `SELECT ` + intakeLogColumns + ` FROM intake_logs
	      WHERE schedule_id IN (` + marks + `) AND is_deleted = 0 AND scheduled_time BETWEEN ? AND ?
	      ORDER BY scheduled_time, id`
	args = append(args, start.UTC(), endOfDay)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIntakeLogs(rows)
}

func collectIntakeLogs(rows *sql.Rows) ([]model.IntakeLog, error) {
	var out []model.IntakeLog
	for rows.Next() {
		var l model.IntakeLog
		if err := scanIntakeLog(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a log: taken/skipped flags, taken
// time and notes.
func (r *IntakeLogRepo) Update(ctx context.Context, l *model.IntakeLog) error {
	var takenTime interface{}
	if l.TakenTime != nil {
		takenTime = l.TakenTime.UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE intake_logs SET taken_time = ?, is_taken = ?, is_skipped = ?, notes = ?
		 WHERE id = ? AND is_deleted = 0`,
		takenTime, l.IsTaken, l.IsSkipped, l.Notes, l.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrIntakeLogNotFound
	}
	return nil
}

// SoftDelete marks a log deleted.
func (r *IntakeLogRepo) SoftDelete(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE intake_logs SET is_deleted = 1 WHERE id = ? AND user_id = ? AND is_deleted = 0`,
		id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrIntakeLogNotFound
	}
	return nil
}
