// Package repository: medication schedule persistence.  Schedule dates are
// stored as DATETIME in UTC; the driver is configured with loc=UTC so they
// scan straight into time.Time.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/med-schedule-service/internal/model"
)

// ScheduleRepo manages persistence for medication schedules.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the given DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin transactions
// spanning multiple repositories; schedule creation uses this to commit the
// schedule together with its generated timings.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

func scanSchedule(row interface{ Scan(...interface{}) error }, s *model.MedicationSchedule) error {
	var endDate sql.NullTime
	err := row.Scan(
		&s.ID, &s.PrescriptionID, &s.PrescriptionMedicineID, &s.ScheduleName,
		&s.StartDate, &endDate, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if endDate.Valid {
		t := endDate.Time.UTC()
		s.EndDate = &t
	}
	s.StartDate = s.StartDate.UTC()
	return nil
}

const scheduleColumns = `id, prescription_id, prescription_medicine_id, schedule_name,
	start_date, end_date, is_active, created_at, updated_at`

// CreateTx inserts a new schedule within the scope of an existing
// transaction.  It populates the generated ID and DB-default fields on the
// provided record.  The caller must commit or roll back the transaction;
// timings generated for the schedule belong in the same transaction so the
// pair is committed atomically.
func (r *ScheduleRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.MedicationSchedule) error {
	const q = `INSERT INTO medication_schedules
	           (prescription_id, prescription_medicine_id, schedule_name, start_date, end_date)
	           VALUES (?, ?, ?, ?, ?)`
	var end interface{}
	if s.EndDate != nil {
		end = s.EndDate.UTC()
	}
	res, err := tx.ExecContext(ctx, q, s.PrescriptionID, s.PrescriptionMedicineID, s.ScheduleName, s.StartDate.UTC(), end)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	sel := `SELECT ` + scheduleColumns + ` FROM medication_schedules WHERE id = ?`
	return scanSchedule(tx.QueryRowContext(ctx, sel, s.ID), s)
}

// GetByID fetches one schedule, excluding soft-deleted rows.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (model.MedicationSchedule, error) {
	q := `SELECT ` + scheduleColumns + ` FROM medication_schedules WHERE id = ? AND is_deleted = 0`
	var s model.MedicationSchedule
	err := scanSchedule(r.db.QueryRowContext(ctx, q, id), &s)
	if err == sql.ErrNoRows {
		return model.MedicationSchedule{}, ErrScheduleNotFound
	}
	return s, err
}

// OwnerOf returns the user who owns a schedule via its prescription.
// Handlers use this for access checks before mutating schedule-scoped data.
func (r *ScheduleRepo) OwnerOf(ctx context.Context, scheduleID uint64) (uint64, error) {
	const q = `SELECT p.user_id
	           FROM medication_schedules s
	           JOIN prescriptions p ON p.id = s.prescription_id AND p.is_deleted = 0
	           WHERE s.id = ? AND s.is_deleted = 0`
	var userID uint64
	err := r.db.QueryRowContext(ctx, q, scheduleID).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, ErrScheduleNotFound
	}
	return userID, err
}

// ListByUser returns all non-deleted schedules under a user's prescriptions.
func (r *ScheduleRepo) ListByUser(ctx context.Context, userID uint64) ([]model.MedicationSchedule, error) {
	q := `SELECT s.id, s.prescription_id, s.prescription_medicine_id, s.schedule_name,
	             s.start_date, s.end_date, s.is_active, s.created_at, s.updated_at
	      FROM medication_schedules s
	      JOIN prescriptions p ON p.id = s.prescription_id AND p.is_deleted = 0
	      WHERE p.user_id = ? AND s.is_deleted = 0
	      ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MedicationSchedule
	for rows.Next() {
		var s model.MedicationSchedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListActiveInRange returns active, non-deleted schedules under the given
// prescriptions whose [start_date, end_date] intersects [start, end].  This
// is the batch read the calendar assembler starts from.
func (r *ScheduleRepo) ListActiveInRange(ctx context.Context, prescriptionIDs []uint64, start, end time.Time) ([]model.MedicationSchedule, error) {
	if len(prescriptionIDs) == 0 {
		return nil, nil
	}
	marks, args := inPlaceholders(prescriptionIDs)
	q := `SELECT ` + scheduleColumns + `
	      FROM medication_schedules
	      WHERE prescription_id IN (` + marks + `)
	        AND is_active = 1 AND is_deleted = 0
	        AND (end_date IS NULL OR end_date >= ?)
	        AND start_date <= ?
	      ORDER BY id`
	args = append(args, start.UTC(), end.UTC())
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MedicationSchedule
	for rows.Next() {
		var s model.MedicationSchedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetActive flips the is_active flag on a schedule.
func (r *ScheduleRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE medication_schedules SET is_active = ? WHERE id = ? AND is_deleted = 0`,
		active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// SoftDelete marks a schedule and its timings deleted in one transaction.
func (r *ScheduleRepo) SoftDelete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE medication_schedules SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrScheduleNotFound
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE schedule_timings SET is_deleted = 1 WHERE schedule_id = ? AND is_deleted = 0`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
