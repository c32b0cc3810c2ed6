// Package repository: prescription persistence.  A prescription belongs to a
// user and carries prescription_medicines link rows tying it to catalogue
// medicines.  Schedules and intake logs resolve ownership through
// prescriptions, so the calendar query path starts here.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/med-schedule-service/internal/model"
)

// PrescriptionRepo manages prescriptions and their medicine links.
type PrescriptionRepo struct {
	db *sql.DB
}

// NewPrescriptionRepo constructs a PrescriptionRepo bound to the given
// database.
func NewPrescriptionRepo(db *sql.DB) *PrescriptionRepo { return &PrescriptionRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *PrescriptionRepo) DB() *sql.DB { return r.db }

// Create inserts a prescription and assigns the generated ID back.
func (r *PrescriptionRepo) Create(ctx context.Context, p *model.Prescription) error {
	const q = `INSERT INTO prescriptions (user_id, name, prescribed_by) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.UserID, p.Name, p.PrescribedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT id, user_id, name, prescribed_by, created_at, updated_at FROM prescriptions WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.ID, &p.UserID, &p.Name, &p.PrescribedBy, &p.CreatedAt, &p.UpdatedAt)
}

// AddMedicine inserts a prescription_medicines link row.
func (r *PrescriptionRepo) AddMedicine(ctx context.Context, pm *model.PrescriptionMedicine) error {
	const q = `INSERT INTO prescription_medicines (prescription_id, medicine_id, instructions) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, pm.PrescriptionID, pm.MedicineID, pm.Instructions)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	pm.ID = uint64(id)
	return nil
}

// GetByID fetches one prescription, excluding soft-deleted rows.
func (r *PrescriptionRepo) GetByID(ctx context.Context, id uint64) (model.Prescription, error) {
	const q = `SELECT id, user_id, name, prescribed_by, created_at, updated_at
	           FROM prescriptions WHERE id = ? AND is_deleted = 0`
	var p model.Prescription
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.UserID, &p.Name, &p.PrescribedBy, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Prescription{}, ErrPrescriptionNotFound
	}
	return p, err
}

// GetOwned fetches a prescription and verifies it belongs to userID,
// returning ErrForbidden when it does not.
func (r *PrescriptionRepo) GetOwned(ctx context.Context, id, userID uint64) (model.Prescription, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Prescription{}, err
	}
	if p.UserID != userID {
		return model.Prescription{}, ErrForbidden
	}
	return p, nil
}

// ListByUser returns all non-deleted prescriptions owned by a user.
func (r *PrescriptionRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Prescription, error) {
	const q = `SELECT id, user_id, name, prescribed_by, created_at, updated_at
	           FROM prescriptions WHERE user_id = ? AND is_deleted = 0 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Prescription
	for rows.Next() {
		var p model.Prescription
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.PrescribedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListMedicines returns the non-deleted medicine links of a prescription.
func (r *PrescriptionRepo) ListMedicines(ctx context.Context, prescriptionID uint64) ([]model.PrescriptionMedicine, error) {
	const q = `SELECT id, prescription_id, medicine_id, instructions, created_at
	           FROM prescription_medicines WHERE prescription_id = ? AND is_deleted = 0 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, prescriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PrescriptionMedicine
	for rows.Next() {
		var pm model.PrescriptionMedicine
		if err := rows.Scan(&pm.ID, &pm.PrescriptionID, &pm.MedicineID, &pm.Instructions, &pm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, pm)
	}
	return out, rows.Err()
}

// GetMedicineLink fetches one prescription_medicines row, excluding
// soft-deleted rows.
func (r *PrescriptionRepo) GetMedicineLink(ctx context.Context, id uint64) (model.PrescriptionMedicine, error) {
	const q = `SELECT id, prescription_id, medicine_id, instructions, created_at
	           FROM prescription_medicines WHERE id = ? AND is_deleted = 0`
	var pm model.PrescriptionMedicine
	err := r.db.QueryRowContext(ctx, q, id).Scan(&pm.ID, &pm.PrescriptionID, &pm.MedicineID, &pm.Instructions, &pm.CreatedAt)
	if err == sql.ErrNoRows {
		return model.PrescriptionMedicine{}, ErrPrescriptionNotFound
	}
	return pm, err
}

// MedicineNamesByPrescriptionMedicine resolves prescription-medicine IDs to
// medicine display names in one query.  IDs whose lookup chain is broken
// (missing link or deleted medicine) are simply absent from the result; the
// calendar assembler substitutes a sentinel name for those.
func (r *PrescriptionRepo) MedicineNamesByPrescriptionMedicine(ctx context.Context, pmIDs []uint64) (map[uint64]string, error) {
	out := make(map[uint64]string, len(pmIDs))
	if len(pmIDs) == 0 {
		return out, nil
	}
	marks, args := inPlaceholders(pmIDs)
	q := `SELECT pm.id, m.name
	      FROM prescription_medicines pm
	      JOIN medicines m ON m.id = pm.medicine_id AND m.is_deleted = 0
	      WHERE pm.id IN (` + marks + `) AND pm.is_deleted = 0`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uint64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

// SoftDelete marks a prescription deleted.  Dependent schedules and logs are
// left in place; reads exclude them through the prescription filter.
func (r *PrescriptionRepo) SoftDelete(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE prescriptions SET is_deleted = 1 WHERE id = ? AND user_id = ? AND is_deleted = 0`,
		id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPrescriptionNotFound
	}
	return nil
}
