package repository

import (
	"context"
	"database/sql"
)

// MedicineRepo manages the shared medicine catalogue.
type MedicineRepo struct {
	db *sql.DB
}

// NewMedicineRepo constructs a MedicineRepo with the given DB handle.
func NewMedicineRepo(db *sql.DB) *MedicineRepo { return &MedicineRepo{db: db} }

// MedicineRecord mirrors the schema of the medicines table.
type MedicineRecord struct {
	ID          uint64
	Name        string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

// Create inserts a catalogue medicine and assigns the generated ID back to
// the record.
func (r *MedicineRepo) Create(ctx context.Context, m *MedicineRecord) error {
	const q = `INSERT INTO medicines (name, description) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Name, m.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT id, name, description, created_at, updated_at FROM medicines WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, m.ID).Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID fetches one medicine, excluding soft-deleted rows.
func (r *MedicineRepo) GetByID(ctx context.Context, id uint64) (MedicineRecord, error) {
	const q = `SELECT id, name, description, created_at, updated_at
	           FROM medicines WHERE id = ? AND is_deleted = 0`
	var m MedicineRecord
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return MedicineRecord{}, ErrMedicineNotFound
	}
	return m, err
}

// List returns the whole catalogue ordered by name, excluding soft-deleted
// rows.
func (r *MedicineRepo) List(ctx context.Context) ([]MedicineRecord, error) {
	const q = `SELECT id, name, description, created_at, updated_at
	           FROM medicines WHERE is_deleted = 0 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MedicineRecord
	for rows.Next() {
		var m MedicineRecord
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
