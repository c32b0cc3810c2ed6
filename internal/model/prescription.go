package model

import "time"

// Prescription groups the medicines prescribed to one user, typically the
// result of a single doctor visit.  Schedules reference prescriptions, never
// users directly, so calendar queries resolve ownership through this record.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – owner of the prescription.
//  Name         – label for the prescription (e.g. "Post-surgery course").
//  PrescribedBy – free-text prescriber name.
//  IsDeleted    – soft-delete flag.
type Prescription struct {
	ID           uint64    // prescriptions.id
	UserID       uint64    // prescriptions.user_id
	Name         string    // prescriptions.name
	PrescribedBy string    // prescriptions.prescribed_by
	IsDeleted    bool      // prescriptions.is_deleted
	CreatedAt    time.Time // prescriptions.created_at
	UpdatedAt    time.Time // prescriptions.updated_at
}

// PrescriptionMedicine links a prescription to one medicine from the
// catalogue together with free-text instructions.  Schedules point at this
// link rather than at the medicine so the same medicine can appear on a
// prescription more than once with different instructions.
//
// Fields:
//  ID             – primary key identifier.
//  PrescriptionID – owning prescription.
//  MedicineID     – catalogue medicine being prescribed.
//  Instructions   – free-text intake instructions ("with food" etc.).
//  IsDeleted      – soft-delete flag.
type PrescriptionMedicine struct {
	ID             uint64    // prescription_medicines.id
	PrescriptionID uint64    // prescription_medicines.prescription_id
	MedicineID     uint64    // prescription_medicines.medicine_id
	Instructions   string    // prescription_medicines.instructions
	IsDeleted      bool      // prescription_medicines.is_deleted
	CreatedAt      time.Time // prescription_medicines.created_at
}
