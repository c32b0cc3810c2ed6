package model

import "time"

// Medicine is one entry in the shared medicine catalogue.  Prescriptions
// reference medicines through PrescriptionMedicine links.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name (e.g. "Amoxicillin").
//  Description – optional free-text description.
//  IsDeleted   – soft-delete flag.
type Medicine struct {
	ID          uint64    // medicines.id
	Name        string    // medicines.name
	Description string    // medicines.description
	IsDeleted   bool      // medicines.is_deleted
	CreatedAt   time.Time // medicines.created_at
	UpdatedAt   time.Time // medicines.updated_at
}
