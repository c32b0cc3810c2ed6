package model

import "time"

// MedicationSchedule is a named, time-bounded dosing plan for one prescribed
// medicine.  A schedule owns one or more ScheduleTiming rows that describe
// when doses are due.
//
// Fields:
//  ID                     – primary key identifier.
//  PrescriptionID         – owning prescription.
//  PrescriptionMedicineID – the prescribed medicine the plan applies to.
//  ScheduleName           – human-readable label (e.g. "Morning antibiotics").
//  StartDate              – UTC instant the plan takes effect; no occurrence
//                           is ever projected before it.
//  EndDate                – optional UTC bound; occurrences with a date past
//                           it are never projected.  Nil means open-ended.
//  IsActive               – inactive schedules are excluded from the calendar.
//  IsDeleted              – soft-delete flag.
type MedicationSchedule struct {
	ID                     uint64     // medication_schedules.id
	PrescriptionID         uint64     // medication_schedules.prescription_id
	PrescriptionMedicineID uint64     // medication_schedules.prescription_medicine_id
	ScheduleName           string     // medication_schedules.schedule_name
	StartDate              time.Time  // medication_schedules.start_date (UTC)
	EndDate                *time.Time // medication_schedules.end_date (nullable, UTC)
	IsActive               bool       // medication_schedules.is_active
	IsDeleted              bool       // medication_schedules.is_deleted
	CreatedAt              time.Time  // medication_schedules.created_at
	UpdatedAt              time.Time  // medication_schedules.updated_at
}
