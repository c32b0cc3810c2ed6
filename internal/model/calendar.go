package model

import "time"

// UnknownMedicineName is substituted when a schedule's medicine lookup chain
// (prescription medicine -> medicine) is broken.  The calendar degrades to
// this sentinel rather than failing the whole request.
const UnknownMedicineName = "Unknown medicine"

// CalendarItem is one row of the assembled medication calendar: a projected
// dose occurrence merged with its intake log, if one exists.  Items are
// ephemeral; they are computed per request and never persisted.
//
// IntakeLogID is zero when no log exists yet, in which case IsTaken,
// IsSkipped, TakenTime and Notes hold their "not yet acted on" defaults.
type CalendarItem struct {
	IntakeLogID            uint64     `json:"intake_log_id"`
	ScheduleID             uint64     `json:"schedule_id"`
	PrescriptionID         uint64     `json:"prescription_id"`
	PrescriptionMedicineID uint64     `json:"prescription_medicine_id"`
	ScheduleName           string     `json:"schedule_name"`
	MedicineName           string     `json:"medicine_name"`
	ScheduledTime          time.Time  `json:"scheduled_time"`
	Dosage                 float64    `json:"dosage"`
	DosageUnit             string     `json:"dosage_unit"`
	IsTaken                bool       `json:"is_taken"`
	IsSkipped              bool       `json:"is_skipped"`
	TakenTime              *time.Time `json:"taken_time,omitempty"`
	Notes                  string     `json:"notes,omitempty"`
}
