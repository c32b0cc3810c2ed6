// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used by the service.  All three are durable.
const (
	ScheduleCreatedQueue = "schedule.created"
	DoseRecordedQueue    = "dose.recorded"
	DoseDueQueue         = "dose.due"
)

// ScheduleCreatedEvent is published after a medication schedule and its
// generated timings have been committed.  It contains enough information for
// downstream consumers to log or notify without querying the primary
// database.
type ScheduleCreatedEvent struct {
	EventID        string  `json:"event_id"`
	ScheduleID     uint64  `json:"schedule_id"`
	PrescriptionID uint64  `json:"prescription_id"`
	UserID         uint64  `json:"user_id"`
	ScheduleName   string  `json:"schedule_name"`
	MedicineName   string  `json:"medicine_name"`
	TimingCount    int     `json:"timing_count"`
	Dosage         float64 `json:"dosage"`
	DosageUnit     string  `json:"dosage_unit"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// DoseRecordedEvent is published when a user marks a dose taken or skipped.
type DoseRecordedEvent struct {
	EventID       string `json:"event_id"`
	IntakeLogID   uint64 `json:"intake_log_id"`
	ScheduleID    uint64 `json:"schedule_id"`
	UserID        uint64 `json:"user_id"`
	ScheduledTime string `json:"scheduled_time"`
	Status        string `json:"status"` // TAKEN | SKIPPED | PENDING
	RecordedAt    string `json:"recorded_at"`
}

// DoseDueEvent is published by the reminder scanner for each upcoming dose
// that has not been acted on yet.
type DoseDueEvent struct {
	EventID       string  `json:"event_id"`
	ScheduleID    uint64  `json:"schedule_id"`
	UserID        uint64  `json:"user_id"`
	MedicineName  string  `json:"medicine_name"`
	ScheduleName  string  `json:"schedule_name"`
	ScheduledTime string  `json:"scheduled_time"`
	Dosage        float64 `json:"dosage"`
	DosageUnit    string  `json:"dosage_unit"`
}
