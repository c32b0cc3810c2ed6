package model

import "time"

// IntakeLog records what happened (or did not happen) for one projected dose
// occurrence.  IsTaken and IsSkipped are mutually exclusive; a row with both
// false is a dose that was logged but not yet acted on.
//
// Fields:
//  ID            – primary key identifier.
//  ScheduleID    – schedule the dose belongs to.
//  UserID        – owner, denormalized for range queries.
//  ClientRef     – optional client-supplied UUID used as an idempotency key
//                  when the same log is submitted twice.
//  ScheduledTime – exact UTC instant the dose was due.
//  TakenTime     – UTC instant the dose was actually taken (nil if not taken).
//  IsTaken       – dose was taken.
//  IsSkipped     – dose was deliberately skipped.
//  Notes         – free-text note from the user.
//  IsDeleted     – soft-delete flag.
type IntakeLog struct {
	ID            uint64     // intake_logs.id
	ScheduleID    uint64     // intake_logs.schedule_id
	UserID        uint64     // intake_logs.user_id
	ClientRef     string     // intake_logs.client_ref (UUID, may be empty)
	ScheduledTime time.Time  // intake_logs.scheduled_time (UTC)
	TakenTime     *time.Time // intake_logs.taken_time (nullable, UTC)
	IsTaken       bool       // intake_logs.is_taken
	IsSkipped     bool       // intake_logs.is_skipped
	Notes         string     // intake_logs.notes
	IsDeleted     bool       // intake_logs.is_deleted
	CreatedAt     time.Time  // intake_logs.created_at
}
