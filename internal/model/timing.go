package model

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time without a date, always interpreted in UTC.
// It mirrors the MySQL TIME column used by schedule_timings.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	switch len(s) {
	case 5:
		if _, err := fmt.Sscanf(s, "%02d:%02d", &t.Hour, &t.Minute); err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02d:%02d:%02d", &t.Hour, &t.Minute, &t.Second); err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
		}
	default:
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	return t, nil
}

// TimeOfDayOf extracts the UTC time-of-day portion of an instant.
func TimeOfDayOf(t time.Time) TimeOfDay {
	u := t.UTC()
	return TimeOfDay{Hour: u.Hour(), Minute: u.Minute(), Second: u.Second()}
}

// String renders the TimeOfDay in DB format "HH:MM:SS".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// On combines the time-of-day with the date portion of day (UTC).
func (t TimeOfDay) On(day time.Time) time.Time {
	d := day.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, t.Second, 0, time.UTC)
}

// Recurrence describes how a single ScheduleTiming repeats.  It is a closed
// set of three variants so that a timing can never carry both an hour
// interval and a weekday at the same time:
//
//	IntervalRecurrence – repeats every N hours from the schedule start instant.
//	WeekdayRecurrence  – repeats weekly on one weekday (0=Sunday … 6=Saturday).
//	DailyRecurrence    – repeats every calendar day.
type Recurrence interface {
	isRecurrence()
}

// IntervalRecurrence repeats every Hours hours, anchored to the owning
// schedule's StartDate.
type IntervalRecurrence struct {
	Hours int
}

// WeekdayRecurrence repeats weekly on Day (0=Sunday … 6=Saturday).
type WeekdayRecurrence struct {
	Day int
}

// DailyRecurrence repeats on every calendar day.
type DailyRecurrence struct{}

func (IntervalRecurrence) isRecurrence() {}
func (WeekdayRecurrence) isRecurrence()  {}
func (DailyRecurrence) isRecurrence()    {}

// ScheduleTiming is one persisted dosing rule instance belonging to a
// medication schedule.  Time is the time-of-day a dose is due; how the dose
// repeats is described by Recurrence.
//
// Fields:
//  ID         – primary key identifier.
//  ScheduleID – owning medication schedule.
//  Time       – time-of-day the dose is due (UTC).
//  Dosage     – amount per dose (e.g. 500).
//  DosageUnit – unit of the amount (e.g. "mg").
//  Recurrence – interval, weekday or daily repetition.
//  IsActive   – inactive timings are excluded from calendar projection.
//  IsDeleted  – soft-delete flag; deleted rows are invisible to reads.
type ScheduleTiming struct {
	ID         uint64     // schedule_timings.id
	ScheduleID uint64     // schedule_timings.schedule_id
	Time       TimeOfDay  // schedule_timings.time
	Dosage     float64    // schedule_timings.dosage
	DosageUnit string     // schedule_timings.dosage_unit
	Recurrence Recurrence // schedule_timings.interval_hours / day_of_week
	IsActive   bool       // schedule_timings.is_active
	IsDeleted  bool       // schedule_timings.is_deleted
	CreatedAt  time.Time  // schedule_timings.created_at
	UpdatedAt  time.Time  // schedule_timings.updated_at
}
