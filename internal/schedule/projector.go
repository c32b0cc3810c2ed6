package schedule

import (
	"time"

	"github.com/iliyamo/med-schedule-service/internal/model"
)

// ProjectOccurrences expands one timing of a schedule into the concrete UTC
// instants at which a dose is due inside [windowStart, windowEnd].  The
// result is strictly increasing.  Both window bounds are inclusive; the end
// bound is applied at date granularity so a window ending on 2024-01-03
// includes every occurrence on that day.
//
// All inputs are normalized to UTC.  The effective range is additionally
// clamped by the schedule: nothing is emitted before StartDate and nothing is
// emitted on a date after EndDate (when set).
func ProjectOccurrences(sched model.MedicationSchedule, timing model.ScheduleTiming, windowStart, windowEnd time.Time) []time.Time {
	ws := windowStart.UTC()
	we := windowEnd.UTC()
	start := sched.StartDate.UTC()

	// Effective query dates: max(window start, schedule start) through
	// min(window end, schedule end).
	qs := dateOf(ws)
	if sd := dateOf(start); sd.After(qs) {
		qs = sd
	}
	qe := dateOf(we)
	if sched.EndDate != nil {
		if ed := dateOf(sched.EndDate.UTC()); ed.Before(qe) {
			qe = ed
		}
	}
	if qe.Before(qs) {
		return nil
	}

	switch r := timing.Recurrence.(type) {
	case model.IntervalRecurrence:
		if r.Hours <= 0 {
			return nil
		}
		return projectInterval(start, r.Hours, ws, qe)
	case model.WeekdayRecurrence:
		if r.Day < 0 || r.Day > 6 {
			return nil
		}
		return projectWeekly(start, r.Day, timing.Time, qs, qe)
	case model.DailyRecurrence:
		return projectDaily(start, timing.Time, qs, qe)
	default:
		return nil
	}
}

// projectInterval emits anchor + k*interval for every k >= 0 whose instant
// falls on or after max(windowStart, anchor) and whose date is not after qe.
// The first k is found by ceiling division so no stale instant before the
// window is ever emitted.
func projectInterval(anchor time.Time, hours int, windowStart time.Time, qe time.Time) []time.Time {
	interval := time.Duration(hours) * time.Hour

	lower := windowStart
	if anchor.After(lower) {
		lower = anchor
	}
	t := anchor
	if lower.After(anchor) {
		t = anchor.Add(ceilIntervals(lower.Sub(anchor), interval) * interval)
	}

	var out []time.Time
	for !dateOf(t).After(qe) {
		out = append(out, t)
		t = t.Add(interval)
	}
	return out
}

// projectWeekly emits the timing time on every matching weekday from qs
// through qe.  Candidates on the right weekday but before the schedule start
// instant (the same-day-but-before-start case) are skipped, which also pushes
// a zero-offset first match into the following week.
func projectWeekly(start time.Time, targetDay int, tod model.TimeOfDay, qs, qe time.Time) []time.Time {
	offset := (targetDay - int(qs.Weekday()) + 7) % 7
	d := qs.AddDate(0, 0, offset)

	var out []time.Time
	for !d.After(qe) {
		t := tod.On(d)
		if !t.Before(start) {
			out = append(out, t)
		}
		d = d.AddDate(0, 0, 7)
	}
	return out
}

// projectDaily emits the timing time on every date from qs through qe,
// skipping any instant before the schedule start.
func projectDaily(start time.Time, tod model.TimeOfDay, qs, qe time.Time) []time.Time {
	var out []time.Time
	for d := qs; !d.After(qe); d = d.AddDate(0, 0, 1) {
		t := tod.On(d)
		if t.Before(start) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ceilIntervals returns the smallest k with k*interval >= d.
func ceilIntervals(d, interval time.Duration) time.Duration {
	k := d / interval
	if d%interval != 0 {
		k++
	}
	return k
}

// dateOf truncates an instant to midnight UTC of its date.
func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
