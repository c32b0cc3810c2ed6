package schedule

import (
	"github.com/iliyamo/med-schedule-service/internal/model"
)

// GenerateTimings expands a timing rule into the ScheduleTiming rows that
// should be persisted alongside the given schedule.  It performs no I/O; the
// caller is responsible for committing the returned rows together with the
// schedule in one transaction.
//
// Expansion by rule variant:
//
//	IntervalRule – exactly one timing anchored at the time-of-day portion of
//	               schedule.StartDate; projection later expands it by the
//	               hour interval.
//	WeeklyRule   – one timing per listed weekday, all sharing the rule time.
//	DailyRule    – one timing per listed time-of-day, repeating every day.
//
// An inconsistent rule fails with ErrInvalidRule and produces no rows.
func GenerateTimings(sched model.MedicationSchedule, rule model.TimingRule, dosage float64, dosageUnit string, clock Clock) ([]model.ScheduleTiming, error) {
	if clock == nil {
		clock = SystemClock()
	}
	now := clock.Now().UTC()

	base := model.ScheduleTiming{
		ScheduleID: sched.ID,
		Dosage:     dosage,
		DosageUnit: dosageUnit,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	switch r := rule.(type) {
	case model.IntervalRule:
		if r.Hours <= 0 {
			return nil, InvalidRule("interval hours must be positive, got %d", r.Hours)
		}
		t := base
		t.Time = model.TimeOfDayOf(sched.StartDate)
		t.Recurrence = model.IntervalRecurrence{Hours: r.Hours}
		return []model.ScheduleTiming{t}, nil

	case model.WeeklyRule:
		if len(r.Days) == 0 {
			return nil, InvalidRule("weekly rule requires at least one day of week")
		}
		out := make([]model.ScheduleTiming, 0, len(r.Days))
		for _, day := range r.Days {
			if day < 0 || day > 6 {
				return nil, InvalidRule("day of week %d out of range [0,6]", day)
			}
			t := base
			t.Time = r.Time
			t.Recurrence = model.WeekdayRecurrence{Day: day}
			out = append(out, t)
		}
		return out, nil

	case model.DailyRule:
		if len(r.Times) == 0 {
			return nil, InvalidRule("daily rule requires at least one time")
		}
		out := make([]model.ScheduleTiming, 0, len(r.Times))
		for _, tod := range r.Times {
			t := base
			t.Time = tod
			t.Recurrence = model.DailyRecurrence{}
			out = append(out, t)
		}
		return out, nil

	default:
		return nil, InvalidRule("missing or unknown rule type")
	}
}

// ValidateIntakeFlags rejects intake-log writes where taken and skipped are
// both set.  The two states are mutually exclusive by definition.
func ValidateIntakeFlags(isTaken, isSkipped bool) error {
	if isTaken && isSkipped {
		return InvalidRule("a dose cannot be both taken and skipped")
	}
	return nil
}
