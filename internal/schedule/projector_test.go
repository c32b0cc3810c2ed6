package schedule

import (
	"testing"
	"time"

	"github.com/iliyamo/med-schedule-service/internal/model"
)

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func checkOccurrences(t *testing.T, got []time.Time, want []time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Before(got[i]) {
			t.Errorf("occurrences not strictly increasing at %d: %v >= %v", i, got[i-1], got[i])
		}
	}
}

func TestProjectIntervalRoundTrip(t *testing.T) {
	sched := model.MedicationSchedule{StartDate: utc(2024, time.January, 1, 8, 0)}
	timing := model.ScheduleTiming{
		Time:       model.TimeOfDay{Hour: 8},
		Recurrence: model.IntervalRecurrence{Hours: 12},
	}

	got := ProjectOccurrences(sched, timing, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 3, 0, 0))
	checkOccurrences(t, got, []time.Time{
		utc(2024, time.January, 1, 8, 0),
		utc(2024, time.January, 1, 20, 0),
		utc(2024, time.January, 2, 8, 0),
		utc(2024, time.January, 2, 20, 0),
		utc(2024, time.January, 3, 8, 0),
		utc(2024, time.January, 3, 20, 0),
	})
}

func TestProjectIntervalWindowStartsMidSchedule(t *testing.T) {
	sched := model.MedicationSchedule{StartDate: utc(2024, time.January, 1, 8, 0)}
	timing := model.ScheduleTiming{
		Time:       model.TimeOfDay{Hour: 8},
		Recurrence: model.IntervalRecurrence{Hours: 12},
	}

	// Window opens at 09:00 on day two; 08:00 that day is stale and must not
	// be emitted.
	got := ProjectOccurrences(sched, timing, utc(2024, time.January, 2, 9, 0), utc(2024, time.January, 3, 0, 0))
	checkOccurrences(t, got, []time.Time{
		utc(2024, time.January, 2, 20, 0),
		utc(2024, time.January, 3, 8, 0),
		utc(2024, time.January, 3, 20, 0),
	})
}

func TestProjectIntervalAnchorAfterWindowStart(t *testing.T) {
	sched := model.MedicationSchedule{StartDate: utc(2024, time.January, 5, 8, 0)}
	timing := model.ScheduleTiming{
		Time:       model.TimeOfDay{Hour: 8},
		Recurrence: model.IntervalRecurrence{Hours: 24},
	}

	got := ProjectOccurrences(sched, timing, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 6, 0, 0))
	checkOccurrences(t, got, []time.Time{
		utc(2024, time.January, 5, 8, 0),
		utc(2024, time.January, 6, 8, 0),
	})
}

func TestProjectIntervalNonDayAlignedStaysAnchored(t *testing.T) {
	// A 7-hour interval does not divide 24, so occurrences drift across
	// days; they must stay on the anchor grid rather than resetting daily.
	sched := model.MedicationSchedule{StartDate: utc(2024, time.January, 1, 6, 0)}
	timing := model.ScheduleTiming{
		Time:       model.TimeOfDay{Hour: 6},
		Recurrence: model.IntervalRecurrence{Hours: 7},
	}

	got := ProjectOccurrences(sched, timing, utc(2024, time.January, 2, 0, 0), utc(2024, time.January, 2, 0, 0))
	checkOccurrences(t, got, []time.Time{
		utc(2024, time.January, 2, 3, 0),  // anchor + 3*7h
		utc(2024, time.January, 2, 10, 0), // anchor + 4*7h
		utc(2024, time.January, 2, 17, 0), // anchor + 5*7h
	})
}

func TestProjectWeeklyMondaysOfJanuary(t *testing.T) {
	// 2024-01-01 is a Monday.
	sched := model.MedicationSchedule{StartDate: utc(2024, time.January, 1, 0, 0)}
	timing := model.ScheduleTiming{
		Time:       model.TimeOfDay{Hour: 9},
		Recurrence: model.WeekdayRecurrence{Day: 1},
	}

	got := ProjectOccurrences(sched, timing, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 31, 0, 0))
	checkOccurrences(t, got, []time.Time{
		utc(2024, time.January, 1, 9, 0),
		utc(2024, time.January, 8, 9, 0),
		utc(2024, time.January, 15, 9, 0),
		utc(2024, time.January, 22, 9, 0),
		utc(2024, time.January, 29, 9, 0),
	})
}

func TestProjectWeeklySameDayBeforeStartSkipsToNextWeek(t *testing.T) {
	// Schedule starts Monday at 10:00; a Monday 09:00 timing may not fire
	// that same day.
	sched := model.MedicationSchedule{StartDate: utc(2024, time.January, 1, 10, 0)}
	timing := model.ScheduleTiming{
		Time:       model.TimeOfDay{Hour: 9},
		Recurrence: model.WeekdayRecurrence{Day: 1},
	}

	got := ProjectOccurrences(sched, timing, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 14, 0, 0))
	checkOccurrences(t, got, []time.Time{
		utc(2024, time.January, 8, 9, 0),
	})
}

func TestProjectWeeklySundayNumbering(t *testing.T) {
	// Day 0 is Sunday; 2024-01-07 is the first Sunday of the month.
	sched := model.MedicationSchedule{StartDate: utc(2024, time.January, 1, 0, 0)}
	timing := model.ScheduleTiming{
		Time:       model.TimeOfDay{Hour: 12},
		Recurrence: model.WeekdayRecurrence{Day: 0},
	}

	got := ProjectOccurrences(sched, timing, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 15, 0, 0))
	checkOccurrences(t, got, []time.Time{
		utc(2024, time.January, 7, 12, 0),
		utc(2024, time.January, 14, 12, 0),
	})
}

func TestProjectDailyEmitsEveryDay(t *testing.T) {
	sched := model.MedicationSchedule{StartDate: utc(2024, time.January, 1, 0, 0)}
	morning := model.ScheduleTiming{Time: model.TimeOfDay{Hour: 8}, Recurrence: model.DailyRecurrence{}}
	evening := model.ScheduleTiming{Time: model.TimeOfDay{Hour: 20}, Recurrence: model.DailyRecurrence{}}

	ws, we := utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 3, 0, 0)
	gotMorning := ProjectOccurrences(sched, morning, ws, we)
	gotEvening := ProjectOccurrences(sched, evening, ws, we)

	checkOccurrences(t, gotMorning, []time.Time{
		utc(2024, time.January, 1, 8, 0),
		utc(2024, time.January, 2, 8, 0),
		utc(2024, time.January, 3, 8, 0),
	})
	checkOccurrences(t, gotEvening, []time.Time{
		utc(2024, time.January, 1, 20, 0),
		utc(2024, time.January, 2, 20, 0),
		utc(2024, time.January, 3, 20, 0),
	})
}

func TestProjectEndDateBoundary(t *testing.T) {
	end := utc(2024, time.January, 2, 0, 0)
	sched := model.MedicationSchedule{StartDate: utc(2024, time.January, 1, 8, 0), EndDate: &end}

	tests := []struct {
		name   string
		timing model.ScheduleTiming
	}{
		{"interval", model.ScheduleTiming{Time: model.TimeOfDay{Hour: 8}, Recurrence: model.IntervalRecurrence{Hours: 12}}},
		{"weekly", model.ScheduleTiming{Time: model.TimeOfDay{Hour: 9}, Recurrence: model.WeekdayRecurrence{Day: 2}}},
		{"daily", model.ScheduleTiming{Time: model.TimeOfDay{Hour: 9}, Recurrence: model.DailyRecurrence{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectOccurrences(sched, tt.timing, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 31, 0, 0))
			if len(got) == 0 {
				t.Fatal("expected at least one occurrence")
			}
			for _, occ := range got {
				if occ.After(utc(2024, time.January, 2, 23, 59)) {
					t.Errorf("occurrence %v is past the schedule end date", occ)
				}
			}
		})
	}
}

func TestProjectStartDateBoundary(t *testing.T) {
	sched := model.MedicationSchedule{StartDate: utc(2024, time.January, 10, 7, 0)}

	tests := []struct {
		name   string
		timing model.ScheduleTiming
	}{
		{"interval", model.ScheduleTiming{Time: model.TimeOfDay{Hour: 7}, Recurrence: model.IntervalRecurrence{Hours: 8}}},
		{"weekly", model.ScheduleTiming{Time: model.TimeOfDay{Hour: 6}, Recurrence: model.WeekdayRecurrence{Day: 3}}},
		{"daily", model.ScheduleTiming{Time: model.TimeOfDay{Hour: 6}, Recurrence: model.DailyRecurrence{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectOccurrences(sched, tt.timing, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 31, 0, 0))
			for _, occ := range got {
				if occ.Before(sched.StartDate) {
					t.Errorf("occurrence %v precedes schedule start %v", occ, sched.StartDate)
				}
			}
		})
	}
}

func TestProjectWindowOutsideScheduleIsEmpty(t *testing.T) {
	end := utc(2024, time.January, 10, 0, 0)
	sched := model.MedicationSchedule{StartDate: utc(2024, time.January, 1, 0, 0), EndDate: &end}
	timing := model.ScheduleTiming{Time: model.TimeOfDay{Hour: 9}, Recurrence: model.DailyRecurrence{}}

	got := ProjectOccurrences(sched, timing, utc(2024, time.February, 1, 0, 0), utc(2024, time.February, 10, 0, 0))
	if len(got) != 0 {
		t.Errorf("expected no occurrences outside schedule bounds, got %v", got)
	}
}

func TestProjectInactiveRecurrenceKindsAreDefensive(t *testing.T) {
	sched := model.MedicationSchedule{StartDate: utc(2024, time.January, 1, 0, 0)}

	// A timing with no recurrence at all projects nothing instead of
	// panicking; malformed rows must not take the calendar down.
	got := ProjectOccurrences(sched, model.ScheduleTiming{Time: model.TimeOfDay{Hour: 9}}, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 3, 0, 0))
	if len(got) != 0 {
		t.Errorf("expected no occurrences for nil recurrence, got %v", got)
	}
}
