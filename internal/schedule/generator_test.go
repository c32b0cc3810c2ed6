package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/med-schedule-service/internal/model"
)

func mustTOD(t *testing.T, s string) model.TimeOfDay {
	t.Helper()
	tod, err := model.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", s, err)
	}
	return tod
}

func TestGenerateTimingsInterval(t *testing.T) {
	sched := model.MedicationSchedule{
		ID:        42,
		StartDate: time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC),
	}
	clock := FixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	timings, err := GenerateTimings(sched, model.IntervalRule{Hours: 12}, 500, "mg", clock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(timings) != 1 {
		t.Fatalf("expected 1 timing, got %d", len(timings))
	}
	tm := timings[0]
	if tm.ScheduleID != 42 {
		t.Errorf("ScheduleID = %d, want 42", tm.ScheduleID)
	}
	if tm.Time != (model.TimeOfDay{Hour: 8, Minute: 30}) {
		t.Errorf("Time = %v, want 08:30:00", tm.Time)
	}
	rec, ok := tm.Recurrence.(model.IntervalRecurrence)
	if !ok || rec.Hours != 12 {
		t.Errorf("Recurrence = %#v, want IntervalRecurrence{12}", tm.Recurrence)
	}
	if !tm.IsActive {
		t.Error("generated timing should be active")
	}
	if !tm.CreatedAt.Equal(clock.Now()) {
		t.Errorf("CreatedAt = %v, want fixed clock time", tm.CreatedAt)
	}
	if tm.Dosage != 500 || tm.DosageUnit != "mg" {
		t.Errorf("dosage = %v %s, want 500 mg", tm.Dosage, tm.DosageUnit)
	}
}

func TestGenerateTimingsWeekly(t *testing.T) {
	sched := model.MedicationSchedule{ID: 7, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rule := model.WeeklyRule{Days: []int{1, 3, 5}, Time: mustTOD(t, "09:00")}

	timings, err := GenerateTimings(sched, rule, 250, "mg", FixedClock(time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(timings) != 3 {
		t.Fatalf("expected 3 timings, got %d", len(timings))
	}
	for i, want := range []int{1, 3, 5} {
		rec, ok := timings[i].Recurrence.(model.WeekdayRecurrence)
		if !ok || rec.Day != want {
			t.Errorf("timing %d: Recurrence = %#v, want WeekdayRecurrence{%d}", i, timings[i].Recurrence, want)
		}
		if timings[i].Time != (model.TimeOfDay{Hour: 9}) {
			t.Errorf("timing %d: Time = %v, want 09:00:00", i, timings[i].Time)
		}
	}
}

func TestGenerateTimingsDaily(t *testing.T) {
	sched := model.MedicationSchedule{ID: 9, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rule := model.DailyRule{Times: []model.TimeOfDay{mustTOD(t, "08:00"), mustTOD(t, "20:00")}}

	timings, err := GenerateTimings(sched, rule, 1, "tablet", FixedClock(time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(timings) != 2 {
		t.Fatalf("expected 2 timings, got %d", len(timings))
	}
	for i, tm := range timings {
		if _, ok := tm.Recurrence.(model.DailyRecurrence); !ok {
			t.Errorf("timing %d: Recurrence = %#v, want DailyRecurrence", i, tm.Recurrence)
		}
	}
	if timings[0].Time != (model.TimeOfDay{Hour: 8}) || timings[1].Time != (model.TimeOfDay{Hour: 20}) {
		t.Errorf("times = %v, %v; want 08:00:00 and 20:00:00", timings[0].Time, timings[1].Time)
	}
}

func TestGenerateTimingsInvalidRules(t *testing.T) {
	sched := model.MedicationSchedule{ID: 1, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	nine := model.TimeOfDay{Hour: 9}

	tests := []struct {
		name string
		rule model.TimingRule
	}{
		{"interval zero hours", model.IntervalRule{Hours: 0}},
		{"interval negative hours", model.IntervalRule{Hours: -6}},
		{"weekly empty days", model.WeeklyRule{Days: nil, Time: nine}},
		{"weekly day out of range high", model.WeeklyRule{Days: []int{1, 7}, Time: nine}},
		{"weekly day out of range low", model.WeeklyRule{Days: []int{-1}, Time: nine}},
		{"daily empty times", model.DailyRule{Times: nil}},
		{"nil rule", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timings, err := GenerateTimings(sched, tt.rule, 100, "mg", FixedClock(time.Now()))
			if !errors.Is(err, ErrInvalidRule) {
				t.Fatalf("error = %v, want ErrInvalidRule", err)
			}
			if len(timings) != 0 {
				t.Errorf("expected zero generated timings, got %d", len(timings))
			}
		})
	}
}

func TestValidateIntakeFlags(t *testing.T) {
	if err := ValidateIntakeFlags(true, true); !errors.Is(err, ErrInvalidRule) {
		t.Errorf("taken+skipped: error = %v, want ErrInvalidRule", err)
	}
	for _, pair := range [][2]bool{{false, false}, {true, false}, {false, true}} {
		if err := ValidateIntakeFlags(pair[0], pair[1]); err != nil {
			t.Errorf("ValidateIntakeFlags(%v, %v) = %v, want nil", pair[0], pair[1], err)
		}
	}
}
