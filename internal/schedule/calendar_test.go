package schedule

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/iliyamo/med-schedule-service/internal/model"
)

// fakeStore is an in-memory implementation of every store interface the
// calendar builder depends on.
type fakeStore struct {
	prescriptions []model.Prescription
	schedules     []model.MedicationSchedule
	timings       []model.ScheduleTiming
	logs          []model.IntakeLog
	medicineNames map[uint64]string
}

func (f *fakeStore) ListByUser(_ context.Context, userID uint64) ([]model.Prescription, error) {
	var out []model.Prescription
	for _, p := range f.prescriptions {
		if p.UserID == userID && !p.IsDeleted {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListActiveInRange(_ context.Context, prescriptionIDs []uint64, start, end time.Time) ([]model.MedicationSchedule, error) {
	ids := map[uint64]bool{}
	for _, id := range prescriptionIDs {
		ids[id] = true
	}
	var out []model.MedicationSchedule
	for _, s := range f.schedules {
		if !ids[s.PrescriptionID] || !s.IsActive || s.IsDeleted {
			continue
		}
		if s.StartDate.After(end) {
			continue
		}
		if s.EndDate != nil && s.EndDate.Before(start) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) ListActiveBySchedules(_ context.Context, scheduleIDs []uint64) ([]model.ScheduleTiming, error) {
	ids := map[uint64]bool{}
	for _, id := range scheduleIDs {
		ids[id] = true
	}
	var out []model.ScheduleTiming
	for _, t := range f.timings {
		if ids[t.ScheduleID] && t.IsActive && !t.IsDeleted {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListBySchedulesInRange(_ context.Context, scheduleIDs []uint64, start, end time.Time) ([]model.IntakeLog, error) {
	ids := map[uint64]bool{}
	for _, id := range scheduleIDs {
		ids[id] = true
	}
	var out []model.IntakeLog
	for _, l := range f.logs {
		if ids[l.ScheduleID] && !l.IsDeleted && !l.ScheduledTime.Before(start) && l.ScheduledTime.Before(end.AddDate(0, 0, 1)) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) MedicineNamesByPrescriptionMedicine(_ context.Context, pmIDs []uint64) (map[uint64]string, error) {
	out := map[uint64]string{}
	for _, id := range pmIDs {
		if name, ok := f.medicineNames[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func newCalendarFixture() *fakeStore {
	end := utc(2024, time.January, 31, 0, 0)
	return &fakeStore{
		prescriptions: []model.Prescription{
			{ID: 10, UserID: 1, Name: "January course"},
		},
		schedules: []model.MedicationSchedule{
			{
				ID:                     100,
				PrescriptionID:         10,
				PrescriptionMedicineID: 1000,
				ScheduleName:           "Amoxicillin morning",
				StartDate:              utc(2024, time.January, 1, 0, 0),
				EndDate:                &end,
				IsActive:               true,
			},
		},
		timings: []model.ScheduleTiming{
			{
				ID:         500,
				ScheduleID: 100,
				Time:       model.TimeOfDay{Hour: 8},
				Dosage:     500,
				DosageUnit: "mg",
				Recurrence: model.DailyRecurrence{},
				IsActive:   true,
			},
		},
		medicineNames: map[uint64]string{1000: "Amoxicillin"},
	}
}

func TestBuildCalendarPlaceholders(t *testing.T) {
	store := newCalendarFixture()
	b := NewCalendarBuilder(store, store, store, store, store)

	items, err := b.BuildCalendar(context.Background(), 1, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 3, 0, 0))
	if err != nil {
		t.Fatalf("BuildCalendar: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, item := range items {
		if item.IntakeLogID != 0 || item.IsTaken || item.IsSkipped || item.TakenTime != nil {
			t.Errorf("item %d is not a clean placeholder: %+v", i, item)
		}
		if item.MedicineName != "Amoxicillin" {
			t.Errorf("item %d: MedicineName = %q", i, item.MedicineName)
		}
		if item.Dosage != 500 || item.DosageUnit != "mg" {
			t.Errorf("item %d: dosage = %v %s", i, item.Dosage, item.DosageUnit)
		}
		if item.ScheduleName != "Amoxicillin morning" || item.ScheduleID != 100 || item.PrescriptionID != 10 {
			t.Errorf("item %d carries wrong schedule identity: %+v", i, item)
		}
	}
}

func TestBuildCalendarReconciliation(t *testing.T) {
	store := newCalendarFixture()
	taken := utc(2024, time.January, 2, 8, 5)
	store.logs = []model.IntakeLog{
		{
			ID:            900,
			ScheduleID:    100,
			UserID:        1,
			ScheduledTime: utc(2024, time.January, 2, 8, 0),
			TakenTime:     &taken,
			IsTaken:       true,
			Notes:         "with breakfast",
		},
	}
	b := NewCalendarBuilder(store, store, store, store, store)

	items, err := b.BuildCalendar(context.Background(), 1, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 3, 0, 0))
	if err != nil {
		t.Fatalf("BuildCalendar: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	logged := items[1]
	if logged.IntakeLogID != 900 || !logged.IsTaken || logged.IsSkipped {
		t.Errorf("day-two item did not pick up its log: %+v", logged)
	}
	if logged.TakenTime == nil || !logged.TakenTime.Equal(taken) {
		t.Errorf("TakenTime = %v, want %v", logged.TakenTime, taken)
	}
	if logged.Notes != "with breakfast" {
		t.Errorf("Notes = %q", logged.Notes)
	}
	for _, i := range []int{0, 2} {
		if items[i].IntakeLogID != 0 {
			t.Errorf("item %d should be a placeholder: %+v", i, items[i])
		}
	}

	// Removing the log reverts the slot to placeholder form.
	store.logs = nil
	items, err = b.BuildCalendar(context.Background(), 1, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 3, 0, 0))
	if err != nil {
		t.Fatalf("BuildCalendar after log removal: %v", err)
	}
	if items[1].IntakeLogID != 0 || items[1].IsTaken || items[1].TakenTime != nil {
		t.Errorf("slot did not revert to placeholder: %+v", items[1])
	}
}

func TestBuildCalendarIsIdempotent(t *testing.T) {
	store := newCalendarFixture()
	b := NewCalendarBuilder(store, store, store, store, store)

	first, err := b.BuildCalendar(context.Background(), 1, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 5, 0, 0))
	if err != nil {
		t.Fatalf("BuildCalendar: %v", err)
	}
	second, err := b.BuildCalendar(context.Background(), 1, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 5, 0, 0))
	if err != nil {
		t.Fatalf("BuildCalendar: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs with no writes in between produced different calendars")
	}
}

func TestBuildCalendarUnknownMedicineSentinel(t *testing.T) {
	store := newCalendarFixture()
	delete(store.medicineNames, 1000)
	b := NewCalendarBuilder(store, store, store, store, store)

	items, err := b.BuildCalendar(context.Background(), 1, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 1, 0, 0))
	if err != nil {
		t.Fatalf("BuildCalendar: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].MedicineName != model.UnknownMedicineName {
		t.Errorf("MedicineName = %q, want sentinel %q", items[0].MedicineName, model.UnknownMedicineName)
	}
}

func TestBuildCalendarSortsAcrossSchedules(t *testing.T) {
	store := newCalendarFixture()
	store.schedules = append(store.schedules, model.MedicationSchedule{
		ID:                     101,
		PrescriptionID:         10,
		PrescriptionMedicineID: 1001,
		ScheduleName:           "Ibuprofen evening",
		StartDate:              utc(2024, time.January, 1, 0, 0),
		IsActive:               true,
	})
	store.timings = append(store.timings, model.ScheduleTiming{
		ID:         501,
		ScheduleID: 101,
		Time:       model.TimeOfDay{Hour: 20},
		Dosage:     200,
		DosageUnit: "mg",
		Recurrence: model.DailyRecurrence{},
		IsActive:   true,
	})
	store.medicineNames[1001] = "Ibuprofen"
	b := NewCalendarBuilder(store, store, store, store, store)

	items, err := b.BuildCalendar(context.Background(), 1, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 2, 0, 0))
	if err != nil {
		t.Fatalf("BuildCalendar: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].ScheduledTime.Before(items[i-1].ScheduledTime) {
			t.Errorf("items not sorted by scheduled time at %d: %v before %v", i, items[i].ScheduledTime, items[i-1].ScheduledTime)
		}
	}
	// Interleaved: 08:00 / 20:00 / 08:00 / 20:00 across the two schedules.
	wantSchedules := []uint64{100, 101, 100, 101}
	for i, want := range wantSchedules {
		if items[i].ScheduleID != want {
			t.Errorf("item %d: ScheduleID = %d, want %d", i, items[i].ScheduleID, want)
		}
	}
}

func TestBuildCalendarNoPrescriptions(t *testing.T) {
	store := &fakeStore{}
	b := NewCalendarBuilder(store, store, store, store, store)

	items, err := b.BuildCalendar(context.Background(), 99, utc(2024, time.January, 1, 0, 0), utc(2024, time.January, 31, 0, 0))
	if err != nil {
		t.Fatalf("BuildCalendar: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty calendar, got %d items", len(items))
	}
}
