package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/med-schedule-service/internal/model"
)

// PrescriptionStore lists the prescriptions owned by a user.  Implementations
// must exclude soft-deleted rows.
type PrescriptionStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Prescription, error)
}

// ScheduleStore lists active schedules under a set of prescriptions that
// overlap a date range.  Implementations must exclude soft-deleted and
// inactive rows and rows whose [StartDate, EndDate] does not intersect
// [start, end].
type ScheduleStore interface {
	ListActiveInRange(ctx context.Context, prescriptionIDs []uint64, start, end time.Time) ([]model.MedicationSchedule, error)
}

// TimingStore lists active timings for a set of schedules.
type TimingStore interface {
	ListActiveBySchedules(ctx context.Context, scheduleIDs []uint64) ([]model.ScheduleTiming, error)
}

// IntakeLogStore lists intake logs for a set of schedules whose scheduled
// time falls inside [start, end].
type IntakeLogStore interface {
	ListBySchedulesInRange(ctx context.Context, scheduleIDs []uint64, start, end time.Time) ([]model.IntakeLog, error)
}

// MedicineNameStore resolves prescription-medicine IDs to medicine display
// names in one batch.
type MedicineNameStore interface {
	MedicineNamesByPrescriptionMedicine(ctx context.Context, pmIDs []uint64) (map[uint64]string, error)
}

// CalendarBuilder assembles a user's medication calendar for a date range.
// It performs one batch read per entity type and no writes, so it may be
// shared freely across concurrent requests.
type CalendarBuilder struct {
	Prescriptions PrescriptionStore
	Schedules     ScheduleStore
	Timings       TimingStore
	IntakeLogs    IntakeLogStore
	Medicines     MedicineNameStore
}

// NewCalendarBuilder constructs a CalendarBuilder and panics if any
// dependency is nil.
func NewCalendarBuilder(p PrescriptionStore, s ScheduleStore, t TimingStore, l IntakeLogStore, m MedicineNameStore) *CalendarBuilder {
	if p == nil || s == nil || t == nil || l == nil || m == nil {
		panic("nil store passed to NewCalendarBuilder")
	}
	return &CalendarBuilder{Prescriptions: p, Schedules: s, Timings: t, IntakeLogs: l, Medicines: m}
}

// logKey identifies the dose occurrence an intake log belongs to: the owning
// schedule plus the exact UTC instant the dose was due.
type logKey struct {
	scheduleID uint64
	unix       int64
}

// BuildCalendar projects every active timing of every active schedule owned
// by userID over [start, end], reconciles the occurrences against existing
// intake logs and returns the merged items sorted by scheduled time.
//
// A schedule whose medicine lookup chain is broken gets the
// model.UnknownMedicineName sentinel instead of failing the whole calendar.
// Only infrastructure errors (storage failures) are returned.
func (b *CalendarBuilder) BuildCalendar(ctx context.Context, userID uint64, start, end time.Time) ([]model.CalendarItem, error) {
	start = start.UTC()
	end = end.UTC()

	prescriptions, err := b.Prescriptions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(prescriptions) == 0 {
		return []model.CalendarItem{}, nil
	}
	prescriptionIDs := make([]uint64, 0, len(prescriptions))
	for _, p := range prescriptions {
		prescriptionIDs = append(prescriptionIDs, p.ID)
	}

	schedules, err := b.Schedules.ListActiveInRange(ctx, prescriptionIDs, start, end)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return []model.CalendarItem{}, nil
	}

	scheduleIDs := make([]uint64, 0, len(schedules))
	pmIDs := make([]uint64, 0, len(schedules))
	for _, s := range schedules {
		scheduleIDs = append(scheduleIDs, s.ID)
		pmIDs = append(pmIDs, s.PrescriptionMedicineID)
	}

	timings, err := b.Timings.ListActiveBySchedules(ctx, scheduleIDs)
	if err != nil {
		return nil, err
	}
	logs, err := b.IntakeLogs.ListBySchedulesInRange(ctx, scheduleIDs, start, end)
	if err != nil {
		return nil, err
	}
	medicineNames, err := b.Medicines.MedicineNamesByPrescriptionMedicine(ctx, pmIDs)
	if err != nil {
		return nil, err
	}

	timingsBySchedule := make(map[uint64][]model.ScheduleTiming, len(schedules))
	for _, t := range timings {
		timingsBySchedule[t.ScheduleID] = append(timingsBySchedule[t.ScheduleID], t)
	}
	logsByOccurrence := make(map[logKey]model.IntakeLog, len(logs))
	for _, l := range logs {
		logsByOccurrence[logKey{scheduleID: l.ScheduleID, unix: l.ScheduledTime.UTC().Unix()}] = l
	}

	items := make([]model.CalendarItem, 0, len(schedules)*4)
	for _, s := range schedules {
		name, ok := medicineNames[s.PrescriptionMedicineID]
		if !ok || name == "" {
			name = model.UnknownMedicineName
		}
		for _, t := range timingsBySchedule[s.ID] {
			for _, occ := range ProjectOccurrences(s, t, start, end) {
				item := model.CalendarItem{
					ScheduleID:             s.ID,
					PrescriptionID:         s.PrescriptionID,
					PrescriptionMedicineID: s.PrescriptionMedicineID,
					ScheduleName:           s.ScheduleName,
					MedicineName:           name,
					ScheduledTime:          occ,
					Dosage:                 t.Dosage,
					DosageUnit:             t.DosageUnit,
				}
				if l, ok := logsByOccurrence[logKey{scheduleID: s.ID, unix: occ.Unix()}]; ok {
					item.IntakeLogID = l.ID
					item.IsTaken = l.IsTaken
					item.IsSkipped = l.IsSkipped
					item.TakenTime = l.TakenTime
					item.Notes = l.Notes
				}
				items = append(items, item)
			}
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].ScheduledTime.Equal(items[j].ScheduledTime) {
			return items[i].ScheduledTime.Before(items[j].ScheduledTime)
		}
		if items[i].ScheduleID != items[j].ScheduleID {
			return items[i].ScheduleID < items[j].ScheduleID
		}
		return items[i].MedicineName < items[j].MedicineName
	})
	return items, nil
}
