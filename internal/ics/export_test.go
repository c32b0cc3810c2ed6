package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/med-schedule-service/internal/model"
)

func TestExportProducesStableUIDs(t *testing.T) {
	when := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	items := []model.CalendarItem{{
		ScheduleID:    42,
		ScheduleName:  "Amoxicillin morning",
		MedicineName:  "Amoxicillin",
		ScheduledTime: when,
		Dosage:        500,
		DosageUnit:    "mg",
	}}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := Export(items, now)
	second := Export(items, now)
	if first != second {
		t.Fatal("export is not deterministic for identical input")
	}
	if !strings.Contains(first, "BEGIN:VCALENDAR") || !strings.Contains(first, "BEGIN:VEVENT") {
		t.Fatal("missing calendar or event envelope")
	}
	wantUID := "42-1704182400@med-schedule-service"
	if !strings.Contains(first, wantUID) {
		t.Fatalf("expected UID %s in output:\n%s", wantUID, first)
	}
	if !strings.Contains(first, "Amoxicillin 500 mg") {
		t.Fatalf("expected summary in output:\n%s", first)
	}
}

func TestExportStatusInDescription(t *testing.T) {
	when := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	taken := when.Add(5 * time.Minute)
	items := []model.CalendarItem{{
		ScheduleID:    7,
		ScheduleName:  "Evening dose",
		MedicineName:  "Metformin",
		ScheduledTime: when,
		Dosage:        850,
		DosageUnit:    "mg",
		IsTaken:       true,
		TakenTime:     &taken,
		Notes:         "with food",
	}}
	out := Export(items, when)
	if !strings.Contains(out, "Status: taken") {
		t.Fatalf("expected taken status in description:\n%s", out)
	}
	if !strings.Contains(out, "Notes: with food") {
		t.Fatalf("expected notes in description:\n%s", out)
	}
}

func TestExportEmptyCalendar(t *testing.T) {
	out := Export(nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if !strings.Contains(out, "BEGIN:VCALENDAR") {
		t.Fatal("empty export should still be a valid calendar")
	}
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatal("empty export should contain no events")
	}
}
