// Package ics renders a user's medication calendar as an iCalendar feed so it
// can be subscribed to from standard calendar clients.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/iliyamo/med-schedule-service/internal/model"
)

// doseEventDuration is the display length of a dose event. Doses are point
// events; fifteen minutes keeps them visible in day views.
const doseEventDuration = 15 * time.Minute

// Export serializes calendar items into an iCalendar (RFC 5545) document.
// Event UIDs are derived from the schedule id and the occurrence instant so a
// re-exported feed updates in place instead of duplicating events.
func Export(items []model.CalendarItem, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//med-schedule-service//calendar//EN")

	for _, it := range items {
		uid := fmt.Sprintf("%d-%d@med-schedule-service", it.ScheduleID, it.ScheduledTime.UTC().Unix())
		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(now.UTC())
		ev.SetStartAt(it.ScheduledTime.UTC())
		ev.SetEndAt(it.ScheduledTime.UTC().Add(doseEventDuration))
		ev.SetSummary(fmt.Sprintf("%s %.4g %s", it.MedicineName, it.Dosage, it.DosageUnit))
		ev.SetDescription(describe(it))
	}
	return cal.Serialize()
}

func describe(it model.CalendarItem) string {
	status := "pending"
	switch {
	case it.IsTaken:
		status = "taken"
	case it.IsSkipped:
		status = "skipped"
	}
	desc := fmt.Sprintf("Schedule: %s\nStatus: %s", it.ScheduleName, status)
	if it.Notes != "" {
		desc += "\nNotes: " + it.Notes
	}
	return desc
}
