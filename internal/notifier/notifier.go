// Package notifier runs the periodic dose reminder scan. On every cron tick
// it walks active users, projects their upcoming calendar window and publishes
// a dose.due event for each occurrence that has not been taken or skipped yet.
package notifier

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/iliyamo/med-schedule-service/internal/queue"
	"github.com/iliyamo/med-schedule-service/internal/schedule"
	queue_publisher "github.com/iliyamo/med-schedule-service/internal/service"
)

// UserSource lists the users the scanner should consider.
type UserSource interface {
	ListActiveIDs(ctx context.Context) ([]uint64, error)
}

// Notifier owns the cron runner and the calendar builder used to project
// upcoming doses.
type Notifier struct {
	users    UserSource
	builder  *schedule.CalendarBuilder
	clock    schedule.Clock
	ahead    time.Duration
	cronSpec string
	runner   *cron.Cron
}

// New constructs a Notifier. aheadMin is the look-ahead window in minutes;
// cronSpec is a standard five-field cron expression.
func New(users UserSource, builder *schedule.CalendarBuilder, clock schedule.Clock, cronSpec string, aheadMin int) *Notifier {
	if users == nil || builder == nil {
		panic("nil dependency passed to notifier.New")
	}
	if clock == nil {
		clock = schedule.SystemClock()
	}
	return &Notifier{
		users:    users,
		builder:  builder,
		clock:    clock,
		ahead:    time.Duration(aheadMin) * time.Minute,
		cronSpec: cronSpec,
	}
}

// Start registers the scan on the cron schedule and begins running it in the
// background. Returns an error only if the cron expression is invalid.
func (n *Notifier) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(n.cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n.Scan(ctx)
	}); err != nil {
		return err
	}
	c.Start()
	n.runner = c
	return nil
}

// Stop halts the cron runner. Safe to call on a never-started Notifier.
func (n *Notifier) Stop() {
	if n.runner != nil {
		n.runner.Stop()
	}
}

// Scan performs a single reminder pass over all active users. Publish
// failures are logged and do not stop the pass; a broker outage should not
// take the scanner down.
func (n *Notifier) Scan(ctx context.Context) {
	now := n.clock.Now().UTC()
	until := now.Add(n.ahead)

	ids, err := n.users.ListActiveIDs(ctx)
	if err != nil {
		log.Printf("notifier: list users failed: %v", err)
		return
	}

	published := 0
	for _, userID := range ids {
		items, err := n.builder.BuildCalendar(ctx, userID, now, until)
		if err != nil {
			log.Printf("notifier: build calendar for user %d failed: %v", userID, err)
			continue
		}
		for _, it := range items {
			if it.IsTaken || it.IsSkipped {
				continue
			}
			// The builder projects whole days; keep only doses inside the
			// exact look-ahead window.
			if it.ScheduledTime.Before(now) || it.ScheduledTime.After(until) {
				continue
			}
			ev := queue.DoseDueEvent{
				EventID:       uuid.NewString(),
				ScheduleID:    it.ScheduleID,
				UserID:        userID,
				MedicineName:  it.MedicineName,
				ScheduleName:  it.ScheduleName,
				ScheduledTime: it.ScheduledTime.UTC().Format(time.RFC3339),
				Dosage:        it.Dosage,
				DosageUnit:    it.DosageUnit,
			}
			if err := queue_publisher.PublishDoseDue(ctx, ev); err != nil {
				continue // already logged by the publisher
			}
			published++
		}
	}
	if published > 0 {
		log.Printf("notifier: published %d dose.due events", published)
	}
}
