package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/med-schedule-service/internal/model"
	"github.com/iliyamo/med-schedule-service/internal/queue"
	"github.com/iliyamo/med-schedule-service/internal/repository"
	"github.com/iliyamo/med-schedule-service/internal/schedule"
	queue_publisher "github.com/iliyamo/med-schedule-service/internal/service"
)

// IntakeHandler records whether scheduled doses were taken or skipped.  A
// dose may be marked taken or skipped but never both; violations are
// rejected before any row is written.
type IntakeHandler struct {
	Logs      *repository.IntakeLogRepo
	Schedules *repository.ScheduleRepo
	Clock     schedule.Clock
}

// NewIntakeHandler constructs an IntakeHandler.
func NewIntakeHandler(l *repository.IntakeLogRepo, s *repository.ScheduleRepo, clock schedule.Clock) *IntakeHandler {
	if l == nil || s == nil {
		panic("nil repository passed to NewIntakeHandler")
	}
	if clock == nil {
		clock = schedule.SystemClock()
	}
	return &IntakeHandler{Logs: l, Schedules: s, Clock: clock}
}

func intakeStatus(l model.IntakeLog) string {
	switch {
	case l.IsTaken:
		return "TAKEN"
	case l.IsSkipped:
		return "SKIPPED"
	}
	return "PENDING"
}

// Create handles POST /v1/intake-logs.  client_ref is an optional
// client-supplied UUID; resubmitting the same client_ref returns the
// original row instead of writing a duplicate.
func (h *IntakeHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ScheduleID    uint64 `json:"schedule_id"`
		ClientRef     string `json:"client_ref"`
		ScheduledTime string `json:"scheduled_time"`
		TakenTime     string `json:"taken_time"`
		IsTaken       bool   `json:"is_taken"`
		IsSkipped     bool   `json:"is_skipped"`
		Notes         string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil || body.ScheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id is required"})
	}
	if err := schedule.ValidateIntakeFlags(body.IsTaken, body.IsSkipped); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(body.ScheduledTime))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid scheduled_time"})
	}
	clientRef := strings.TrimSpace(body.ClientRef)
	if clientRef == "" {
		clientRef = uuid.NewString()
	} else if _, err := uuid.Parse(clientRef); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_ref must be a UUID"})
	}
	var takenAt *time.Time
	if strings.TrimSpace(body.TakenTime) != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(body.TakenTime))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid taken_time"})
		}
		tt := t.UTC()
		takenAt = &tt
	}
	if body.IsTaken && takenAt == nil {
		now := h.Clock.Now().UTC()
		takenAt = &now
	}

	ctx := c.Request().Context()
	owner, err := h.Schedules.OwnerOf(ctx, body.ScheduleID)
	if err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if owner != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	l := model.IntakeLog{
		ScheduleID:    body.ScheduleID,
		UserID:        userID,
		ClientRef:     clientRef,
		ScheduledTime: scheduledAt.UTC(),
		TakenTime:     takenAt,
		IsTaken:       body.IsTaken,
		IsSkipped:     body.IsSkipped,
		Notes:         strings.TrimSpace(body.Notes),
	}
	if err := h.Logs.Create(ctx, &l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create intake log failed"})
	}

	_ = queue_publisher.PublishDoseRecorded(ctx, queue.DoseRecordedEvent{
		EventID:       uuid.NewString(),
		IntakeLogID:   l.ID,
		ScheduleID:    l.ScheduleID,
		UserID:        userID,
		ScheduledTime: l.ScheduledTime.Format(time.RFC3339),
		Status:        intakeStatus(l),
		RecordedAt:    h.Clock.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"item": l})
}

// List handles GET /v1/intake-logs?from=...&to=... for the current user.
func (h *IntakeHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	from, err := parseDay(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from"})
	}
	to, err := parseDay(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to"})
	}
	if to.Before(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to precedes from"})
	}
	// widen "to" so a calendar date covers its whole day
	to = to.Add(24*time.Hour - time.Second)
	items, err := h.Logs.ListByUserInRange(c.Request().Context(), userID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PATCH /v1/intake-logs/:id.  Flags, taken_time and notes can
// change; the scheduled occurrence cannot.
func (h *IntakeHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid intake log id"})
	}
	var body struct {
		TakenTime *string `json:"taken_time"`
		IsTaken   *bool   `json:"is_taken"`
		IsSkipped *bool   `json:"is_skipped"`
		Notes     *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	l, err := h.Logs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrIntakeLogNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "intake log not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if l.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if body.IsTaken != nil {
		l.IsTaken = *body.IsTaken
	}
	if body.IsSkipped != nil {
		l.IsSkipped = *body.IsSkipped
	}
	if err := schedule.ValidateIntakeFlags(l.IsTaken, l.IsSkipped); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if body.Notes != nil {
		l.Notes = strings.TrimSpace(*body.Notes)
	}
	if body.TakenTime != nil {
		if strings.TrimSpace(*body.TakenTime) == "" {
			l.TakenTime = nil
		} else {
			t, err := time.Parse(time.RFC3339, strings.TrimSpace(*body.TakenTime))
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid taken_time"})
			}
			tt := t.UTC()
			l.TakenTime = &tt
		}
	}
	if l.IsTaken && l.TakenTime == nil {
		now := h.Clock.Now().UTC()
		l.TakenTime = &now
	}
	if !l.IsTaken {
		l.TakenTime = nil
	}

	if err := h.Logs.Update(ctx, &l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update intake log failed"})
	}

	_ = queue_publisher.PublishDoseRecorded(ctx, queue.DoseRecordedEvent{
		EventID:       uuid.NewString(),
		IntakeLogID:   l.ID,
		ScheduleID:    l.ScheduleID,
		UserID:        userID,
		ScheduledTime: l.ScheduledTime.Format(time.RFC3339),
		Status:        intakeStatus(l),
		RecordedAt:    h.Clock.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"item": l})
}

// Delete handles DELETE /v1/intake-logs/:id.
func (h *IntakeHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid intake log id"})
	}
	if err := h.Logs.SoftDelete(c.Request().Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrIntakeLogNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "intake log not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete intake log failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
