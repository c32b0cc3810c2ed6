package handler

import (
	"context"
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

// ScheduleHandler manages medication schedules and their generated timings.
// Creating a schedule expands the submitted timing rule into concrete timing
// rows inside one transaction so a schedule never exists half-populated.
type ScheduleHandler struct {
	Prescriptions *repository.PrescriptionRepo
	Schedules     *repository.ScheduleRepo
	Timings       *repository.TimingRepo
	Clock         schedule.Clock
}

// NewScheduleHandler constructs a ScheduleHandler.  A nil clock falls back
// to wall time.
func NewScheduleHandler(p *repository.PrescriptionRepo, s *repository.ScheduleRepo, t *repository.TimingRepo, clock schedule.Clock) *ScheduleHandler {
	if p == nil || s == nil || t == nil {
		panic("nil repository passed to NewScheduleHandler")
	}
	if clock == nil {
		clock = schedule.SystemClock()
	}
	return &ScheduleHandler{Prescriptions: p, Schedules: s, Timings: t, Clock: clock}
}

// timingRuleReq is the wire form of a timing rule.  Exactly the fields for
// the declared type must be present; the rest are ignored.
type timingRuleReq struct {
	Type  string   `json:"type"`            // INTERVAL | WEEKLY | DAILY
	Hours int      `json:"hours,omitempty"` // INTERVAL: spacing between doses
	Days  []int    `json:"days,omitempty"`  // WEEKLY: weekdays, 0=Sunday .. 6=Saturday
	Time  string   `json:"time,omitempty"`  // WEEKLY: shared time of day "HH:MM"
	Times []string `json:"times,omitempty"` // DAILY: one or more times of day
}

// toRule converts the wire form into the internal rule representation.
// Malformed time strings surface as an invalid-rule error so the handler
// reports them as 400 like every other rule violation.
func (r timingRuleReq) toRule() (model.TimingRule, error) {
	switch strings.ToUpper(strings.TrimSpace(r.Type)) {
	case "INTERVAL":
		return model.IntervalRule{Hours: r.Hours}, nil
	case "WEEKLY":
		t, err := model.ParseTimeOfDay(r.Time)
		if err != nil {
			return nil, schedule.InvalidRule("weekly rule time %q: %v", r.Time, err)
		}
		return model.WeeklyRule{Days: r.Days, Time: t}, nil
	case "DAILY":
		times := make([]model.TimeOfDay, 0, len(r.Times))
		for _, s := range r.Times {
			t, err := model.ParseTimeOfDay(s)
			if err != nil {
				return nil, schedule.InvalidRule("daily rule time %q: %v", s, err)
			}
			times = append(times, t)
		}
		return model.DailyRule{Times: times}, nil
	}
	return nil, schedule.InvalidRule("unknown rule type %q", r.Type)
}

type createScheduleReq struct {
	PrescriptionID         uint64        `json:"prescription_id"`
	PrescriptionMedicineID uint64        `json:"prescription_medicine_id"`
	ScheduleName           string        `json:"schedule_name"`
	StartDate              string        `json:"start_date"`
	EndDate                string        `json:"end_date,omitempty"`
	Dosage                 float64       `json:"dosage"`
	DosageUnit             string        `json:"dosage_unit"`
	TimingRule             timingRuleReq `json:"timing_rule"`
}

// Create handles POST /v1/schedules.  The schedule row and every generated
// timing row are committed atomically; on success a schedule.created event is
// published best-effort.
func (h *ScheduleHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createScheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.ScheduleName = strings.TrimSpace(req.ScheduleName)
	if req.PrescriptionID == 0 || req.PrescriptionMedicineID == 0 || req.ScheduleName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prescription_id, prescription_medicine_id and schedule_name are required"})
	}
	if req.Dosage <= 0 || strings.TrimSpace(req.DosageUnit) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dosage and dosage_unit are required"})
	}
	startDate, err := parseDay(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
	}
	var endDate *time.Time
	if strings.TrimSpace(req.EndDate) != "" {
		ed, err := parseDay(req.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
		}
		if ed.Before(startDate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date precedes start_date"})
		}
		endDate = &ed
	}

	ctx := c.Request().Context()
	// ownership: the prescription must belong to the caller
	if _, err := h.Prescriptions.GetOwned(ctx, req.PrescriptionID, userID); err != nil {
		switch err {
		case repository.ErrPrescriptionNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prescription not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	// the medicine link must exist and belong to the same prescription
	pm, err := h.Prescriptions.GetMedicineLink(ctx, req.PrescriptionMedicineID)
	if err != nil || pm.PrescriptionID != req.PrescriptionID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prescription_medicine_id does not belong to prescription"})
	}

	rule, err := req.TimingRule.toRule()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	sched := model.MedicationSchedule{
		PrescriptionID:         req.PrescriptionID,
		PrescriptionMedicineID: req.PrescriptionMedicineID,
		ScheduleName:           req.ScheduleName,
		StartDate:              startDate,
		EndDate:                endDate,
		IsActive:               true,
	}
	// expand the rule before touching the database so rule violations never
	// cost a transaction
	timings, err := schedule.GenerateTimings(sched, rule, req.Dosage, strings.TrimSpace(req.DosageUnit), h.Clock)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidRule) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate timings failed"})
	}

	tx, err := h.Schedules.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Schedules.CreateTx(ctx, tx, &sched); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create schedule failed"})
	}
	for i := range timings {
		timings[i].ScheduleID = sched.ID
	}
	if err := h.Timings.CreateBulkTx(ctx, tx, timings); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create timings failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.publishCreated(ctx, userID, sched, req, len(timings))

	saved, err := h.Timings.ListBySchedule(ctx, sched.ID)
	if err != nil {
		saved = timings // commit already succeeded, fall back to the in-memory rows
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": sched, "timings": saved})
}

// publishCreated emits the schedule.created event.  Failures are swallowed;
// the schedule is already committed.
func (h *ScheduleHandler) publishCreated(ctx context.Context, userID uint64, sched model.MedicationSchedule, req createScheduleReq, timingCount int) {
	medName := model.UnknownMedicineName
	if names, err := h.Prescriptions.MedicineNamesByPrescriptionMedicine(ctx, []uint64{sched.PrescriptionMedicineID}); err == nil {
		if n, ok := names[sched.PrescriptionMedicineID]; ok {
			medName = n
		}
	}
	end := ""
	if sched.EndDate != nil {
		end = sched.EndDate.UTC().Format("2006-01-02")
	}
	_ = queue_publisher.PublishScheduleCreated(ctx, queue.ScheduleCreatedEvent{
		EventID:        uuid.NewString(),
		ScheduleID:     sched.ID,
		PrescriptionID: sched.PrescriptionID,
		UserID:         userID,
		ScheduleName:   sched.ScheduleName,
		MedicineName:   medName,
		TimingCount:    timingCount,
		Dosage:         req.Dosage,
		DosageUnit:     strings.TrimSpace(req.DosageUnit),
		StartDate:      sched.StartDate.UTC().Format("2006-01-02"),
		EndDate:        end,
		CreatedAt:      h.Clock.Now().UTC().Format(time.RFC3339),
	})
}

// List handles GET /v1/schedules and returns every schedule across the
// caller's prescriptions.
func (h *ScheduleHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Schedules.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/schedules/:id with the schedule's timings inline.
func (h *ScheduleHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx := c.Request().Context()
	if err := h.requireOwner(ctx, id, userID); err != nil {
		return respondOwnership(c, err)
	}
	sched, err := h.Schedules.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	timings, err := h.Timings.ListBySchedule(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": sched, "timings": timings})
}

// SetActive handles PATCH /v1/schedules/:id/active with {"is_active": bool}.
// Deactivated schedules drop out of calendar projection without losing
// history.
func (h *ScheduleHandler) SetActive(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil || body.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active is required"})
	}
	ctx := c.Request().Context()
	if err := h.requireOwner(ctx, id, userID); err != nil {
		return respondOwnership(c, err)
	}
	if err := h.Schedules.SetActive(ctx, id, *body.IsActive); err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update schedule failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": *body.IsActive})
}

// Delete handles DELETE /v1/schedules/:id.  The schedule and its timings are
// soft-deleted together.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx := c.Request().Context()
	if err := h.requireOwner(ctx, id, userID); err != nil {
		return respondOwnership(c, err)
	}
	if err := h.Schedules.SoftDelete(ctx, id); err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete schedule failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// requireOwner resolves the schedule's owner and compares it to the caller.
func (h *ScheduleHandler) requireOwner(ctx context.Context, scheduleID, userID uint64) error {
	owner, err := h.Schedules.OwnerOf(ctx, scheduleID)
	if err != nil {
		return err
	}
	if owner != userID {
		return repository.ErrForbidden
	}
	return nil
}

func respondOwnership(c echo.Context, err error) error {
	switch err {
	case repository.ErrScheduleNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
