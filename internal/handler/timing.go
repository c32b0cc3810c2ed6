package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/med-schedule-service/internal/model"
	"github.com/iliyamo/med-schedule-service/internal/repository"
	"github.com/iliyamo/med-schedule-service/internal/schedule"
)

// TimingHandler exposes the timing rows generated for a schedule.  Timings
// are created through schedule creation only; here they can be listed, tuned
// and retired.
type TimingHandler struct {
	Timings   *repository.TimingRepo
	Schedules *repository.ScheduleRepo
}

// NewTimingHandler constructs a TimingHandler.
func NewTimingHandler(t *repository.TimingRepo, s *repository.ScheduleRepo) *TimingHandler {
	if t == nil || s == nil {
		panic("nil repository passed to NewTimingHandler")
	}
	return &TimingHandler{Timings: t, Schedules: s}
}

// ListBySchedule handles GET /v1/schedules/:id/timings.
func (h *TimingHandler) ListBySchedule(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	scheduleID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx := c.Request().Context()
	owner, err := h.Schedules.OwnerOf(ctx, scheduleID)
	if err != nil {
		if err == repository.ErrScheduleNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if owner != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	items, err := h.Timings.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PATCH /v1/timings/:id.  Time of day, dosage and the active
// flag can change; the recurrence shape is fixed at generation time.
func (h *TimingHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid timing id"})
	}
	var body struct {
		Time       *string  `json:"time"`
		Dosage     *float64 `json:"dosage"`
		DosageUnit *string  `json:"dosage_unit"`
		IsActive   *bool    `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	t, err := h.loadOwned(ctx, id, userID)
	if err != nil {
		return respondTiming(c, err)
	}

	if body.Time != nil {
		tod, perr := model.ParseTimeOfDay(*body.Time)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": schedule.InvalidRule("time %q: %v", *body.Time, perr).Error()})
		}
		t.Time = tod
	}
	if body.Dosage != nil {
		if *body.Dosage <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dosage must be positive"})
		}
		t.Dosage = *body.Dosage
	}
	if body.DosageUnit != nil {
		unit := strings.TrimSpace(*body.DosageUnit)
		if unit == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dosage_unit cannot be empty"})
		}
		t.DosageUnit = unit
	}
	if body.IsActive != nil {
		t.IsActive = *body.IsActive
	}

	if err := h.Timings.Update(ctx, &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update timing failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": t})
}

// Delete handles DELETE /v1/timings/:id.
func (h *TimingHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid timing id"})
	}
	if _, err := h.loadOwned(c.Request().Context(), id, userID); err != nil {
		return respondTiming(c, err)
	}
	if err := h.Timings.SoftDelete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTimingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "timing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete timing failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// loadOwned fetches a timing and verifies the caller owns its schedule.
func (h *TimingHandler) loadOwned(ctx context.Context, id, userID uint64) (model.ScheduleTiming, error) {
	t, err := h.Timings.GetByID(ctx, id)
	if err != nil {
		return model.ScheduleTiming{}, err
	}
	owner, err := h.Schedules.OwnerOf(ctx, t.ScheduleID)
	if err != nil {
		return model.ScheduleTiming{}, err
	}
	if owner != userID {
		return model.ScheduleTiming{}, repository.ErrForbidden
	}
	return t, nil
}

func respondTiming(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrTimingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "timing not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
