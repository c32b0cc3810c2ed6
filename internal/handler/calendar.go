package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/med-schedule-service/internal/ics"
	"github.com/iliyamo/med-schedule-service/internal/schedule"
)

// CalendarHandler serves the merged dose calendar: projected occurrences
// reconciled with recorded intake logs.
type CalendarHandler struct {
	Builder *schedule.CalendarBuilder
	Clock   schedule.Clock
}

// NewCalendarHandler constructs a CalendarHandler.
func NewCalendarHandler(b *schedule.CalendarBuilder, clock schedule.Clock) *CalendarHandler {
	if b == nil {
		panic("nil builder passed to NewCalendarHandler")
	}
	if clock == nil {
		clock = schedule.SystemClock()
	}
	return &CalendarHandler{Builder: b, Clock: clock}
}

// window parses the from/to query parameters.  Missing parameters default to
// the seven days starting today.
func (h *CalendarHandler) window(c echo.Context) (time.Time, time.Time, error) {
	now := h.Clock.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)
	if s := c.QueryParam("from"); s != "" {
		t, err := parseDay(s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if s := c.QueryParam("to"); s != "" {
		t, err := parseDay(s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	return from, to, nil
}

// Get handles GET /v1/calendar.  Both window boundaries are interpreted at
// day granularity and are inclusive.
func (h *CalendarHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	from, to, err := h.window(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from/to, expected YYYY-MM-DD or RFC 3339"})
	}
	if to.Before(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to precedes from"})
	}
	items, err := h.Builder.BuildCalendar(c.Request().Context(), userID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build calendar failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"from":  from.Format("2006-01-02"),
		"to":    to.Format("2006-01-02"),
		"items": items,
	})
}

// GetICS handles GET /v1/calendar.ics and serves the same window as an
// iCalendar document for calendar-client subscriptions.
func (h *CalendarHandler) GetICS(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	from, to, err := h.window(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from/to, expected YYYY-MM-DD or RFC 3339"})
	}
	if to.Before(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to precedes from"})
	}
	items, err := h.Builder.BuildCalendar(c.Request().Context(), userID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build calendar failed"})
	}
	body := ics.Export(items, h.Clock.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="medication-calendar.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
