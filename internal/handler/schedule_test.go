package handler

import (
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/med-schedule-service/internal/model"
	"github.com/iliyamo/med-schedule-service/internal/schedule"
)

func TestTimingRuleReqToRuleInterval(t *testing.T) {
	r := timingRuleReq{Type: "interval", Hours: 8}
	rule, err := r.toRule()
	if err != nil {
		t.Fatalf("toRule: %v", err)
	}
	iv, ok := rule.(model.IntervalRule)
	if !ok {
		t.Fatalf("expected IntervalRule, got %T", rule)
	}
	if iv.Hours != 8 {
		t.Fatalf("expected 8 hours, got %d", iv.Hours)
	}
}

func TestTimingRuleReqToRuleWeekly(t *testing.T) {
	r := timingRuleReq{Type: "WEEKLY", Days: []int{1, 3, 5}, Time: "09:30"}
	rule, err := r.toRule()
	if err != nil {
		t.Fatalf("toRule: %v", err)
	}
	w, ok := rule.(model.WeeklyRule)
	if !ok {
		t.Fatalf("expected WeeklyRule, got %T", rule)
	}
	if len(w.Days) != 3 || w.Days[0] != 1 {
		t.Fatalf("unexpected days: %v", w.Days)
	}
	if w.Time.String() != "09:30:00" {
		t.Fatalf("unexpected time: %s", w.Time)
	}
}

func TestTimingRuleReqToRuleDaily(t *testing.T) {
	r := timingRuleReq{Type: "daily", Times: []string{"08:00", "20:15"}}
	rule, err := r.toRule()
	if err != nil {
		t.Fatalf("toRule: %v", err)
	}
	d, ok := rule.(model.DailyRule)
	if !ok {
		t.Fatalf("expected DailyRule, got %T", rule)
	}
	if len(d.Times) != 2 || d.Times[1].String() != "20:15:00" {
		t.Fatalf("unexpected times: %v", d.Times)
	}
}

func TestTimingRuleReqToRuleRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		req  timingRuleReq
	}{
		{"unknown type", timingRuleReq{Type: "MONTHLY"}},
		{"empty type", timingRuleReq{}},
		{"weekly missing time", timingRuleReq{Type: "WEEKLY", Days: []int{1}}},
		{"weekly bad time", timingRuleReq{Type: "WEEKLY", Days: []int{1}, Time: "25:00"}},
		{"daily bad time", timingRuleReq{Type: "DAILY", Times: []string{"8 o'clock"}}},
	}
	for _, tc := range cases {
		if _, err := tc.req.toRule(); !errors.Is(err, schedule.ErrInvalidRule) {
			t.Errorf("%s: expected ErrInvalidRule, got %v", tc.name, err)
		}
	}
}

func TestParseDay(t *testing.T) {
	d, err := parseDay("2024-03-05")
	if err != nil {
		t.Fatalf("parseDay date: %v", err)
	}
	if !d.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected instant: %v", d)
	}

	ts, err := parseDay("2024-03-05T14:30:00+02:00")
	if err != nil {
		t.Fatalf("parseDay rfc3339: %v", err)
	}
	if !ts.Equal(time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)) {
		t.Fatalf("expected UTC-normalized instant, got %v", ts)
	}

	if _, err := parseDay("05/03/2024"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
