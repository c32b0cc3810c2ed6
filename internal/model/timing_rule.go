package model

// TimingRule is the user-declared dosing rule submitted when a schedule is
// created.  It is a closed set of three variants; each variant carries only
// the fields that are meaningful for it, so an internally inconsistent rule
// (say, an interval rule with days-of-week) cannot be represented:
//
//	IntervalRule – one dose every N hours.
//	WeeklyRule   – one dose at a fixed time on selected weekdays.
//	DailyRule    – one dose at each of a list of times, every day.
//
// Rules are not persisted; the timing generator expands them into
// ScheduleTiming rows.
type TimingRule interface {
	isTimingRule()
}

// IntervalRule repeats every Hours hours starting from the schedule's
// StartDate.
type IntervalRule struct {
	Hours int
}

// WeeklyRule repeats at Time on each weekday listed in Days
// (0=Sunday … 6=Saturday).
type WeeklyRule struct {
	Days []int
	Time TimeOfDay
}

// DailyRule repeats every day at each entry of Times.
type DailyRule struct {
	Times []TimeOfDay
}

func (IntervalRule) isTimingRule() {}
func (WeeklyRule) isTimingRule()   {}
func (DailyRule) isTimingRule()    {}
