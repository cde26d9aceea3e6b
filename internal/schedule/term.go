package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// TermConfig is the weekly calendar of a term.
type TermConfig struct {
	Days                []string `json:"days" yaml:"days"`
	NumWeeks            int      `json:"num_weeks" yaml:"num_weeks"`
	DayStartTime        string   `json:"day_start_time" yaml:"day_start_time"`
	PeriodsPerDay       int      `json:"periods_per_day" yaml:"periods_per_day"`
	PeriodLengthMinutes int      `json:"period_length_minutes" yaml:"period_length_minutes"`
	LunchStartTime      string   `json:"lunch_start_time" yaml:"lunch_start_time"`
	LunchEndTime        string   `json:"lunch_end_time" yaml:"lunch_end_time"`
	EveningStartTime    string   `json:"evening_start_time" yaml:"evening_start_time"`
}

// Defaults used when a term leaves a field empty.
const (
	DefaultDayStart     = "08:00"
	DefaultLunchStart   = "12:00"
	DefaultLunchEnd     = "12:30"
	DefaultEveningStart = "17:00"
	DefaultPeriodLength = 30
)

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock time %q: bad hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q: bad minute", s)
	}
	return h*60 + m, nil
}

func clockOr(s, fallback string) int {
	if s == "" {
		s = fallback
	}
	if m, err := ParseClock(s); err == nil {
		return m
	}
	m, _ := ParseClock(fallback)
	return m
}

// PeriodLength returns the period length in minutes.
func (t TermConfig) PeriodLength() int {
	if t.PeriodLengthMinutes <= 0 {
		return DefaultPeriodLength
	}
	return t.PeriodLengthMinutes
}

// DayStart returns the first period's start in minutes since midnight.
func (t TermConfig) DayStart() int {
	return clockOr(t.DayStartTime, DefaultDayStart)
}

// PeriodStart returns the start of period p in minutes since midnight.
func (t TermConfig) PeriodStart(p int) int {
	return t.DayStart() + p*t.PeriodLength()
}

// PeriodAt returns the index of the period containing the given minute of
// the day. Minutes before the day start map to negative indices.
func (t TermConfig) PeriodAt(minutes int) int {
	offset := minutes - t.DayStart()
	if offset < 0 {
		return -((-offset + t.PeriodLength() - 1) / t.PeriodLength())
	}
	return offset / t.PeriodLength()
}

// ClockLabel renders the start of period p as "HH:MM".
func (t TermConfig) ClockLabel(p int) string {
	m := t.PeriodStart(p)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// LunchPeriods returns the period indices whose [start, start+length)
// interval overlaps [lunch_start, lunch_end) by at least one minute.
func (t TermConfig) LunchPeriods() []int {
	lunchStart := clockOr(t.LunchStartTime, DefaultLunchStart)
	lunchEnd := clockOr(t.LunchEndTime, DefaultLunchEnd)
	length := t.PeriodLength()

	periods := make([]int, 0)
	for p, start := 0, t.DayStart(); start < lunchEnd; p, start = p+1, start+length {
		if t.PeriodsPerDay > 0 && p >= t.PeriodsPerDay {
			break
		}
		if start+length > lunchStart && start < lunchEnd {
			periods = append(periods, p)
		}
	}
	return periods
}

// EveningPeriods returns the period indices starting at or after the
// evening start time.
func (t TermConfig) EveningPeriods() []int {
	evening := clockOr(t.EveningStartTime, DefaultEveningStart)
	periods := make([]int, 0)
	for p := 0; p < t.PeriodsPerDay; p++ {
		if t.PeriodStart(p) >= evening {
			periods = append(periods, p)
		}
	}
	return periods
}
