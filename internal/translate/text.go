package translate

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"

	"github.com/roach88/whatif/internal/query"
	"github.com/roach88/whatif/internal/schedule"
)

var dayNames = map[string]string{
	"mon": "monday",
	"tue": "tuesday",
	"wed": "wednesday",
	"thu": "thursday",
	"fri": "friday",
	"sat": "saturday",
	"sun": "sunday",
}

// clockPattern matches "10am", "2:30 pm" and "14:00".
var clockPattern = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b|\b(\d{1,2}):(\d{2})\b`)

// mention is what the keyword matcher found in a question.
type mention struct {
	text        string
	courses     []string
	instructors []string
	days        []string
	// minutes since midnight of clock times after the "before" keyword
	beforeTimes []int
}

// Text interprets a free-text question. Unrecognized questions yield an
// empty, non-nil slice, as does a nil instance.
func Text(question string, inst *schedule.Instance) []query.Constraint {
	if inst == nil {
		return []query.Constraint{}
	}
	m := extract(question, inst)

	// The first intent keyword decides; later intents are not tried.
	var out []query.Constraint
	switch {
	case containsAny(m.text, "avoid", "not on"):
		if len(m.days) > 0 {
			out = avoidance(m, inst)
		}
	case strings.Contains(m.text, "lunch"):
		if len(m.courses) > 0 {
			out = lunchVetoes(m.courses, inst)
		}
	case strings.Contains(m.text, "before"):
		if len(m.beforeTimes) > 0 && len(m.courses) > 0 {
			period := inst.Term.PeriodAt(m.beforeTimes[0])
			out = lo.Map(m.courses, func(courseID string, _ int) query.Constraint {
				return query.NewEnforceBeforeTime(courseID, period)
			})
		}
	}
	if len(out) > 0 {
		return out
	}

	slog.Debug("free-text query not recognized", "question", question)
	return []query.Constraint{}
}

func avoidance(m mention, inst *schedule.Instance) []query.Constraint {
	out := make([]query.Constraint, 0)
	if len(m.courses) > 0 {
		for _, courseID := range m.courses {
			for _, day := range m.days {
				out = append(out, query.NewVetoDay(courseID, day))
			}
		}
		return out
	}
	for _, instructorID := range m.instructors {
		for _, day := range m.days {
			for _, c := range inst.CoursesTaughtBy(instructorID) {
				out = append(out, query.NewVetoDay(c.ID, day).WithInstructor(instructorID))
			}
		}
	}
	return out
}

func extract(question string, inst *schedule.Instance) mention {
	fold := cases.Fold()
	text := fold.String(question)
	mentions := func(id, name string) bool {
		if id != "" && strings.Contains(text, fold.String(id)) {
			return true
		}
		return strings.TrimSpace(name) != "" && strings.Contains(text, fold.String(name))
	}

	m := mention{text: text}
	for _, c := range inst.Courses {
		if mentions(c.ID, c.Name) {
			m.courses = append(m.courses, c.ID)
		}
	}
	for _, i := range inst.Instructors {
		if mentions(i.ID, i.Name) {
			m.instructors = append(m.instructors, i.ID)
		}
	}
	for _, day := range inst.Term.Days {
		if dayPattern(fold.String(day)).MatchString(text) {
			m.days = append(m.days, day)
		}
	}

	if idx := strings.Index(text, "before"); idx >= 0 {
		for _, match := range clockPattern.FindAllStringSubmatch(text[idx:], -1) {
			if minutes, ok := clockMinutes(match); ok {
				m.beforeTimes = append(m.beforeTimes, minutes)
			}
		}
	}
	return m
}

// dayPattern matches a folded day label or its full English name as a word.
func dayPattern(label string) *regexp.Regexp {
	alternatives := []string{regexp.QuoteMeta(label)}
	if full, ok := dayNames[label]; ok {
		alternatives = append([]string{full}, alternatives...)
	}
	for short, full := range dayNames {
		if label == full {
			alternatives = append(alternatives, short)
		}
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(alternatives, "|") + `)\b`)
}

func clockMinutes(match []string) (int, bool) {
	if match[3] != "" {
		hour, _ := strconv.Atoi(match[1])
		minute := 0
		if match[2] != "" {
			minute, _ = strconv.Atoi(match[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, false
		}
		if match[3] == "pm" && hour != 12 {
			hour += 12
		}
		if match[3] == "am" && hour == 12 {
			hour = 0
		}
		return hour*60 + minute, true
	}
	hour, _ := strconv.Atoi(match[4])
	minute, _ := strconv.Atoi(match[5])
	if hour > 23 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func containsAny(s string, needles ...string) bool {
	return lo.SomeBy(needles, func(n string) bool { return strings.Contains(s, n) })
}
