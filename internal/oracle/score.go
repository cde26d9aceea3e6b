package oracle

import (
	"slices"

	"github.com/roach88/whatif/internal/schedule"
)

// Score evaluates the soft-constraint penalties of a schedule. The total is
// the objective value; the breakdown is keyed by soft constraint id.
//
// Assignments describe the weekly pattern, so a schedule lists each weekly
// session once.
func Score(inst *schedule.Instance, s *schedule.Schedule) (float64, map[string]float64) {
	breakdown := map[string]float64{
		S1StudentConflicts:      0,
		S2InstructorCompactness: 0,
		S3PreferredTimeSlots:    0,
	}
	if s == nil {
		return 0, breakdown
	}

	penalized := make(map[int]bool)
	for _, p := range inst.Term.LunchPeriods() {
		penalized[p] = true
	}
	for _, p := range inst.Term.EveningPeriods() {
		penalized[p] = true
	}

	type cell struct {
		week   int
		day    string
		period int
	}
	occupants := make(map[cell][]string)
	type teaching struct {
		instructor string
		week       int
		day        string
	}
	busy := make(map[teaching][]int)

	for _, a := range s.Assignments {
		instructor := a.InstructorID
		if instructor == "" {
			if c, ok := inst.Course(a.CourseID); ok {
				instructor = c.InstructorID
			}
		}
		for _, p := range occupiedPeriods(a) {
			k := cell{a.Week, a.Day, p}
			occupants[k] = append(occupants[k], a.CourseID)
			if penalized[p] {
				breakdown[S3PreferredTimeSlots] += float64(inst.Weights.PreferredTimeSlots)
			}
			if instructor != "" {
				t := teaching{instructor, a.Week, a.Day}
				busy[t] = append(busy[t], p)
			}
		}
	}

	for _, courses := range occupants {
		for i := 0; i < len(courses); i++ {
			for j := i + 1; j < len(courses); j++ {
				if courses[i] == courses[j] {
					continue
				}
				shared := inst.SharedStudents(courses[i], courses[j])
				breakdown[S1StudentConflicts] += float64(shared * inst.Weights.StudentConflict)
			}
		}
	}

	for _, periods := range busy {
		slices.Sort(periods)
		periods = slices.Compact(periods)
		gaps := periods[len(periods)-1] - periods[0] + 1 - len(periods)
		breakdown[S2InstructorCompactness] += float64(gaps * inst.Weights.InstructorCompactness)
	}

	total := breakdown[S1StudentConflicts] + breakdown[S2InstructorCompactness] + breakdown[S3PreferredTimeSlots]
	return total, breakdown
}

func occupiedPeriods(a schedule.Assignment) []int {
	length := max(a.PeriodLength, 1)
	periods := make([]int, length)
	for i := range periods {
		periods[i] = a.PeriodStart + i
	}
	return periods
}
