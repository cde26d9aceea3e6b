package satoracle

import (
	"math"
	"slices"
	"strconv"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// penalty is a literal that costs weight when true.
type penalty struct {
	lit    z.Lit
	weight int
}

// penalties lists the S1 and S3 penalty literals of the instance.
func (e *encoding) penalties() []penalty {
	inst := e.inst
	out := make([]penalty, 0)

	if w := inst.Weights.PreferredTimeSlots; w > 0 {
		penalized := append(inst.Term.LunchPeriods(), inst.Term.EveningPeriods()...)
		slices.Sort(penalized)
		penalized = slices.Compact(penalized)
		for ci := range inst.Courses {
			for d := range inst.Term.Days {
				for _, p := range penalized {
					out = append(out, penalty{lit: e.at(ci, d, p), weight: w})
				}
			}
		}
	}

	if w := inst.Weights.StudentConflict; w > 0 {
		for i := range inst.Courses {
			for j := i + 1; j < len(inst.Courses); j++ {
				shared := inst.SharedStudents(inst.Courses[i].ID, inst.Courses[j].ID)
				if shared == 0 {
					continue
				}
				for d := range inst.Term.Days {
					for p := 0; p < e.periods; p++ {
						out = append(out, penalty{
							lit:    e.c.And(e.at(i, d, p), e.at(j, d, p)),
							weight: shared * w,
						})
					}
				}
			}
		}
	}
	return out
}

// weightClass counts the penalty literals sharing one weight.
type weightClass struct {
	weight int
	n      int
	sorter *logic.CardSort
}

// costCircuit expresses "weighted penalty <= k" as circuit literals.
type costCircuit struct {
	c       *logic.C
	classes []weightClass
	// ceiling[i] is the largest penalty classes[i:] can reach.
	ceiling []int
	memo    map[[2]int]z.Lit
}

func newCostCircuit(c *logic.C, ps []penalty) *costCircuit {
	byWeight := make(map[int][]z.Lit)
	for _, p := range ps {
		byWeight[p.weight] = append(byWeight[p.weight], p.lit)
	}
	weights := make([]int, 0, len(byWeight))
	for w := range byWeight {
		weights = append(weights, w)
	}
	// heaviest first keeps the enumeration short
	slices.SortFunc(weights, func(a, b int) int { return b - a })

	cc := &costCircuit{c: c, memo: make(map[[2]int]z.Lit)}
	for _, w := range weights {
		ms := byWeight[w]
		cc.classes = append(cc.classes, weightClass{weight: w, n: len(ms), sorter: c.CardSort(ms)})
	}
	cc.ceiling = make([]int, len(cc.classes)+1)
	for i := len(cc.classes) - 1; i >= 0; i-- {
		cc.ceiling[i] = cc.ceiling[i+1] + cc.classes[i].weight*cc.classes[i].n
	}
	return cc
}

// leq is true iff the weighted penalty is at most budget.
func (cc *costCircuit) leq(budget int) z.Lit {
	return cc.leqFrom(0, budget)
}

func (cc *costCircuit) leqFrom(i, budget int) z.Lit {
	if budget < 0 {
		return cc.c.F
	}
	if budget >= cc.ceiling[i] {
		return cc.c.T
	}
	key := [2]int{i, budget}
	if m, ok := cc.memo[key]; ok {
		return m
	}

	cl := cc.classes[i]
	maxK := min(cl.n, budget/cl.weight)
	terms := make([]z.Lit, 0, maxK+1)
	for k := 0; k <= maxK; k++ {
		terms = append(terms, cc.c.And(leq(cc.c, cl.sorter, k), cc.leqFrom(i+1, budget-cl.weight*k)))
	}
	m := cc.c.Ors(terms...)
	cc.memo[key] = m
	return m
}

// leq is true iff at most k inputs of s are true.
func leq(c *logic.C, s *logic.CardSort, k int) z.Lit {
	switch {
	case k < 0:
		return c.F
	case k >= s.N():
		return c.T
	}
	return s.Leq(k)
}

// geq is true iff at least k inputs of s are true.
func geq(c *logic.C, s *logic.CardSort, k int) z.Lit {
	switch {
	case k <= 0:
		return c.T
	case k > s.N():
		return c.F
	}
	return s.Geq(k)
}

// floorBound converts an objective bound to the integer domain of the
// circuit. Values a hair below an integer round up to it.
func floorBound(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 1) || f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(f + 1e-9))
}

func formatObjective(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
