package explain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/whatif"
)

// MaxListedConstraints caps the IIS descriptions listed by Render.
const MaxListedConstraints = 5

// Render explains a what-if result without any external service.
func Render(res *whatif.Result, queryDescription string) string {
	if res == nil {
		return "What-if analysis status: error. No result."
	}
	switch res.Status {
	case whatif.StatusFeasible:
		return renderFeasible(res, queryDescription)
	case whatif.StatusInfeasible:
		return renderInfeasible(res, queryDescription)
	default:
		return strings.TrimSpace(fmt.Sprintf("What-if analysis status: %s. %s", res.Status, res.Message))
	}
}

func renderFeasible(res *whatif.Result, q string) string {
	alt := res.OriginalObjective
	if res.AlternativeObjective != nil {
		alt = *res.AlternativeObjective
	}
	delta := res.Delta()

	var b strings.Builder
	if delta == 0 {
		b.WriteString("**Alternative Found (No Cost)**\n\n")
		fmt.Fprintf(&b, "Your scenario: *%s*\n\n", q)
		fmt.Fprintf(&b, "This change is possible without any increase in soft constraint penalties! "+
			"The alternative schedule achieves the same objective value (%.1f).", alt)
		return b.String()
	}

	b.WriteString("**Alternative Found (With Trade-offs)**\n\n")
	fmt.Fprintf(&b, "Your scenario: *%s*\n\n", q)
	direction := "increases"
	if delta < 0 {
		direction = "reduces"
	}
	fmt.Fprintf(&b, "This change is possible, but %s soft constraint penalties by %.1f (from %.1f to %.1f). "+
		"Check the alternative schedule to see what changed.",
		direction, math.Abs(delta), res.OriginalObjective, alt)
	return b.String()
}

func renderInfeasible(res *whatif.Result, q string) string {
	summary := oracle.Summarize(res.IIS)
	if res.Summary != nil {
		summary = *res.Summary
	}

	lines := []string{
		"**Infeasible Scenario**",
		"",
		fmt.Sprintf("Your scenario: *%s*", q),
		"",
		fmt.Sprintf("This scenario cannot achieve an objective value ≤ %s.", formatNumber(res.OriginalObjective)),
	}

	if summary.MinimalityInIIS {
		lines = append(lines, "",
			"**Why:** The minimality constraint (requiring objective ≤ original) conflicts with your scenario. "+
				"This means your desired changes would make the schedule worse in terms of soft constraint penalties.")
	}
	if summary.NumQueryConstraints > 0 {
		lines = append(lines, "",
			fmt.Sprintf("**Conflicting Constraints:** %d of your query constraints directly conflict with "+
				"existing hard constraints (like instructor availability, room capacity, or scheduling patterns).",
				summary.NumQueryConstraints))
	}

	if len(res.IIS) > 0 {
		lines = append(lines, "", "**Minimal Conflicting Set (IIS):**")
		for _, c := range res.IIS[:min(len(res.IIS), MaxListedConstraints)] {
			desc := c.Description
			if desc == "" {
				desc = "Unknown constraint"
			}
			lines = append(lines, "- "+desc)
		}
		if extra := len(res.IIS) - MaxListedConstraints; extra > 0 {
			lines = append(lines, fmt.Sprintf("- ... and %d more constraints", extra))
		}
	}
	return strings.Join(lines, "\n")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
