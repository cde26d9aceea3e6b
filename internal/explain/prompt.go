package explain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/reasons"
	"github.com/roach88/whatif/internal/whatif"
)

// BuildPrompt asks a narrator to explain an infeasible result causally.
func BuildPrompt(res *whatif.Result, queryDescription string, graph *reasons.Graph) string {
	var b strings.Builder
	b.WriteString("You are explaining why a scheduling change is infeasible.\n\n")
	fmt.Fprintf(&b, "USER'S DESIRED SCENARIO: %s\n\n", queryDescription)

	b.WriteString("WHY IT'S INFEASIBLE:\n")
	b.WriteString("The optimizer found the minimal set of conflicting constraints (IIS - Irreducible Infeasible Subsystem):\n\n")
	b.WriteString(FormatIIS(res))
	b.WriteString("\n")

	if families := catalogFor(res.IIS); len(families) > 0 {
		b.WriteString("\nCONSTRAINT FAMILIES:\n")
		for _, info := range families {
			fmt.Fprintf(&b, "- %s (%s): %s\n", info.ID, info.Name, info.Description)
		}
	}

	if graph != nil && len(graph.Edges) > 0 {
		b.WriteString("\nRELATED CONSTRAINTS (keyword overlap, approximate):\n")
		for _, e := range graph.Edges {
			fmt.Fprintf(&b, "- %s <-> %s\n", e.From, e.To)
		}
	}

	b.WriteString("\nCONTEXT:\n")
	fmt.Fprintf(&b, "- Original optimal objective: %s\n", formatNumber(res.OriginalObjective))
	b.WriteString("- The scenario requires the new schedule to be at least as good as the original\n")
	fmt.Fprintf(&b, "- The IIS shows the %d constraints that make this infeasible\n\n", len(res.IIS))

	b.WriteString(`YOUR TASK:
Write a clear, conversational explanation (2-3 short paragraphs) explaining:
1. What the user wants to change
2. Why it's infeasible (causally - show the chain of constraints)
3. Which constraints are the root cause

RULES:
- Use the actual constraint descriptions provided
- Explain cause-and-effect relationships between constraints
- Be specific and concrete - no generic platitudes
- NO SUGGESTIONS for fixes - only explain what's blocking
- Write in flowing paragraphs, NOT bullet points

Explain why this scenario is infeasible:`)
	return b.String()
}

// FormatIIS lists an IIS with its summary counts.
func FormatIIS(res *whatif.Result) string {
	summary := oracle.Summarize(res.IIS)
	if res.Summary != nil {
		summary = *res.Summary
	}

	lines := []string{
		fmt.Sprintf("Number of constraints in IIS: %d", len(res.IIS)),
		fmt.Sprintf("Minimality constraint in IIS: %t", summary.MinimalityInIIS),
		fmt.Sprintf("Query constraints in IIS: %d", summary.NumQueryConstraints),
		"",
		"Constraints:",
	}
	for i, c := range res.IIS {
		typ, desc := c.Type, c.Description
		if typ == "" {
			typ = "unknown"
		}
		if desc == "" {
			desc = "No description"
		}
		lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, typ, desc))
	}
	return strings.Join(lines, "\n")
}

// catalogFor returns the catalog entries of the hard families in an IIS,
// in catalog order.
func catalogFor(iis []oracle.IISConstraint) []oracle.ConstraintInfo {
	out := make([]oracle.ConstraintInfo, 0)
	for _, info := range oracle.HardConstraints {
		if slices.ContainsFunc(iis, func(c oracle.IISConstraint) bool { return c.Type == info.ID }) {
			out = append(out, info)
		}
	}
	return out
}
