package reasons

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/roach88/whatif/internal/oracle"
	"github.com/roach88/whatif/internal/query"
)

// EdgeHeuristic identifies the edge rule used by Build.
const EdgeHeuristic = "keyword_overlap"

// RelationshipSharesVariables labels every edge Build emits.
const RelationshipSharesVariables = "shares_variables"

// Visualization groups.
const (
	GroupQuery      = "query"
	GroupMinimality = "minimality"
	GroupConstraint = "constraint"
)

// Placeholders for missing IIS fields.
const (
	unknownType        = "unknown"
	unknownDescription = "Unknown constraint"
	minimalityReason   = "The new schedule must achieve at least the same objective value as the original optimal schedule"
)

// scopeKeywords drive the edge heuristic.
var scopeKeywords = []string{"course", "instructor", "room", "time", "week", "day"}

// Node is one reason.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Text  string `json:"text"`
	InIIS bool   `json:"in_iis"`
}

// Edge links two reasons.
type Edge struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Relationship string `json:"relationship"`
}

// Graph is the graph of reasons behind one infeasible what-if question.
type Graph struct {
	Query         string        `json:"query"`
	Nodes         []Node        `json:"reasons"`
	Edges         []Edge        `json:"edges"`
	NumReasons    int           `json:"num_reasons"`
	IsConnected   bool          `json:"is_connected"`
	EdgeHeuristic string        `json:"edge_heuristic"`
	Visualization Visualization `json:"visualization_data"`
}

// Visualization is a UI projection of the graph. It carries no semantics
// beyond regrouping.
type Visualization struct {
	Nodes []VisNode `json:"nodes"`
	Edges []VisEdge `json:"edges"`
}

// VisNode is a labelled, grouped node.
type VisNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Group string `json:"group"`
}

// VisEdge is a labelled edge.
type VisEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Build creates the graph of reasons for an IIS. It is total: missing ids,
// types and descriptions fall back to placeholders and an empty IIS gives an
// empty graph.
func Build(iis []oracle.IISConstraint, queryDescription string) *Graph {
	g := &Graph{
		Query:         queryDescription,
		Nodes:         make([]Node, 0, len(iis)),
		Edges:         make([]Edge, 0),
		EdgeHeuristic: EdgeHeuristic,
	}

	records := make([]oracle.IISConstraint, len(iis))
	for i, c := range iis {
		records[i] = withPlaceholders(c, i)
	}

	for i, c := range records {
		g.Nodes = append(g.Nodes, Node{
			ID:    c.ID,
			Type:  c.Type,
			Text:  Reason(c),
			InIIS: c.InIIS,
		})
		for j := i + 1; j < len(records); j++ {
			if sharesScope(iis[i].Description, iis[j].Description) {
				g.Edges = append(g.Edges, Edge{
					From:         c.ID,
					To:           records[j].ID,
					Relationship: RelationshipSharesVariables,
				})
			}
		}
	}

	g.NumReasons = len(g.Nodes)
	g.IsConnected = len(g.Edges) > 0
	g.Visualization = visualize(g)
	return g
}

func withPlaceholders(c oracle.IISConstraint, i int) oracle.IISConstraint {
	if c.ID == "" {
		c.ID = fmt.Sprintf("c%d", i)
	}
	if c.Type == "" {
		c.Type = unknownType
	}
	if c.Description == "" {
		c.Description = unknownDescription
	}
	return c
}

// Reason renders the natural-language text of one IIS constraint.
func Reason(c oracle.IISConstraint) string {
	kind := query.Kind(c.Type)
	switch {
	case c.IsMinimality():
		return minimalityReason
	case c.IsQuery():
		return "Your requested change: " + c.Description
	case kind == query.EnforceTimeSlot:
		return "Required: " + c.Description
	case kind == query.VetoDay:
		return "Cannot schedule on requested day: " + c.Description
	case kind.IsVeto():
		return "Forbidden: " + c.Description
	default:
		return c.Description
	}
}

// sharesScope reports whether two raw descriptions mention a common scope
// keyword. Missing descriptions never match.
func sharesScope(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	return lo.SomeBy(scopeKeywords, func(kw string) bool {
		return strings.Contains(a, kw) && strings.Contains(b, kw)
	})
}

func visualize(g *Graph) Visualization {
	return Visualization{
		Nodes: lo.Map(g.Nodes, func(n Node, _ int) VisNode {
			return VisNode{ID: n.ID, Label: n.Text, Type: n.Type, Group: group(n.Type)}
		}),
		Edges: lo.Map(g.Edges, func(e Edge, _ int) VisEdge {
			return VisEdge{Source: e.From, Target: e.To, Label: e.Relationship}
		}),
	}
}

func group(typ string) string {
	switch {
	case strings.HasPrefix(typ, "query"):
		return GroupQuery
	case typ == oracle.TypeMinimality:
		return GroupMinimality
	default:
		return GroupConstraint
	}
}

// QueryNodes returns the nodes that originate from the user's query.
func (g *Graph) QueryNodes() []Node {
	return lo.Filter(g.Nodes, func(n Node, _ int) bool {
		return group(n.Type) == GroupQuery
	})
}
