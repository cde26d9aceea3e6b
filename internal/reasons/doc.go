// Package reasons turns an irreducible infeasible subset into a graph of
// natural-language reasons.
//
// Each IIS constraint becomes one node whose text comes from a fixed
// per-type template. Two nodes are linked with a "shares_variables" edge
// when both descriptions mention one of the scope keywords course,
// instructor, room, time, week or day.
//
// The edge rule is a keyword co-occurrence heuristic, not a variable-scope
// analysis: it can both over- and under-connect reasons. Graph.EdgeHeuristic
// names the rule so consumers do not read edges as proven dependencies.
package reasons
