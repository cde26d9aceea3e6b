// Package explain turns what-if results into text.
//
// Render is the deterministic, offline renderer: it never fails and never
// touches the network. Explainer layers an optional Narrator (an LLM) on top
// for infeasible results and falls back to Render whenever the narrator is
// missing, errors or returns nothing.
package explain
