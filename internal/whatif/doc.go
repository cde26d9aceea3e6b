// Package whatif answers counterfactual questions about an optimal
// schedule.
//
// An Orchestrator packages the original instance, the translated query
// constraints and the bound objective <= original objective into one
// oracle.Problem, calls the oracle, and normalizes its answer into a Result:
//
//   - feasible_query: alternative schedule, its objective and the delta
//     against the original
//   - infeasible_query: the irreducible infeasible subset and its summary
//   - error: a message plus the oracle's diagnostics, unmodified
//
// By default the oracle is called exactly once. The primary solve path
// retries transport failures; what-if does so only when configured with
// WithRetries, and logs every retry.
package whatif
