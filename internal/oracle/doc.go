// Package oracle defines the boundary to the external solver.
//
// The solver is a black box behind two capability interfaces:
//
//   - Solver computes an optimal schedule for an instance (the primary solve)
//   - Oracle solves a what-if problem: the instance's hard constraints plus
//     query constraints plus a minimality bound on the objective, returning
//     either an alternative schedule or an irreducible infeasible subset
//
// Implementations live in subpackages (satoracle, remote) or here (Mock).
// Wire types use the same JSON field names as the solver bridge so remote
// payloads decode directly into them.
package oracle
