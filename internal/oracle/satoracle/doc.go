// Package satoracle is an offline oracle backed by the gini SAT solver.
//
// The weekly timetable is encoded with one boolean per
// (course, day, period, room). Every constraint family is a group guarded by
// an activation literal:
//
//   - hard groups, one per entity: C3 exact weekly sessions and C8 one
//     session per day and C7 room capacity per course, C2 room conflicts per
//     room, C1 instructor conflicts and C4 availability per instructor
//   - query groups, one per query constraint, typed "query_<kind>"
//   - the minimality group bounding the weighted soft penalty
//
// Solving assumes every activation literal. When the problem is
// unsatisfiable the solver's failed assumptions are shrunk by deletion until
// every remaining group is necessary, which yields an irreducible infeasible
// subset in terms of those groups.
//
// The objective counts S1 student conflicts and S3 lunch/evening sessions
// with their instance weights. Weighted penalties are bounded with one
// sorting network per distinct weight. S2 instructor compactness is not part
// of the SAT objective. Weeks are not modeled: assignments describe the
// weekly pattern and carry week 1, so week fields of query constraints are
// ignored.
package satoracle
