// Package query defines the closed vocabulary of what-if query constraints.
//
// Two layers live here:
//
//   - Request is a sealed sum type with one variant per query kind. Each
//     variant carries exactly the fields its kind requires, so a request that
//     type-checks cannot be missing a parameter. ParseRequest builds variants
//     from loosely typed key/value parameters (HTTP bodies, CLI flags) and is
//     the only place MISSING_PARAMETER is raised.
//   - Constraint is the flat, oracle-facing record produced by translating a
//     request. Constraints are values: builders return new values and nothing
//     mutates a constraint after construction.
//
// # Serialization
//
// A constraint serializes to a flat record with exactly the keys type,
// course_id, instructor_id, week, day, period_start, period_end, room_id and
// course_id_2. Absent fields serialize as null. Kind-specific extras are
// merged into the same record without overriding those keys.
//
// Fingerprint hashes a constraint sequence through canonical JSON so identical
// sequences always produce identical fingerprints.
//
// # Sealed Interfaces
//
// Request uses the marker method pattern; only this package can add
// variants, which keeps type switches in the translator exhaustive:
//
//	switch r := req.(type) {
//	case *query.VetoDay:
//	    // expand instructor-level vetoes
//	case *query.SwapTimeSlots:
//	    // decompose into four atomic constraints
//	}
package query
