// Package validate performs structural checks on a translated constraint
// sequence before any oracle call.
//
// Two rules are enforced and every violation is reported (no fail-fast):
//
//   - contradiction: an enforce-class constraint (enforce_time_slot,
//     enforce_day) and a veto-class constraint (veto_time_slot, veto_day)
//     sharing the key (course, week, day, period_start)
//   - referential integrity: course, second course, instructor and room ids
//     must exist in the instance
//
// Conflicts that only arise through interaction (two enforce constraints
// placing one course in two rooms at once) are not detected here; the oracle
// finds them at solve time.
package validate
