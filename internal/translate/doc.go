// Package translate turns user intents into query constraints.
//
// Structured requests are expanded with fixed per-kind rules:
//
//   - an instructor-level day veto becomes one veto_day per course the
//     instructor teaches (NO_MATCHING_ENTITY when there are none)
//   - "no lunch" becomes one veto_time_slot per term day and lunch period,
//     where a period is a lunch period if its [start, start+length) minute
//     interval overlaps [lunch_start, lunch_end) by at least one minute
//   - a time-slot swap becomes exactly four constraints (enforce A into B's
//     slot, veto A's slot, enforce B into A's slot, veto B's slot) read from
//     the caller's current schedule
//   - before/after time bounds become a period-end or period-start bound
//     without day or room
//
// Free text goes through a keyword matcher, not a parser. It recognizes
// avoidance, lunch avoidance and "before <time>" bounds; anything else yields
// an empty constraint slice, which callers treat as "no confident
// interpretation" rather than an error.
//
// Translation is deterministic: identical inputs produce the identical
// ordered constraint slice.
package translate
