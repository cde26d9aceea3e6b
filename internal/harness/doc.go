// Package harness runs what-if scenarios end to end.
//
// A scenario names an instance file and a list of questions with expected
// outcomes. The harness solves the instance once, asks every question
// through the pipeline and compares each answer against its expectations.
//
// # Scenario Format
//
//	name: lunch_conflict
//	description: "Moving CS101 into lunch breaks minimality"
//	instance: instance.json
//	steps:
//	  - name: lunch
//	    query_type: enforce_time_slot
//	    query_params: { course_id: CS101, day: Mon, period: 8 }
//	    expect:
//	      status: infeasible_query
//	      constraint_count: 1
//	      iis_types: [query_enforce_time_slot, minimality]
//	      minimality_in_iis: true
//	  - name: bad_room
//	    query_type: enforce_room
//	    query_params: { course_id: CS101, room_id: R9 }
//	    expect:
//	      error_code: UNKNOWN_ENTITY_REFERENCE
//
// Instance paths are relative to the scenario file.
//
// # Deterministic Testing
//
// Each scenario runs against a fresh in-memory store with a step clock and
// sequential ids, so snapshots compare byte for byte. Solve times are left
// out of snapshots.
package harness
