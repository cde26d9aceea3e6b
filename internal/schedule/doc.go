// Package schedule holds the reference data of a course-scheduling problem:
// the instance (courses, instructors, classrooms, students, term calendar,
// soft-constraint weights) and solved schedules made of assignments.
//
// Instances are loaded from JSON, YAML or CUE files. Every format is unified
// with the embedded #Instance schema so that defaults (term calendar, lunch
// window, weights) are applied identically regardless of the input format.
//
// Period indices are zero-based offsets from the term's day start time in
// units of the configured period length. Day labels are the term's own
// labels (for example "Mon").
package schedule
