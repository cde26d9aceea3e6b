// Package testutil provides deterministic fixtures for tests: a stepping
// wall clock, sequential run ids and a small sample scheduling instance with
// a matching optimal schedule.
package testutil
