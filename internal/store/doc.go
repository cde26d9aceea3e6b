// Package store provides SQLite-backed durable storage for solve runs and
// the what-if questions asked against them.
//
// Tables:
//   - runs: one row per primary solve (instance, schedule, objective, status)
//   - assignments: the solved schedule of each run, one row per session
//   - what_if_queries: every what-if question with its constraints,
//     fingerprint, outcome and explanation
//
// Deleting a run cascades to its assignments and what-if history.
//
// # Ordering
//
// Listings are deterministic: runs newest first by (created_at DESC,
// run_id DESC), what-ifs oldest first by (created_at ASC, id ASC).
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - one open connection: SQLite allows a single writer
package store
