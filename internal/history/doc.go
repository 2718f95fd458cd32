// Package history persists a ledger of batch runs in SQLite.
//
// One row is written per run: stage, input and output paths, timing,
// per-status row counts and the final outcome. Record content is never
// stored.
package history
