// Package store provides a SQLite-backed library of Quil programs.
//
// Programs are stored by their canonical Quil text together with:
//   - Identity: a UUIDv7 record id and the program's content hash
//   - Ordering: a seq logical clock assigned at save time
//   - Calibration index: one row per DEFCAL, searchable by gate name
//
// # Deterministic Queries
//
// Every list query orders by seq ASC, id ASC COLLATE BINARY, so results
// never depend on wall time or insertion races.
//
// # Caching
//
// Loaded programs are kept in an LRU cache keyed by record id. The cache
// only ever hands out clones, so callers may mutate what they load.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
