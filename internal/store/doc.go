// Package store keeps an append-only SQLite history of compilations.
//
// Every successful compile records one row in builds: the device, where its
// configuration and project live, the SHA-256 digest of the generated
// main.cpp and a few size statistics.
//
// # Ordering
//
// Builds are ordered by seq, a per-database counter assigned on insert.
// Wall-clock time is not stored; two identical compiles differ only in seq
// and id.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
