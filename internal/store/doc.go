// Package store provides a SQLite-backed cache of translated units.
//
// A compile run records each translated function or class under a cache
// key derived from everything that can change its tree: the unit's name
// and kind, the receiver type name, whether it was dropped as unused, the
// source text and its position, the division mode, and the IR version.
// A later run with identical inputs reads the stored entry instead of
// translating again.
//
// # Tables
//
//   - runs: one row per compile run, identified by a UUIDv7 and ordered
//     by a logical seq
//   - translations: msgpack-encoded entries keyed by cache key
//
// Ordering uses logical seq values, never wall-clock timestamps, so two
// caches filled by the same runs list identically.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Clearing runs cascades to their translations
//
// Cache keys and IR hashes are computed in internal/ir/hash.go using
// RFC 8785 canonical JSON and SHA-256 with domain separation.
package store
