// Package store provides SQLite-backed storage for translated programs and
// build history.
//
// The store holds:
//   - Translations: generated code keyed by ir.TranslationKey, so an
//     unchanged source is never translated twice for the same options
//   - Builds: one row per bfc build/compile invocation, ordered by seq
//
// Only successful translations are cached. Builds are recorded for every
// outcome, including syntax errors, which carry no translation key.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
