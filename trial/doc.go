// Package trial provides core.TrialStore implementations for persisting the
// per-trial record series observers collect: a volatile in-memory store for
// tests and programmatic runs, and a file store writing one JSON document per
// record series. A SQLite-backed store lives in the trial/sqlite subpackage.
package trial
