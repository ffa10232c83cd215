// Package runner implements the trial orchestration layer for netsim.
//
// The Runner drives complete simulation runs: for every trial it builds a
// fresh discrete-event environment and topology from the configured seed
// snapshot, constructs and activates the seed agents, the optional
// environment agent and the observer, runs the clock to the horizon and
// flushes the collected record series to the trial store. Trials are
// independent; nothing but the store is shared between them, so a run is
// reproducible from its seeds alone.
//
// # Responsibilities (abridged)
//   - Per-trial environment, topology and run context construction
//   - Seed population bootstrap (states mapped to nodes in ascending order)
//   - Trial execution to the time horizon and kernel shutdown
//   - Record series persistence (states via the observer, topologies direct)
//
// See runner.go for the operational implementation details.
package runner
