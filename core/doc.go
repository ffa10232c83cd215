// Package core provides the foundational domain types, interfaces and execution
// contexts used by netsim. It defines the core abstractions for:
//
//   - Agents (autonomous units of behavior bound to topology nodes)
//   - Scheduler / Proc (the cooperative discrete-event clock and the handle a
//     behavior uses to suspend on it)
//   - Topology (the mutable relationship graph shared by all agents of a run)
//   - Snapshot and trial records (structure-only topology copies plus the
//     state / topology time series an observer accumulates)
//   - Pluggable trial stores for persisting recorded series
//   - RunContext (per-run scope: clock, graph, parameters, RNG, id counter)
//
// The package intentionally keeps implementation concerns (the event queue,
// the graph backend, persistence, concrete agents) out of scope, exposing
// small interfaces to enable custom backends and extensions. All exported
// identifiers include concise documentation to aid discoverability and
// external consumption.
package core
