// Package observer provides the sampling process that records a run's state
// and topology history.
//
// An Observer registers itself with the scheduler and wakes on a fixed
// interval. Every tick it appends one StateRecord with the states of all
// node-bound agents, unconditionally. A TopologyRecord is appended only when
// the current structure fails the cheap isomorphism screen against the last
// stored snapshot, so topologies that merely relabel nodes while keeping
// their shape collapse into a single record. Accumulated records are flushed
// to a core.TrialStore on demand, keyed by trial id.
package observer
