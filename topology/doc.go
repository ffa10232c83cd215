// Package topology provides the gonum-backed relationship graph shared by
// the agents of a run.
//
// Store wraps an undirected simple graph and keeps agent bindings and edge
// attributes in side maps keyed by node id and canonical endpoint pair. All
// mutators validate their inputs and return errors; the panics of the
// underlying graph (duplicate node insertion, self-loop edges) are never
// reachable through this API.
//
// Store performs no locking. Under the cooperative scheduler at most one
// behavior executes at any instant and every Store method is free of
// suspension points, so each call completes atomically with respect to all
// other behaviors. Outside that regime (concurrent access from plain
// goroutines) the caller must provide its own synchronization.
package topology
