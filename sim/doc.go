// Package sim implements the cooperative discrete-event scheduler that
// drives netsim behaviors.
//
// An Environment owns a virtual clock and a priority queue of pending
// activations ordered by (time, insertion sequence). Each registered process
// runs on its own goroutine, but the environment resumes exactly one of them
// at a time and blocks until it suspends again, so between two suspension
// points a behavior executes alone. That strict handoff is what lets the
// protocol layer mutate the shared topology without locks: any run of
// statements containing no Wait call is atomic with respect to every other
// behavior.
//
// Time advances only when a process is resumed; simultaneous activations run
// in first-scheduled order. Run drives the clock up to a horizon, Stop
// releases every suspended process and reclaims its goroutine.
package sim
