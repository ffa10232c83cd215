package core

// BehaviorFunc is a schedulable behavior routine. The scheduler invokes it on
// a dedicated goroutine and hands it the Proc it must use to suspend; the
// cooperative handoff guarantees at most one behavior runs at any instant.
// Returning ends the process; the returned error is recorded by the
// scheduler, never retried.
type BehaviorFunc func(p Proc) error

// Proc is the suspension handle a running behavior holds on the scheduler.
// All methods must be called from the behavior's own goroutine while it is
// the active process.
type Proc interface {
	// Name returns the diagnostic label the process was registered under.
	Name() string

	// Now returns the current simulated time.
	Now() float64

	// Wait suspends the behavior for delta units of simulated time. It
	// returns a stopped error when the scheduler shut down while the
	// behavior was suspended; behaviors should return on that error.
	Wait(delta float64) error

	// WaitUntil suspends the behavior until the clock reaches t. Times in
	// the past behave like Wait(0): the process is rescheduled at the
	// current instant behind already-queued work.
	WaitUntil(t float64) error
}

// Scheduler is the narrow clock surface the protocol layer consumes. The sim
// package provides the canonical implementation; tests may substitute a
// manual fake.
type Scheduler interface {
	// Now returns the current simulated time.
	Now() float64

	// Process registers fn as a new process activated at the current time,
	// behind work already queued for that instant. Registration itself never
	// suspends the caller.
	Process(name string, fn BehaviorFunc) Proc
}
