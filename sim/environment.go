package sim

import (
	"container/heap"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/netsim/core"
	"github.com/hupe1980/netsim/logging"
)

// ErrStopped is returned from suspension points of behaviors whose
// environment was shut down. Behaviors should treat it as "simulation over"
// and return.
var ErrStopped = errors.New("environment stopped")

type runState int

const (
	stateIdle runState = iota
	stateRunning
	stateStopped
)

// Options holds configuration overrides passed to NewEnvironment.
type Options struct {
	// Start sets the initial clock value.
	Start float64
	// Logger receives scheduler diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Environment is the cooperative discrete-event scheduler. It implements
// core.Scheduler.
//
// All methods must be called from the goroutine that drives the simulation
// (Run, Stop, post-run inspection) or from a behavior while it is the active
// process (Process, Now); the resume/yield handoff serializes those two
// cases, so no additional locking is required or used.
type Environment struct {
	now   float64
	seq   uint64
	queue eventQueue
	procs []*Process
	state runState
	errs  []error

	wg     sync.WaitGroup
	logger logging.Logger
}

// Compile-time interface check.
var _ core.Scheduler = (*Environment)(nil)

// NewEnvironment constructs an idle environment with an empty queue.
func NewEnvironment(optFns ...func(o *Options)) *Environment {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Environment{
		now:    opts.Start,
		logger: opts.Logger,
	}
}

// Now returns the current simulated time.
func (e *Environment) Now() float64 { return e.now }

// Process registers fn as a new process. Its first activation is queued at
// the current time behind work already scheduled for this instant, matching
// the order processes were registered in. Registration never suspends the
// caller, so spawn paths inside behaviors stay atomic.
func (e *Environment) Process(name string, fn core.BehaviorFunc) core.Proc {
	p := &Process{
		name:   name,
		env:    e,
		resume: make(chan float64),
		yield:  make(chan yieldMsg, 1),
	}

	e.procs = append(e.procs, p)
	e.wg.Add(1)
	go p.run(fn)

	e.push(p, e.now)
	e.logger.Debug("process registered", "name", name, "time", e.now)

	return p
}

// Run drives the clock, resuming queued processes in (time, sequence) order
// until the next activation would be at or beyond until. Activations
// scheduled exactly at the horizon stay queued for a later Run call; the
// clock itself ends at until. Run returns an error when the environment was
// already stopped or the horizon precedes the current time; behavior errors
// do not abort the run and are collected for Errs.
func (e *Environment) Run(until float64) error {
	switch e.state {
	case stateRunning:
		return fmt.Errorf("environment is already running")
	case stateStopped:
		return ErrStopped
	}

	if until < e.now {
		return fmt.Errorf("run horizon %v precedes current time %v", until, e.now)
	}

	e.state = stateRunning
	defer func() { e.state = stateIdle }()

	for e.queue.Len() > 0 {
		if e.queue[0].time >= until {
			break
		}

		it := heap.Pop(&e.queue).(*queueItem)
		e.now = it.time

		it.proc.resume <- e.now
		msg := <-it.proc.yield

		if msg.done {
			it.proc.finished = true
			if msg.err != nil && !errors.Is(msg.err, ErrStopped) {
				e.errs = append(e.errs, fmt.Errorf("process %s: %w", it.proc.name, msg.err))
				e.logger.Warn("process failed", "name", it.proc.name, "time", e.now, "error", msg.err)
			} else {
				e.logger.Debug("process finished", "name", it.proc.name, "time", e.now)
			}
			continue
		}

		wake := msg.wake
		if wake < e.now {
			wake = e.now
		}
		e.push(it.proc, wake)
	}

	e.now = until

	return nil
}

// Stop releases every process still suspended: its pending Wait returns
// ErrStopped, the behavior unwinds and the goroutine exits. Stop blocks
// until all process goroutines are gone and is idempotent. Call it after
// Run returns; the environment cannot be reused afterwards.
func (e *Environment) Stop() {
	if e.state == stateStopped {
		return
	}
	e.state = stateStopped

	for _, p := range e.procs {
		if !p.finished {
			close(p.resume)
		}
	}

	e.wg.Wait()
	e.logger.Debug("environment stopped", "time", e.now, "processes", len(e.procs))
}

// Errs returns the non-stop errors behaviors returned during Run, in
// completion order. The slice is a copy.
func (e *Environment) Errs() []error {
	out := make([]error, len(e.errs))
	copy(out, e.errs)
	return out
}

// ProcessCount returns the number of processes ever registered.
func (e *Environment) ProcessCount() int { return len(e.procs) }

// PendingCount returns the number of queued activations.
func (e *Environment) PendingCount() int { return e.queue.Len() }

func (e *Environment) push(p *Process, at float64) {
	e.seq++
	heap.Push(&e.queue, &queueItem{time: at, seq: e.seq, proc: p})
}
