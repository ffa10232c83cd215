package sim

import (
	"fmt"

	"github.com/hupe1980/netsim/core"
)

// yieldMsg is what a process goroutine hands back to the scheduler when it
// gives up control: either a wake request or its completion.
type yieldMsg struct {
	wake float64
	done bool
	err  error
}

// Process is one scheduled behavior and its suspension handle. It implements
// core.Proc. The zero value is unusable; processes are created exclusively
// by Environment.Process.
//
// Channel discipline: the scheduler goroutine is the only sender on (and
// closer of) resume; the process goroutine is the only sender on yield.
// yield is buffered so the final completion message never blocks, which lets
// Stop reclaim goroutines without draining.
type Process struct {
	name   string
	env    *Environment
	resume chan float64
	yield  chan yieldMsg

	// finished is owned by the scheduler goroutine.
	finished bool
	// err is written by the process goroutine before exit and read only
	// after Stop's WaitGroup barrier.
	err error
}

// Compile-time interface check.
var _ core.Proc = (*Process)(nil)

// Name returns the diagnostic label the process was registered under.
func (p *Process) Name() string { return p.name }

// Now returns the current simulated time. Safe to call only while this
// process is the active one; the resume handoff orders the read after the
// scheduler's clock advance.
func (p *Process) Now() float64 { return p.env.now }

// Wait suspends the behavior for delta units of simulated time. A negative
// delta is an error; zero reschedules the process at the current instant
// behind already-queued activations.
func (p *Process) Wait(delta float64) error {
	if delta < 0 {
		return fmt.Errorf("negative delay %v", delta)
	}
	return p.WaitUntil(p.env.now + delta)
}

// WaitUntil suspends the behavior until the clock reaches t. Times in the
// past clamp to the current instant. Returns ErrStopped when the
// environment shut down while suspended.
func (p *Process) WaitUntil(t float64) error {
	p.yield <- yieldMsg{wake: t}
	if _, ok := <-p.resume; !ok {
		return ErrStopped
	}
	return nil
}

// run is the goroutine body: block until first activation, execute the
// behavior, report completion.
func (p *Process) run(fn core.BehaviorFunc) {
	defer p.env.wg.Done()

	if _, ok := <-p.resume; !ok {
		p.err = ErrStopped
		p.yield <- yieldMsg{done: true, err: ErrStopped}
		return
	}

	err := fn(p)
	p.err = err
	p.yield <- yieldMsg{done: true, err: err}
}
