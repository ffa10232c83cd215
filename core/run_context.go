package core

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/hupe1980/netsim/logging"
)

// NewID returns a fresh UUID string, used for run identifiers.
func NewID() string { return uuid.NewString() }

// RunContext carries the shared execution scope of one simulation run. It
// aggregates:
//   - The cooperative Scheduler driving all behavior processes
//   - The Topology every agent of the run reads and mutates
//   - Run-global Params injected into agents at construction
//   - A seeded RNG for reproducible stochastic behaviors
//   - Identifiers (RunID, Trial index) for logging and persistence keys
//   - The monotonic id counter that spawn paths allocate node ids from
//
// A RunContext is built once per trial and handed to every agent and
// observer of that trial; nothing in it is global process state, so
// concurrent runs never share mutable data.
type RunContext struct {
	Scheduler Scheduler
	Topology  Topology
	Params    Params
	RunID     string
	Trial     int
	Rand      *rand.Rand

	idCounter int64

	*loggerAdapter
}

// RunContextOptions holds optional overrides passed to NewRunContext.
type RunContextOptions struct {
	// Params are run-global parameters visible to every agent.
	Params Params
	// RunID labels the run; a UUID is generated when empty.
	RunID string
	// Trial is the trial index within a multi-trial run.
	Trial int
	// Seed initializes the run RNG. Equal seeds reproduce equal runs.
	Seed int64
	// FirstID is the first node id the counter hands out. Bootstrap sets it
	// past the highest pre-seeded node id.
	FirstID int64
	// Logger receives framework diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// NewRunContext constructs the execution scope for one run over the given
// scheduler and topology.
func NewRunContext(scheduler Scheduler, topo Topology, optFns ...func(o *RunContextOptions)) *RunContext {
	opts := RunContextOptions{
		Seed:   1,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.RunID == "" {
		opts.RunID = NewID()
	}

	return &RunContext{
		Scheduler:     scheduler,
		Topology:      topo,
		Params:        opts.Params,
		RunID:         opts.RunID,
		Trial:         opts.Trial,
		Rand:          rand.New(rand.NewSource(opts.Seed)),
		idCounter:     opts.FirstID,
		loggerAdapter: newLoggerAdapter(opts.Logger),
	}
}

// NextID returns the next node id and advances the counter. Ids are handed
// out in strictly increasing order and never reused within a run. The
// increment contains no suspension point, so under cooperative scheduling
// two spawn paths can never observe the same value.
func (rc *RunContext) NextID() int64 {
	id := rc.idCounter
	rc.idCounter++
	return id
}

// PeekID returns the id the next NextID call will hand out, without
// advancing the counter.
func (rc *RunContext) PeekID() int64 { return rc.idCounter }

// Now returns the current simulated time, or zero when no scheduler is
// attached.
func (rc *RunContext) Now() float64 {
	if rc.Scheduler == nil {
		return 0
	}
	return rc.Scheduler.Now()
}

// Param returns the run-global parameter value or nil when absent.
func (rc *RunContext) Param(key string) any { return rc.Params.Get(key) }
