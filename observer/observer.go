package observer

import (
	"context"
	"fmt"

	"github.com/hupe1980/netsim/core"
)

// DefaultInterval is the sampling cadence used when none is configured.
const DefaultInterval = 1.0

// Options holds configuration overrides passed to New.
type Options struct {
	// Interval is the simulated-time period between samples. Must be
	// positive.
	Interval float64
	// Store receives flushed records on LogTrial. Optional; without it only
	// the in-memory accessors are available.
	Store core.TrialStore
	// Name labels the observer's scheduled process.
	Name string
}

// WithInterval sets the sampling cadence.
func WithInterval(interval float64) func(o *Options) {
	return func(o *Options) { o.Interval = interval }
}

// WithStore sets the trial store flushes are written to.
func WithStore(store core.TrialStore) func(o *Options) {
	return func(o *Options) { o.Store = store }
}

// WithName sets the scheduled process label.
func WithName(name string) func(o *Options) {
	return func(o *Options) { o.Name = name }
}

// Observer samples agent states and topology structure on a fixed cadence.
// It is not itself an agent: it owns no node, has no id and never mutates
// the topology.
//
// Record slices grow for the life of the run. Like the rest of the protocol
// layer the observer relies on the cooperative scheduler for atomicity and
// performs no locking; accessors are meant for use between runs or from
// behaviors, not from unrelated goroutines.
type Observer struct {
	rc       *core.RunContext
	interval float64
	store    core.TrialStore
	proc     core.Proc

	states     []core.StateRecord
	topologies []core.TopologyRecord
	last       *core.Snapshot
}

// New constructs an observer and registers its sampling process at the
// current simulated time. The first sample therefore happens at activation
// time, before the first interval elapses.
func New(rc *core.RunContext, optFns ...func(o *Options)) (*Observer, error) {
	if rc == nil {
		return nil, fmt.Errorf("%w: run context", core.ErrMissingArgument)
	}
	if rc.Scheduler == nil {
		return nil, fmt.Errorf("%w: scheduler", core.ErrMissingArgument)
	}
	if rc.Topology == nil {
		return nil, fmt.Errorf("%w: topology", core.ErrMissingArgument)
	}

	opts := Options{
		Interval: DefaultInterval,
		Name:     "observer",
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Interval <= 0 {
		return nil, fmt.Errorf("sampling interval must be positive, got %v", opts.Interval)
	}

	o := &Observer{
		rc:       rc,
		interval: opts.Interval,
		store:    opts.Store,
		last:     core.EmptySnapshot(),
	}
	o.proc = rc.Scheduler.Process(opts.Name, o.run)

	return o, nil
}

// run is the sampling loop: record, then wait one interval.
func (o *Observer) run(p core.Proc) error {
	for {
		o.sample(p.Now())
		if err := p.Wait(o.interval); err != nil {
			return err
		}
	}
}

// sample appends one StateRecord unconditionally and one TopologyRecord
// only when the structure no longer passes the isomorphism screen against
// the last stored snapshot.
func (o *Observer) sample(now float64) {
	topo := o.rc.Topology

	nodes := topo.Nodes()
	states := make([]core.State, 0, len(nodes))
	for _, id := range nodes {
		a, err := topo.Agent(id)
		if err != nil {
			o.rc.LogWarn("sampling skipped unbound node", "node", id, "time", now)
			continue
		}
		states = append(states, a.State())
	}
	o.states = append(o.states, core.StateRecord{Time: now, States: states})

	snap := topo.Snapshot()
	if !snap.CouldBeIsomorphic(o.last) {
		o.last = snap
		o.topologies = append(o.topologies, core.TopologyRecord{Time: now, Topology: snap})
		o.rc.LogDebug("topology change recorded", "time", now, "nodes", snap.NodeCount(), "edges", snap.EdgeCount())
	}
}

// LogTrial flushes the accumulated state records to the configured store,
// keyed by trialID. Topology record persistence stays with the caller (see
// Topologies); runs that never configured a store cannot flush.
func (o *Observer) LogTrial(ctx context.Context, trialID string) error {
	if trialID == "" {
		return core.ErrMissingTrialID
	}
	if o.store == nil {
		return fmt.Errorf("no trial store configured")
	}

	if err := o.store.SaveStates(ctx, trialID, o.States()); err != nil {
		return fmt.Errorf("save states for trial %s: %w", trialID, err)
	}

	o.rc.LogInfo("trial states flushed", "trial", trialID, "records", len(o.states))

	return nil
}

// States returns a copy of the accumulated state records.
func (o *Observer) States() []core.StateRecord {
	out := make([]core.StateRecord, len(o.states))
	copy(out, o.states)
	return out
}

// Topologies returns a copy of the accumulated topology records.
func (o *Observer) Topologies() []core.TopologyRecord {
	out := make([]core.TopologyRecord, len(o.topologies))
	copy(out, o.topologies)
	return out
}

// Interval returns the sampling cadence.
func (o *Observer) Interval() float64 { return o.interval }

// Process returns the observer's scheduled process.
func (o *Observer) Process() core.Proc { return o.proc }
