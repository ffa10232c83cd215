package agent

import (
	"fmt"

	"github.com/hupe1980/netsim/core"
)

// BaseAgent bundles the identity, state and topology protocol shared by all
// netsim agents. Embed it in concrete agent implementations and supply a Run
// method to satisfy the core.Agent interface.
//
// BaseAgent performs no locking: under the cooperative scheduler at most one
// behavior executes at any instant, and none of these methods suspends, so
// every call completes atomically with respect to all other agents.
type BaseAgent struct {
	rc     *core.RunContext
	id     int64
	name   string
	state  core.State
	params core.Params
	proc   core.Proc
}

// Options holds configuration overrides passed to NewBaseAgent.
type Options struct {
	// Name is a descriptive label for diagnostics, not unique.
	Name string
	// Params holds per-agent construction parameters.
	Params core.Params
}

// WithName sets the agent's diagnostic label.
func WithName(name string) func(o *Options) {
	return func(o *Options) { o.Name = name }
}

// WithParams sets the agent's construction parameters.
func WithParams(params core.Params) func(o *Options) {
	return func(o *Options) { o.Params = params }
}

// NewBaseAgent constructs a BaseAgent bound to node id with the given
// initial state. The run context must carry a scheduler and a topology and
// the state must be non-empty; a missing argument fails construction
// immediately with an error naming it. Construction does not insert a node
// or start a process; the spawn paths (runner bootstrap,
// EnvironmentAgent.AddNode) do both.
func NewBaseAgent(rc *core.RunContext, id int64, state core.State, optFns ...func(o *Options)) (*BaseAgent, error) {
	if rc == nil {
		return nil, fmt.Errorf("%w: run context", core.ErrMissingArgument)
	}
	if rc.Scheduler == nil {
		return nil, fmt.Errorf("%w: scheduler", core.ErrMissingArgument)
	}
	if rc.Topology == nil {
		return nil, fmt.Errorf("%w: topology", core.ErrMissingArgument)
	}
	if core.EmptyState(state) {
		return nil, fmt.Errorf("%w: non-empty state", core.ErrMissingArgument)
	}

	opts := Options{
		Name: "agent",
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &BaseAgent{
		rc:     rc,
		id:     id,
		name:   opts.Name,
		state:  state,
		params: opts.Params,
	}, nil
}

// ID returns the agent's node id.
func (b *BaseAgent) ID() int64 { return b.id }

// Name returns the agent's diagnostic label.
func (b *BaseAgent) Name() string { return b.name }

// State returns the agent's current state value.
func (b *BaseAgent) State() core.State { return b.state }

// SetState replaces the agent's state value.
func (b *BaseAgent) SetState(s core.State) { b.state = s }

// Params returns the agent's construction parameters.
func (b *BaseAgent) Params() core.Params { return b.params }

// GlobalParams returns the run-global parameters shared by every agent.
func (b *BaseAgent) GlobalParams() core.Params { return b.rc.Params }

// Context returns the run context the agent was constructed with.
func (b *BaseAgent) Context() *core.RunContext { return b.rc }

// Process returns the scheduled process driving this agent's behavior, or
// nil before activation.
func (b *BaseAgent) Process() core.Proc { return b.proc }

// Run is the behavior stub a concrete agent must override.
func (b *BaseAgent) Run(_ core.Proc) error {
	return fmt.Errorf("cannot execute BaseAgent directly - embed it in a concrete agent with a Run implementation: %w", core.ErrNotImplemented)
}

// setProc is used by Activate to attach the scheduled process handle.
func (b *BaseAgent) setProc(p core.Proc) { b.proc = p }

// Nodes returns all node ids in the topology, in the store's canonical
// order. The order carries no semantic meaning.
func (b *BaseAgent) Nodes() []int64 { return b.rc.Topology.Nodes() }

// QueryOptions holds the selection criteria passed to Agents.
type QueryOptions struct {
	// State keeps only agents whose State equals it. Nil disables the
	// filter. Values used here must be comparable.
	State core.State
	// NeighborsOnly restricts the scan to nodes adjacent to this agent.
	NeighborsOnly bool
}

// WithState filters the query to agents in the given state.
func WithState(s core.State) func(o *QueryOptions) {
	return func(o *QueryOptions) { o.State = s }
}

// NeighborsOnly restricts the query to the agent's direct neighbors.
func NeighborsOnly() func(o *QueryOptions) {
	return func(o *QueryOptions) { o.NeighborsOnly = true }
}

// Agents is the single query primitive: it selects agents by neighborhood
// membership and state equality. With no options it returns every
// node-bound agent of the run; "all agents in state S", "my neighbors" and
// "my neighbors in state S" are special cases. Scanning a node whose
// binding is gone propagates the lookup error.
func (b *BaseAgent) Agents(optFns ...func(o *QueryOptions)) ([]core.Agent, error) {
	var opts QueryOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	var ids []int64
	if opts.NeighborsOnly {
		var err error
		ids, err = b.rc.Topology.Neighbors(b.id)
		if err != nil {
			return nil, err
		}
	} else {
		ids = b.rc.Topology.Nodes()
	}

	agents := make([]core.Agent, 0, len(ids))
	for _, id := range ids {
		a, err := b.rc.Topology.Agent(id)
		if err != nil {
			return nil, fmt.Errorf("scan node %d: %w", id, err)
		}
		if opts.State != nil && a.State() != opts.State {
			continue
		}
		agents = append(agents, a)
	}

	return agents, nil
}

// AllAgents returns every agent in the given state; a nil state disables
// the filter.
func (b *BaseAgent) AllAgents(state core.State) ([]core.Agent, error) {
	if state == nil {
		return b.Agents()
	}
	return b.Agents(WithState(state))
}

// NeighboringAgents returns the agent's direct neighbors in the given
// state; a nil state disables the filter.
func (b *BaseAgent) NeighboringAgents(state core.State) ([]core.Agent, error) {
	if state == nil {
		return b.Agents(NeighborsOnly())
	}
	return b.Agents(WithState(state), NeighborsOnly())
}

// NeighborIDs returns the ids of the nodes adjacent to this agent.
func (b *BaseAgent) NeighborIDs() ([]int64, error) {
	return b.rc.Topology.Neighbors(b.id)
}

// Agent returns the agent bound to the given node, failing with a lookup
// error when the node is absent or unbound.
func (b *BaseAgent) Agent(id int64) (core.Agent, error) {
	return b.rc.Topology.Agent(id)
}

// RemoveNode deletes a node and its incident edges from the shared
// topology. Any agent may remove any node; no ownership check is enforced
// at this layer.
func (b *BaseAgent) RemoveNode(id int64) error {
	if err := b.rc.Topology.RemoveNode(id); err != nil {
		return err
	}

	b.rc.LogDebug("node removed", "node", id, "by", b.id, "time", b.rc.Now())

	return nil
}

// Die removes this agent's own node. The behavior routine keeps running
// until it returns or suspends; termination is the routine's own
// responsibility, nothing interrupts it synchronously.
func (b *BaseAgent) Die() error {
	return b.RemoveNode(b.id)
}

// Activate registers the agent's behavior routine as a scheduled process
// activated at the current simulated time and attaches the process handle
// to the agent. Registration never suspends the caller, so spawn paths
// remain atomic under cooperative scheduling.
func Activate(rc *core.RunContext, a core.Agent) core.Proc {
	p := rc.Scheduler.Process(fmt.Sprintf("%s-%d", a.Name(), a.ID()), a.Run)

	if setter, ok := a.(interface{ setProc(p core.Proc) }); ok {
		setter.setProc(p)
	}

	return p
}
