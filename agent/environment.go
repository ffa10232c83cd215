package agent

import (
	"fmt"

	"github.com/hupe1980/netsim/core"
)

// Factory constructs one agent variant bound to a node id. The environment
// agent's spawn path is polymorphic over it; runner bootstrap uses the same
// signature to populate seed nodes.
type Factory func(rc *core.RunContext, id int64, state core.State, optFns ...func(o *Options)) (core.Agent, error)

// EnvironmentAgent is the privileged agent that grows the topology. It
// carries the reserved id -1 and the reserved environment state marker and
// is bound to no topology node; it is the only component that allocates new
// node ids.
//
// EnvironmentAgent has no behavior of its own. Embed it in a concrete type
// with a Run implementation to schedule environment-level logic (growth
// processes, external shocks); used purely as a mutation surface it needs
// no activation.
type EnvironmentAgent struct {
	*BaseAgent
}

// NewEnvironmentAgent constructs an environment agent for the run. The run
// context requirements match NewBaseAgent.
func NewEnvironmentAgent(rc *core.RunContext, optFns ...func(o *Options)) (*EnvironmentAgent, error) {
	fns := append([]func(o *Options){WithName("environment")}, optFns...)

	base, err := NewBaseAgent(rc, core.EnvironmentAgentID, core.StateEnvironment, fns...)
	if err != nil {
		return nil, err
	}

	return &EnvironmentAgent{BaseAgent: base}, nil
}

// AddNode allocates the next node id, constructs an agent of the given
// variant for it, inserts the node with the agent bound to it, activates
// the agent's behavior process and returns the new id.
//
// The whole operation contains no suspension point: under cooperative
// scheduling two AddNode calls can never observe the same counter value, so
// ids are strictly increasing across the run. A failed construction burns
// the allocated id; ids are unique, not gap-free.
func (e *EnvironmentAgent) AddNode(f Factory, state core.State, optFns ...func(o *Options)) (int64, error) {
	if f == nil {
		return 0, fmt.Errorf("%w: agent factory", core.ErrMissingArgument)
	}

	rc := e.Context()
	id := rc.NextID()

	a, err := f(rc, id, state, optFns...)
	if err != nil {
		return 0, fmt.Errorf("construct agent %d: %w", id, err)
	}

	if err := rc.Topology.AddNode(id, a); err != nil {
		return 0, fmt.Errorf("insert node %d: %w", id, err)
	}

	Activate(rc, a)
	rc.LogDebug("node added", "node", id, "state", state, "time", rc.Now())

	return id, nil
}

// AddEdge connects two existing nodes, overwriting the attributes of an
// already-present edge. Both endpoints are validated and the returned error
// names the missing one.
func (e *EnvironmentAgent) AddEdge(id1, id2 int64, attrs core.Attrs) error {
	if err := e.Context().Topology.AddEdge(id1, id2, attrs); err != nil {
		return err
	}

	e.Context().LogDebug("edge added", "id1", id1, "id2", id2, "time", e.Context().Now())

	return nil
}

// LogTopology is a reserved extension point for topology-change auditing.
func (e *EnvironmentAgent) LogTopology() error {
	return fmt.Errorf("topology auditing: %w", core.ErrNotImplemented)
}
