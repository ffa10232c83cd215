package core

// Agent defines the core interface that all agents in netsim must implement.
//
// Agents are the primary processing units of a simulation. Each one occupies
// a node of the shared topology (the environment agent being the single
// exception), carries a mutable State, and contributes a behavior routine
// that the cooperative scheduler drives as an independent process.
//
// Implementations must:
//   - Embed agent.BaseAgent to inherit the topology/query protocol
//   - Supply Run, yielding control via the Proc between units of work
//   - Keep every topology or counter mutation free of suspension points so
//     the mutation is atomic under cooperative scheduling
type Agent interface {
	ID() int64
	Name() string
	State() State
	SetState(s State)
	Run(p Proc) error
}
