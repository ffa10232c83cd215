package core

// State is the opaque per-agent condition value. netsim attaches no meaning
// to it beyond non-emptiness at construction time; behaviors and observers
// interpret it (commonly a short string such as "susceptible" or a small
// struct). Values should be comparable or at least cheaply copyable since
// observers snapshot them every sampling tick.
type State = any

// EmptyState reports whether s carries no usable value. Nil and the empty
// string are the two empty forms; every other value is considered set.
func EmptyState(s State) bool {
	if s == nil {
		return true
	}
	if str, ok := s.(string); ok {
		return str == ""
	}
	return false
}

// Params holds named free-form parameters. It is used both for run-global
// parameters shared by every agent of a trial and for per-agent construction
// parameters.
type Params map[string]any

// Get returns the parameter value or nil when absent.
func (p Params) Get(key string) any {
	if p == nil {
		return nil
	}
	return p[key]
}

// Clone returns a shallow copy safe for caller mutation.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Attrs holds named edge attributes (weights, labels, capacities).
type Attrs map[string]any

// Clone returns a shallow copy safe for caller mutation.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	c := make(Attrs, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

const (
	// EnvironmentAgentID is the reserved id of the environment agent. It never
	// collides with node-bound agents, whose ids are allocated from zero
	// upward.
	EnvironmentAgentID int64 = -1

	// StateEnvironment is the reserved state marker carried by environment
	// agents. Queries filtering on ordinary states never match it.
	StateEnvironment = "environment_agent"
)
