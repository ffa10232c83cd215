package core

// Topology is the mutable undirected relationship graph shared by all agents
// of a run. Nodes are identified by agent id; each node may hold a binding to
// the Agent living on it. Edges are unordered pairs with optional attributes.
//
// Implementations must keep every mutating method free of suspension points:
// under the cooperative scheduler a mutation then completes atomically with
// respect to all other behaviors, which is the concurrency contract the
// protocol layer relies on.
type Topology interface {
	// AddNode inserts a new node bound to agent a. Inserting an id that is
	// already present is an error.
	AddNode(id int64, a Agent) error

	// SetAgent binds (or rebinds) an agent to an existing node. The bootstrap
	// path uses it to attach agents to pre-seeded nodes. ErrNodeNotFound when
	// the node is absent.
	SetAgent(id int64, a Agent) error

	// RemoveNode deletes the node, its agent binding and all incident edges.
	// ErrNodeNotFound when the node is absent.
	RemoveNode(id int64) error

	// AddEdge connects two existing nodes, overwriting the attributes of an
	// already-present edge. The error names the first missing endpoint;
	// self-loops are rejected.
	AddEdge(id1, id2 int64, attrs Attrs) error

	// HasNode reports whether the node exists.
	HasNode(id int64) bool

	// Agent returns the agent bound to the node. ErrNodeNotFound when the
	// node is absent; a node without a binding is also an error.
	Agent(id int64) (Agent, error)

	// Nodes returns all node ids in ascending order.
	Nodes() []int64

	// Neighbors returns the ids adjacent to the node in ascending order.
	// ErrNodeNotFound when the node is absent.
	Neighbors(id int64) ([]int64, error)

	// EdgeAttrs returns the attributes stored on the edge and whether the
	// edge exists. Endpoint order is irrelevant.
	EdgeAttrs(id1, id2 int64) (Attrs, bool)

	// NodeCount returns the number of nodes.
	NodeCount() int

	// EdgeCount returns the number of edges.
	EdgeCount() int

	// Snapshot returns a structure-only copy of the current graph, detached
	// from future mutations.
	Snapshot() *Snapshot
}
