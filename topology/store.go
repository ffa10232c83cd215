package topology

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/hupe1980/netsim/core"
)

// Store is the canonical core.Topology implementation: an undirected simple
// graph plus agent bindings and edge attributes in side maps.
type Store struct {
	g      *simple.UndirectedGraph
	agents map[int64]core.Agent
	attrs  map[[2]int64]core.Attrs
}

// Compile-time interface check.
var _ core.Topology = (*Store)(nil)

// New returns an empty topology store.
func New() *Store {
	return &Store{
		g:      simple.NewUndirectedGraph(),
		agents: make(map[int64]core.Agent),
		attrs:  make(map[[2]int64]core.Attrs),
	}
}

// FromSnapshot rebuilds a store holding the snapshot's structure. The
// resulting nodes carry no agent bindings; the bootstrap path attaches
// agents afterwards via SetAgent.
func FromSnapshot(snap *core.Snapshot) (*Store, error) {
	s := New()
	if snap == nil {
		return s, nil
	}

	for _, id := range snap.Nodes {
		if err := s.AddNode(id, nil); err != nil {
			return nil, fmt.Errorf("seed node %d: %w", id, err)
		}
	}
	for _, e := range snap.Edges {
		if err := s.AddEdge(e[0], e[1], nil); err != nil {
			return nil, fmt.Errorf("seed edge %v: %w", e, err)
		}
	}

	return s, nil
}

// AddNode inserts a new node, optionally bound to a. Duplicate ids are an
// error.
func (s *Store) AddNode(id int64, a core.Agent) error {
	if s.g.Node(id) != nil {
		return fmt.Errorf("node %d already exists in the topology", id)
	}

	s.g.AddNode(simple.Node(id))
	if a != nil {
		s.agents[id] = a
	}

	return nil
}

// SetAgent binds (or rebinds) an agent to an existing node.
func (s *Store) SetAgent(id int64, a core.Agent) error {
	if s.g.Node(id) == nil {
		return fmt.Errorf("node %d: %w", id, core.ErrNodeNotFound)
	}

	s.agents[id] = a

	return nil
}

// RemoveNode deletes the node, its binding and all incident edges together
// with their attributes.
func (s *Store) RemoveNode(id int64) error {
	if s.g.Node(id) == nil {
		return fmt.Errorf("node %d: %w", id, core.ErrNodeNotFound)
	}

	for _, n := range graph.NodesOf(s.g.From(id)) {
		delete(s.attrs, edgeKey(id, n.ID()))
	}
	delete(s.agents, id)
	s.g.RemoveNode(id)

	return nil
}

// AddEdge connects two existing nodes. Both endpoints are validated, in
// order, and the error names the missing one; self-loops are rejected.
// Adding an edge that already exists overwrites its attributes.
func (s *Store) AddEdge(id1, id2 int64, attrs core.Attrs) error {
	if s.g.Node(id1) == nil {
		return fmt.Errorf("edge endpoint id1 (%d) is not in the topology: %w", id1, core.ErrNodeNotFound)
	}
	if s.g.Node(id2) == nil {
		return fmt.Errorf("edge endpoint id2 (%d) is not in the topology: %w", id2, core.ErrNodeNotFound)
	}
	if id1 == id2 {
		return fmt.Errorf("self-loop on node %d is not supported", id1)
	}

	if !s.g.HasEdgeBetween(id1, id2) {
		s.g.SetEdge(simple.Edge{F: simple.Node(id1), T: simple.Node(id2)})
	}
	s.attrs[edgeKey(id1, id2)] = attrs.Clone()

	return nil
}

// HasNode reports whether the node exists.
func (s *Store) HasNode(id int64) bool { return s.g.Node(id) != nil }

// Agent returns the agent bound to the node.
func (s *Store) Agent(id int64) (core.Agent, error) {
	if s.g.Node(id) == nil {
		return nil, fmt.Errorf("node %d: %w", id, core.ErrNodeNotFound)
	}

	a, ok := s.agents[id]
	if !ok {
		return nil, fmt.Errorf("no agent bound to node %d: %w", id, core.ErrNodeNotFound)
	}

	return a, nil
}

// Nodes returns all node ids in ascending order.
func (s *Store) Nodes() []int64 {
	ids := make([]int64, 0, s.g.Nodes().Len())
	it := s.g.Nodes()
	for it.Next() {
		ids = append(ids, it.Node().ID())
	}
	slices.Sort(ids)
	return ids
}

// Neighbors returns the ids adjacent to the node in ascending order.
func (s *Store) Neighbors(id int64) ([]int64, error) {
	if s.g.Node(id) == nil {
		return nil, fmt.Errorf("node %d: %w", id, core.ErrNodeNotFound)
	}

	ids := make([]int64, 0)
	it := s.g.From(id)
	for it.Next() {
		ids = append(ids, it.Node().ID())
	}
	slices.Sort(ids)
	return ids, nil
}

// EdgeAttrs returns a copy of the attributes stored on the edge and whether
// the edge exists.
func (s *Store) EdgeAttrs(id1, id2 int64) (core.Attrs, bool) {
	if !s.g.HasEdgeBetween(id1, id2) {
		return nil, false
	}
	return s.attrs[edgeKey(id1, id2)].Clone(), true
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int { return s.g.Nodes().Len() }

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int {
	n := 0
	it := s.g.Edges()
	for it.Next() {
		n++
	}
	return n
}

// Snapshot returns a structure-only copy of the current graph with nodes
// and edges in canonical ascending order.
func (s *Store) Snapshot() *core.Snapshot {
	snap := &core.Snapshot{
		Nodes: s.Nodes(),
		Edges: make([][2]int64, 0),
	}

	it := s.g.Edges()
	for it.Next() {
		e := it.Edge()
		snap.Edges = append(snap.Edges, edgeKey(e.From().ID(), e.To().ID()))
	}
	slices.SortFunc(snap.Edges, func(a, b [2]int64) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})

	return snap
}

// edgeKey returns the canonical (low, high) endpoint pair.
func edgeKey(id1, id2 int64) [2]int64 {
	if id2 < id1 {
		id1, id2 = id2, id1
	}
	return [2]int64{id1, id2}
}
