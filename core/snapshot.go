package core

import (
	"slices"
)

// Snapshot is a structure-only copy of a topology: node ids and undirected
// edges, no agent bindings, no attributes. Snapshots are plain data, safe to
// retain across an arbitrary number of later mutations, and are what
// observers store and trial stores persist.
type Snapshot struct {
	Nodes []int64    `json:"nodes"`
	Edges [][2]int64 `json:"edges"`
}

// EmptySnapshot returns a snapshot with no nodes and no edges.
func EmptySnapshot() *Snapshot {
	return &Snapshot{Nodes: []int64{}, Edges: [][2]int64{}}
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return EmptySnapshot()
	}
	c := &Snapshot{
		Nodes: make([]int64, len(s.Nodes)),
		Edges: make([][2]int64, len(s.Edges)),
	}
	copy(c.Nodes, s.Nodes)
	copy(c.Edges, s.Edges)
	return c
}

// NodeCount returns the number of nodes. A nil snapshot is empty.
func (s *Snapshot) NodeCount() int {
	if s == nil {
		return 0
	}
	return len(s.Nodes)
}

// EdgeCount returns the number of edges. A nil snapshot is empty.
func (s *Snapshot) EdgeCount() int {
	if s == nil {
		return 0
	}
	return len(s.Edges)
}

// DegreeSequence returns the sorted (ascending) degree of every node,
// isolated nodes included. Two graphs with different degree sequences cannot
// be isomorphic.
func (s *Snapshot) DegreeSequence() []int {
	if s == nil {
		return []int{}
	}
	deg := make(map[int64]int, len(s.Nodes))
	for _, id := range s.Nodes {
		deg[id] = 0
	}
	for _, e := range s.Edges {
		deg[e[0]]++
		deg[e[1]]++
	}
	seq := make([]int, 0, len(deg))
	for _, d := range deg {
		seq = append(seq, d)
	}
	slices.Sort(seq)
	return seq
}

// CouldBeIsomorphic reports whether s and o pass the cheap structural
// equivalence screen: equal node count, equal edge count and identical
// degree sequences. A true result does not prove isomorphism; a false result
// disproves it. Observers use the predicate to coalesce relabeled-but-
// identically-shaped topologies into one stored record, trading exact node
// identity for storage proportional to structural change.
func (s *Snapshot) CouldBeIsomorphic(o *Snapshot) bool {
	if s.NodeCount() != o.NodeCount() || s.EdgeCount() != o.EdgeCount() {
		return false
	}
	return slices.Equal(s.DegreeSequence(), o.DegreeSequence())
}
