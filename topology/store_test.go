package topology

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/hupe1980/netsim/core"
)

type stubAgent struct {
	id    int64
	state core.State
}

func (a *stubAgent) ID() int64            { return a.id }
func (a *stubAgent) Name() string         { return "stub" }
func (a *stubAgent) State() core.State    { return a.state }
func (a *stubAgent) SetState(s core.State) { a.state = s }
func (a *stubAgent) Run(core.Proc) error  { return core.ErrNotImplemented }

func TestStoreAddAndLookup(t *testing.T) {
	s := New()

	a0 := &stubAgent{id: 0, state: "idle"}
	if err := s.AddNode(0, a0); err != nil {
		t.Fatalf("add node: %v", err)
	}
	if err := s.AddNode(0, a0); err == nil {
		t.Fatal("duplicate node id should error")
	}

	got, err := s.Agent(0)
	if err != nil {
		t.Fatalf("agent lookup: %v", err)
	}
	if got != a0 {
		t.Fatal("lookup returned a different agent")
	}

	if _, err := s.Agent(99); !errors.Is(err, core.ErrNodeNotFound) {
		t.Fatalf("absent node lookup = %v, want ErrNodeNotFound", err)
	}
}

func TestStoreUnboundNode(t *testing.T) {
	s := New()

	if err := s.AddNode(3, nil); err != nil {
		t.Fatalf("add unbound node: %v", err)
	}
	if _, err := s.Agent(3); !errors.Is(err, core.ErrNodeNotFound) {
		t.Fatalf("unbound lookup = %v, want ErrNodeNotFound", err)
	}

	a := &stubAgent{id: 3, state: "ready"}
	if err := s.SetAgent(3, a); err != nil {
		t.Fatalf("set agent: %v", err)
	}
	if got, err := s.Agent(3); err != nil || got != a {
		t.Fatalf("lookup after bind = (%v, %v)", got, err)
	}

	if err := s.SetAgent(99, a); !errors.Is(err, core.ErrNodeNotFound) {
		t.Fatalf("bind to absent node = %v, want ErrNodeNotFound", err)
	}
}

func TestStoreAddEdgeValidation(t *testing.T) {
	s := New()
	for id := int64(0); id < 3; id++ {
		if err := s.AddNode(id, nil); err != nil {
			t.Fatalf("add node %d: %v", id, err)
		}
	}

	t.Run("missing first endpoint named", func(t *testing.T) {
		err := s.AddEdge(7, 1, nil)
		if !errors.Is(err, core.ErrNodeNotFound) {
			t.Fatalf("err = %v, want ErrNodeNotFound", err)
		}
		if !strings.Contains(err.Error(), "id1 (7)") {
			t.Fatalf("error should name the missing endpoint: %v", err)
		}
	})

	t.Run("missing second endpoint named", func(t *testing.T) {
		err := s.AddEdge(1, 8, nil)
		if !errors.Is(err, core.ErrNodeNotFound) {
			t.Fatalf("err = %v, want ErrNodeNotFound", err)
		}
		if !strings.Contains(err.Error(), "id2 (8)") {
			t.Fatalf("error should name the missing endpoint: %v", err)
		}
	})

	t.Run("self loop rejected", func(t *testing.T) {
		if err := s.AddEdge(1, 1, nil); err == nil {
			t.Fatal("self-loop should error")
		}
	})

	t.Run("valid edge", func(t *testing.T) {
		if err := s.AddEdge(0, 1, core.Attrs{"weight": 2.5}); err != nil {
			t.Fatalf("add edge: %v", err)
		}
		attrs, ok := s.EdgeAttrs(1, 0) // endpoint order irrelevant
		if !ok {
			t.Fatal("edge should exist")
		}
		if attrs["weight"] != 2.5 {
			t.Fatalf("attrs = %v", attrs)
		}
	})

	t.Run("re-add overwrites attributes", func(t *testing.T) {
		if err := s.AddEdge(1, 0, core.Attrs{"weight": 9.0}); err != nil {
			t.Fatalf("re-add edge: %v", err)
		}
		attrs, _ := s.EdgeAttrs(0, 1)
		if attrs["weight"] != 9.0 {
			t.Fatalf("attrs after overwrite = %v", attrs)
		}
		if s.EdgeCount() != 1 {
			t.Fatalf("edge count = %d, want 1", s.EdgeCount())
		}
	})
}

func TestStoreRemoveNode(t *testing.T) {
	s := New()
	for id := int64(0); id < 3; id++ {
		if err := s.AddNode(id, &stubAgent{id: id, state: "x"}); err != nil {
			t.Fatalf("add node %d: %v", id, err)
		}
	}
	if err := s.AddEdge(0, 1, core.Attrs{"w": 1}); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if err := s.AddEdge(1, 2, nil); err != nil {
		t.Fatalf("add edge: %v", err)
	}

	if err := s.RemoveNode(1); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if s.HasNode(1) {
		t.Fatal("node 1 should be gone")
	}
	if s.EdgeCount() != 0 {
		t.Fatalf("incident edges should be gone, count = %d", s.EdgeCount())
	}
	if _, ok := s.EdgeAttrs(0, 1); ok {
		t.Fatal("edge attrs should be gone")
	}
	if !slices.Equal(s.Nodes(), []int64{0, 2}) {
		t.Fatalf("nodes = %v, want [0 2]", s.Nodes())
	}

	if err := s.RemoveNode(1); !errors.Is(err, core.ErrNodeNotFound) {
		t.Fatalf("double remove = %v, want ErrNodeNotFound", err)
	}
}

func TestStoreNeighbors(t *testing.T) {
	s := New()
	for id := int64(0); id < 4; id++ {
		if err := s.AddNode(id, nil); err != nil {
			t.Fatalf("add node %d: %v", id, err)
		}
	}
	for _, e := range [][2]int64{{0, 3}, {0, 1}} {
		if err := s.AddEdge(e[0], e[1], nil); err != nil {
			t.Fatalf("add edge %v: %v", e, err)
		}
	}

	got, err := s.Neighbors(0)
	if err != nil {
		t.Fatalf("neighbors: %v", err)
	}
	if !slices.Equal(got, []int64{1, 3}) {
		t.Fatalf("neighbors = %v, want [1 3] in ascending order", got)
	}

	got, err = s.Neighbors(2)
	if err != nil {
		t.Fatalf("neighbors of isolated node: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("isolated node neighbors = %v, want none", got)
	}

	if _, err := s.Neighbors(42); !errors.Is(err, core.ErrNodeNotFound) {
		t.Fatalf("absent node neighbors = %v, want ErrNodeNotFound", err)
	}
}

func TestStoreSnapshotRoundTrip(t *testing.T) {
	s := New()
	for id := int64(0); id < 3; id++ {
		if err := s.AddNode(id, &stubAgent{id: id}); err != nil {
			t.Fatalf("add node %d: %v", id, err)
		}
	}
	if err := s.AddEdge(2, 0, nil); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if err := s.AddEdge(0, 1, nil); err != nil {
		t.Fatalf("add edge: %v", err)
	}

	snap := s.Snapshot()
	if !slices.Equal(snap.Nodes, []int64{0, 1, 2}) {
		t.Fatalf("snapshot nodes = %v", snap.Nodes)
	}
	want := [][2]int64{{0, 1}, {0, 2}}
	if !slices.Equal(snap.Edges, want) {
		t.Fatalf("snapshot edges = %v, want %v", snap.Edges, want)
	}

	// mutations after the fact must not leak into the snapshot
	if err := s.RemoveNode(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !slices.Equal(snap.Nodes, []int64{0, 1, 2}) {
		t.Fatal("snapshot must be detached from later mutations")
	}

	rebuilt, err := FromSnapshot(snap)
	if err != nil {
		t.Fatalf("from snapshot: %v", err)
	}
	if rebuilt.NodeCount() != 3 || rebuilt.EdgeCount() != 2 {
		t.Fatalf("rebuilt counts = (%d, %d), want (3, 2)", rebuilt.NodeCount(), rebuilt.EdgeCount())
	}
	if _, err := rebuilt.Agent(0); !errors.Is(err, core.ErrNodeNotFound) {
		t.Fatal("rebuilt nodes must start unbound")
	}
}
