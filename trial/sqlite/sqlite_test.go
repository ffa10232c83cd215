package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hupe1980/netsim/core"
)

func sampleStates() []core.StateRecord {
	return []core.StateRecord{
		{Time: 0, States: []core.State{"s", "s", "i"}},
		{Time: 1, States: []core.State{"s", "i", "i"}},
	}
}

func sampleTopologies() []core.TopologyRecord {
	return []core.TopologyRecord{
		{Time: 0, Topology: &core.Snapshot{Nodes: []int64{0, 1, 2}, Edges: [][2]int64{{0, 1}, {1, 2}}}},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "netsim.db")

	store := New(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.SaveStates(ctx, "trial-0", sampleStates()); err != nil {
		t.Fatalf("save states: %v", err)
	}
	if err := store.SaveTopologies(ctx, "trial-0", sampleTopologies()); err != nil {
		t.Fatalf("save topologies: %v", err)
	}

	states, ok, err := store.States(ctx, "trial-0")
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	if !ok {
		t.Fatal("expected saved states for trial-0")
	}
	if len(states) != 2 || states[1].States[1] != "i" {
		t.Fatalf("unexpected states loaded: %+v", states)
	}

	topologies, ok, err := store.Topologies(ctx, "trial-0")
	if err != nil {
		t.Fatalf("topologies: %v", err)
	}
	if !ok {
		t.Fatal("expected saved topologies for trial-0")
	}
	if topologies[0].Topology.NodeCount() != 3 || topologies[0].Topology.EdgeCount() != 2 {
		t.Fatalf("unexpected topologies loaded: %+v", topologies)
	}

	ids, err := store.Trials(ctx)
	if err != nil {
		t.Fatalf("trials: %v", err)
	}
	if len(ids) != 1 || ids[0] != "trial-0" {
		t.Fatalf("unexpected trial listing: %v", ids)
	}
}

func TestStoreUpsertReplacesSeries(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "netsim.db")

	store := New(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.SaveStates(ctx, "trial-0", sampleStates()); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveStates(ctx, "trial-0", sampleStates()[:1]); err != nil {
		t.Fatal(err)
	}

	states, _, err := store.States(ctx, "trial-0")
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 1 {
		t.Fatalf("expected replaced series of length 1, got %d", len(states))
	}
}

func TestStoreAbsentTrial(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "netsim.db")

	store := New(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if _, ok, err := store.States(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected absence without error, got ok=%t err=%v", ok, err)
	}
	if _, ok, err := store.Topologies(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected absence without error, got ok=%t err=%v", ok, err)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "netsim.db")

	first := New(dbPath)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := first.SaveStates(ctx, "persisted", sampleStates()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}

	second := New(dbPath)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("second init: %v", err)
	}
	t.Cleanup(func() {
		_ = second.Close()
	})

	states, ok, err := second.States(ctx, "persisted")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if !ok || len(states) != 2 {
		t.Fatalf("expected persisted states, got ok=%t len=%d", ok, len(states))
	}
}

func TestStoreRequiresInit(t *testing.T) {
	ctx := context.Background()
	store := New(filepath.Join(t.TempDir(), "netsim.db"))

	if err := store.SaveStates(ctx, "trial-0", nil); err == nil {
		t.Fatal("expected error before Init")
	}

	empty := New("")
	if err := empty.Init(ctx); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestStoreMissingTrialID(t *testing.T) {
	ctx := context.Background()
	store := New(filepath.Join(t.TempDir(), "netsim.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.SaveStates(ctx, "", nil); !errors.Is(err, core.ErrMissingTrialID) {
		t.Fatalf("expected missing trial id error, got %v", err)
	}
	if _, _, err := store.Topologies(ctx, ""); !errors.Is(err, core.ErrMissingTrialID) {
		t.Fatalf("expected missing trial id error, got %v", err)
	}
}
