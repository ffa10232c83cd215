package trial

import (
	"context"
	"sync"

	"github.com/hupe1980/netsim/core"
)

// InMemoryStore is a volatile TrialStore implementation keeping record series
// in process local maps. It is safe for concurrent access and best suited for
// tests or single-process experiment drivers. Saved and returned slices are
// copied to prevent external mutation of internal state.
type InMemoryStore struct {
	mu         sync.RWMutex
	states     map[string][]core.StateRecord
	topologies map[string][]core.TopologyRecord
}

// Compile-time interface check.
var _ core.TrialStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory trial store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		states:     make(map[string][]core.StateRecord),
		topologies: make(map[string][]core.TopologyRecord),
	}
}

// SaveStates stores a copy of the state record series under trialID,
// replacing any previous series for that trial.
func (s *InMemoryStore) SaveStates(_ context.Context, trialID string, recs []core.StateRecord) error {
	if trialID == "" {
		return core.ErrMissingTrialID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[trialID] = copyStates(recs)

	return nil
}

// States returns a copy of the stored state series and whether the trial was
// ever saved.
func (s *InMemoryStore) States(_ context.Context, trialID string) ([]core.StateRecord, bool, error) {
	if trialID == "" {
		return nil, false, core.ErrMissingTrialID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, ok := s.states[trialID]
	if !ok {
		return nil, false, nil
	}

	return copyStates(recs), true, nil
}

// SaveTopologies stores a copy of the topology record series under trialID,
// replacing any previous series for that trial.
func (s *InMemoryStore) SaveTopologies(_ context.Context, trialID string, recs []core.TopologyRecord) error {
	if trialID == "" {
		return core.ErrMissingTrialID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.topologies[trialID] = copyTopologies(recs)

	return nil
}

// Topologies returns a copy of the stored topology series and whether the
// trial was ever saved.
func (s *InMemoryStore) Topologies(_ context.Context, trialID string) ([]core.TopologyRecord, bool, error) {
	if trialID == "" {
		return nil, false, core.ErrMissingTrialID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, ok := s.topologies[trialID]
	if !ok {
		return nil, false, nil
	}

	return copyTopologies(recs), true, nil
}

// Trials returns the ids of every trial with at least one saved series.
func (s *InMemoryStore) Trials() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.states))
	for id := range s.states {
		seen[id] = struct{}{}
	}
	for id := range s.topologies {
		seen[id] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}

	return ids
}

func copyStates(recs []core.StateRecord) []core.StateRecord {
	out := make([]core.StateRecord, len(recs))
	for i, r := range recs {
		states := make([]core.State, len(r.States))
		copy(states, r.States)
		out[i] = core.StateRecord{Time: r.Time, States: states}
	}
	return out
}

func copyTopologies(recs []core.TopologyRecord) []core.TopologyRecord {
	out := make([]core.TopologyRecord, len(recs))
	for i, r := range recs {
		out[i] = core.TopologyRecord{Time: r.Time, Topology: r.Topology.Clone()}
	}
	return out
}
