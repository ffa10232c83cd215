package observer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hupe1980/netsim/agent"
	"github.com/hupe1980/netsim/core"
	"github.com/hupe1980/netsim/sim"
	"github.com/hupe1980/netsim/topology"
)

// MockTrialStore for verifying flush interactions
type MockTrialStore struct {
	mock.Mock
}

func (m *MockTrialStore) SaveStates(ctx context.Context, trialID string, recs []core.StateRecord) error {
	args := m.Called(ctx, trialID, recs)
	return args.Error(0)
}

func (m *MockTrialStore) States(ctx context.Context, trialID string) ([]core.StateRecord, bool, error) {
	args := m.Called(ctx, trialID)
	return args.Get(0).([]core.StateRecord), args.Bool(1), args.Error(2)
}

func (m *MockTrialStore) SaveTopologies(ctx context.Context, trialID string, recs []core.TopologyRecord) error {
	args := m.Called(ctx, trialID, recs)
	return args.Error(0)
}

func (m *MockTrialStore) Topologies(ctx context.Context, trialID string) ([]core.TopologyRecord, bool, error) {
	args := m.Called(ctx, trialID)
	return args.Get(0).([]core.TopologyRecord), args.Bool(1), args.Error(2)
}

var _ core.TrialStore = (*MockTrialStore)(nil)

// passiveAgent carries state without behavior of its own.
type passiveAgent struct {
	*agent.BaseAgent
}

func newPassiveAgent(rc *core.RunContext, id int64, state core.State, optFns ...func(o *agent.Options)) (core.Agent, error) {
	base, err := agent.NewBaseAgent(rc, id, state, optFns...)
	if err != nil {
		return nil, err
	}
	return &passiveAgent{BaseAgent: base}, nil
}

func (a *passiveAgent) Run(core.Proc) error { return nil }

func newObserverContext(t *testing.T) (*core.RunContext, *sim.Environment) {
	t.Helper()
	env := sim.NewEnvironment()
	rc := core.NewRunContext(env, topology.New())
	return rc, env
}

func seedPair(t *testing.T, rc *core.RunContext) {
	t.Helper()
	for id := int64(0); id < 2; id++ {
		a, err := newPassiveAgent(rc, id, "a")
		assert.NoError(t, err)
		assert.NoError(t, rc.Topology.AddNode(id, a))
	}
	assert.NoError(t, rc.Topology.AddEdge(0, 1, nil))
}

func TestNewObserverValidation(t *testing.T) {
	rc, env := newObserverContext(t)
	defer env.Stop()

	_, err := New(nil)
	assert.ErrorIs(t, err, core.ErrMissingArgument)

	_, err = New(rc, WithInterval(0))
	assert.Error(t, err)

	_, err = New(rc, WithInterval(-2))
	assert.Error(t, err)

	o, err := New(rc)
	assert.NoError(t, err)
	assert.Equal(t, DefaultInterval, o.Interval())
	assert.NotNil(t, o.Process())
}

// Scenario: shape change at tick 3 (node added), state-only change at tick
// 5, isomorphic relabeling at tick 7 (node swapped for a fresh id, shape
// kept). Exactly two topology records must exist, from the initial sample
// and tick 3; state records accumulate every tick regardless.
func TestObserverCoalescesIsomorphicTopologies(t *testing.T) {
	rc, env := newObserverContext(t)
	seedPair(t, rc)
	rc = withFirstID(rc, 2)

	envAgent, err := agent.NewEnvironmentAgent(rc)
	assert.NoError(t, err)

	// the mutator registers first so its tick-3/5/7 work lands before the
	// observer's sample of the same instant
	rc.Scheduler.Process("mutator", func(p core.Proc) error {
		if err := p.WaitUntil(3); err != nil {
			return err
		}
		spawned, err := envAgent.AddNode(newPassiveAgent, "x")
		if err != nil {
			return err
		}

		if err := p.WaitUntil(5); err != nil {
			return err
		}
		a, err := envAgent.Agent(0)
		if err != nil {
			return err
		}
		a.SetState("b")

		if err := p.WaitUntil(7); err != nil {
			return err
		}
		if err := envAgent.RemoveNode(spawned); err != nil {
			return err
		}
		if _, err := envAgent.AddNode(newPassiveAgent, "x"); err != nil {
			return err
		}

		return nil
	})

	o, err := New(rc)
	assert.NoError(t, err)

	assert.NoError(t, env.Run(9))
	env.Stop()
	assert.Empty(t, env.Errs())

	states := o.States()
	assert.Len(t, states, 9) // ticks 0 through 8, unconditional

	topologies := o.Topologies()
	assert.Len(t, topologies, 2)
	assert.Equal(t, 0.0, topologies[0].Time)
	assert.Equal(t, 3.0, topologies[1].Time)
	assert.Equal(t, 3, topologies[1].Topology.NodeCount())

	// tick 5 carried the state flip but no topology record
	assert.Equal(t, "b", states[5].States[0])
	assert.Equal(t, "a", states[4].States[0])

	// population size tracks the mutations
	assert.Len(t, states[2].States, 2)
	assert.Len(t, states[3].States, 3)
	assert.Len(t, states[8].States, 3)
}

func TestObserverEmptyTopologyNeverRecords(t *testing.T) {
	rc, env := newObserverContext(t)

	o, err := New(rc)
	assert.NoError(t, err)

	assert.NoError(t, env.Run(4))
	env.Stop()

	assert.Len(t, o.States(), 4)
	for _, rec := range o.States() {
		assert.Empty(t, rec.States)
	}
	assert.Empty(t, o.Topologies()) // empty matches the initial empty snapshot
}

func TestObserverFirstSampleRecordsSeededShape(t *testing.T) {
	rc, env := newObserverContext(t)
	seedPair(t, rc)

	o, err := New(rc, WithInterval(2))
	assert.NoError(t, err)

	assert.NoError(t, env.Run(5))
	env.Stop()

	assert.Len(t, o.States(), 3) // ticks 0, 2, 4
	topologies := o.Topologies()
	assert.Len(t, topologies, 1)
	assert.Equal(t, 0.0, topologies[0].Time)
	assert.Equal(t, 2, topologies[0].Topology.NodeCount())
	assert.Equal(t, 1, topologies[0].Topology.EdgeCount())
}

func TestObserverStatesInNodeOrder(t *testing.T) {
	rc, env := newObserverContext(t)

	for _, n := range []struct {
		id    int64
		state string
	}{{5, "e"}, {1, "b"}, {3, "d"}} {
		a, err := newPassiveAgent(rc, n.id, n.state)
		assert.NoError(t, err)
		assert.NoError(t, rc.Topology.AddNode(n.id, a))
	}

	o, err := New(rc)
	assert.NoError(t, err)

	assert.NoError(t, env.Run(1))
	env.Stop()

	states := o.States()
	assert.Len(t, states, 1)
	assert.Equal(t, []core.State{"b", "d", "e"}, states[0].States)
}

func TestObserverLogTrial(t *testing.T) {
	t.Run("missing trial id", func(t *testing.T) {
		rc, env := newObserverContext(t)
		defer env.Stop()

		o, err := New(rc, WithStore(&MockTrialStore{}))
		assert.NoError(t, err)

		assert.ErrorIs(t, o.LogTrial(context.Background(), ""), core.ErrMissingTrialID)
	})

	t.Run("no store configured", func(t *testing.T) {
		rc, env := newObserverContext(t)
		defer env.Stop()

		o, err := New(rc)
		assert.NoError(t, err)

		err = o.LogTrial(context.Background(), "trial-0")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "store")
	})

	t.Run("flushes states to the store", func(t *testing.T) {
		rc, env := newObserverContext(t)
		seedPair(t, rc)

		store := &MockTrialStore{}
		store.On("SaveStates", mock.Anything, "trial-0", mock.AnythingOfType("[]core.StateRecord")).Return(nil)

		o, err := New(rc, WithStore(store))
		assert.NoError(t, err)

		assert.NoError(t, env.Run(3))
		env.Stop()

		assert.NoError(t, o.LogTrial(context.Background(), "trial-0"))
		store.AssertExpectations(t)

		recs := store.Calls[0].Arguments.Get(2).([]core.StateRecord)
		assert.Len(t, recs, 3)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		rc, env := newObserverContext(t)
		defer env.Stop()

		boom := errors.New("disk full")
		store := &MockTrialStore{}
		store.On("SaveStates", mock.Anything, "trial-0", mock.Anything).Return(boom)

		o, err := New(rc, WithStore(store))
		assert.NoError(t, err)

		assert.ErrorIs(t, o.LogTrial(context.Background(), "trial-0"), boom)
	})
}

// withFirstID rebuilds the context with the id counter advanced past the
// seeded nodes, keeping scheduler and topology.
func withFirstID(rc *core.RunContext, firstID int64) *core.RunContext {
	return core.NewRunContext(rc.Scheduler, rc.Topology, func(o *core.RunContextOptions) {
		o.FirstID = firstID
	})
}
