// Package netsim provides a high-level façade over the simulation kernel and
// its collaborators (topology, agents, observer, trial stores & logging)
// enabling rapid construction of networked agent-based simulations. Most
// applications interact with this package by:
//  1. Describing a run via Config (seed topology, agent factory, horizon)
//  2. Creating a Simulation via New() (optionally overriding the in-memory store)
//  3. Executing all trials with Run() and inspecting the TrialResults
//
// The façade delegates orchestration to runner.Runner while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; longer experiments typically supply a durable trial store and a
// structured logger.
package netsim

import (
	"context"

	"github.com/hupe1980/netsim/agent"
	"github.com/hupe1980/netsim/core"
	"github.com/hupe1980/netsim/runner"
)

// Everyday types re-exported so small programs import one package.
type (
	// Agent is the behavior contract all simulation agents implement.
	Agent = core.Agent
	// Proc is the suspension handle a running behavior holds.
	Proc = core.Proc
	// RunContext carries the shared execution scope of one trial.
	RunContext = core.RunContext
	// State is the opaque per-agent condition value.
	State = core.State
	// Params holds named free-form parameters.
	Params = core.Params
	// Attrs holds named edge attributes.
	Attrs = core.Attrs
	// Snapshot is a structure-only topology copy.
	Snapshot = core.Snapshot
	// StateRecord is one sampled population state.
	StateRecord = core.StateRecord
	// TopologyRecord is one stored structural change.
	TopologyRecord = core.TopologyRecord
	// TrialStore persists record series between runs.
	TrialStore = core.TrialStore

	// BaseAgent bundles identity, state and the topology protocol.
	BaseAgent = agent.BaseAgent
	// EnvironmentAgent is the privileged topology-growing agent.
	EnvironmentAgent = agent.EnvironmentAgent
	// Factory constructs one agent variant bound to a node id.
	Factory = agent.Factory

	// Config describes a complete simulation run.
	Config = runner.Config
	// EnvironmentFactory constructs a trial's environment agent.
	EnvironmentFactory = runner.EnvironmentFactory
	// TrialResult summarizes one completed trial.
	TrialResult = runner.TrialResult
)

// Simulation is the high-level façade aggregating a validated run
// configuration and its runner.
type Simulation struct {
	runner *runner.Runner
}

// New validates the configuration and creates a Simulation. Any unset
// collaborator is initialized with a safe default (in-memory store, NoOp
// logger).
func New(cfg Config) (*Simulation, error) {
	r, err := runner.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Simulation{runner: r}, nil
}

// Run executes all configured trials sequentially and returns their results.
func (s *Simulation) Run(ctx context.Context) ([]TrialResult, error) {
	return s.runner.Run(ctx)
}

// RunTrial executes a single trial by index.
func (s *Simulation) RunTrial(ctx context.Context, trial int) (TrialResult, error) {
	return s.runner.RunTrial(ctx, trial)
}

// Store returns the trial store results are flushed to.
func (s *Simulation) Store() TrialStore {
	return s.runner.Store()
}

// Run is a one-shot helper: validate cfg, execute every trial, return the
// results.
func Run(ctx context.Context, cfg Config) ([]TrialResult, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}

	return s.Run(ctx)
}
