package runner

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/netsim/agent"
	"github.com/hupe1980/netsim/core"
	"github.com/hupe1980/netsim/logging"
	"github.com/hupe1980/netsim/observer"
	"github.com/hupe1980/netsim/sim"
	"github.com/hupe1980/netsim/topology"
	"github.com/hupe1980/netsim/trial"
)

// EnvironmentFactory constructs the privileged environment agent of a trial.
// The produced agent is activated like any other; supply a Run that returns
// promptly when the environment needs no scheduled behavior of its own.
type EnvironmentFactory func(rc *core.RunContext) (core.Agent, error)

// Config holds the full description of a simulation run.
type Config struct {
	// Seed is the bootstrap topology every trial starts from. Required; use
	// core.EmptySnapshot() for runs grown entirely by an environment agent.
	Seed *core.Snapshot

	// Factory constructs one agent per seed node. Required.
	Factory agent.Factory

	// States holds the initial agent states: either one value per seed node,
	// mapped in ascending node id order, or a single value shared by all.
	States []core.State

	// Environment optionally constructs the trial's environment agent.
	Environment EnvironmentFactory

	// MaxTime is the simulated time horizon every trial runs to. Required.
	MaxTime float64

	// Trials is the number of independent trials. Defaults to 1.
	Trials int

	// Interval is the observer sampling cadence. Defaults to
	// observer.DefaultInterval.
	Interval float64

	// Store receives the flushed record series. Defaults to an in-memory
	// store.
	Store core.TrialStore

	// Params are run-global parameters injected into every agent.
	Params core.Params

	// BaseSeed derives per-trial RNG seeds (BaseSeed + trial index), so a
	// run is reproducible while its trials stay decorrelated.
	BaseSeed int64

	// Logger receives orchestration diagnostics. Defaults to NoOp.
	Logger logging.Logger

	// Callbacks optionally hooks trial lifecycle points. See CallbackManager.
	Callbacks *CallbackManager
}

// TrialResult summarizes one completed trial.
type TrialResult struct {
	// Trial is the trial index within the run.
	Trial int
	// RunID is the generated identifier of the trial's run context.
	RunID string
	// Key is the store key the record series were flushed under.
	Key string
	// FinalTime is the clock value the trial ended at.
	FinalTime float64
	// StateRecords counts the sampled state records.
	StateRecords int
	// TopologyRecords counts the stored topology records.
	TopologyRecords int
	// Nodes is the node count at the end of the trial.
	Nodes int
	// Errs holds behavior errors collected during the trial. Behavior
	// failures do not abort a trial.
	Errs []error
}

// Runner executes the trials of one configured simulation run.
type Runner struct {
	cfg    Config
	logger logging.Logger
}

// New validates the configuration and constructs a Runner.
func New(cfg Config) (*Runner, error) {
	if cfg.Seed == nil {
		return nil, fmt.Errorf("%w: seed snapshot", core.ErrMissingArgument)
	}
	if cfg.Factory == nil {
		return nil, fmt.Errorf("%w: agent factory", core.ErrMissingArgument)
	}
	if len(cfg.States) == 0 {
		return nil, fmt.Errorf("%w: initial states", core.ErrMissingArgument)
	}
	if len(cfg.States) != 1 && len(cfg.States) != len(cfg.Seed.Nodes) {
		return nil, fmt.Errorf("states length %d matches neither 1 nor the seed node count %d", len(cfg.States), len(cfg.Seed.Nodes))
	}
	if cfg.MaxTime <= 0 {
		return nil, fmt.Errorf("max time must be positive, got %v", cfg.MaxTime)
	}
	if cfg.Trials < 0 {
		return nil, fmt.Errorf("trial count must not be negative, got %d", cfg.Trials)
	}

	if cfg.Trials == 0 {
		cfg.Trials = 1
	}
	if cfg.Interval == 0 {
		cfg.Interval = observer.DefaultInterval
	}
	if cfg.Store == nil {
		cfg.Store = trial.NewInMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NoOpLogger{}
	}

	return &Runner{cfg: cfg, logger: cfg.Logger}, nil
}

// Store returns the trial store results are flushed to.
func (r *Runner) Store() core.TrialStore { return r.cfg.Store }

// Run executes all configured trials sequentially and returns their results.
// A context cancellation between trials stops the run; completed trial
// results are returned alongside the error.
func (r *Runner) Run(ctx context.Context) ([]TrialResult, error) {
	results := make([]TrialResult, 0, r.cfg.Trials)

	for t := 0; t < r.cfg.Trials; t++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := r.RunTrial(ctx, t)
		if err != nil {
			return results, err
		}

		results = append(results, res)
	}

	return results, nil
}

// RunTrial executes a single trial: fresh environment and topology from the
// seed snapshot, seed agents activated in ascending node order, then the
// optional environment agent, then the observer; the clock runs to MaxTime,
// the kernel stops, and both record series are flushed under the trial key.
func (r *Runner) RunTrial(ctx context.Context, t int) (TrialResult, error) {
	if t < 0 {
		return TrialResult{}, fmt.Errorf("trial index must not be negative, got %d", t)
	}

	env := sim.NewEnvironment(func(o *sim.Options) {
		o.Logger = r.logger
	})
	defer env.Stop()

	topo, err := topology.FromSnapshot(r.cfg.Seed)
	if err != nil {
		return TrialResult{}, fmt.Errorf("seed topology for trial %d: %w", t, err)
	}

	rc := core.NewRunContext(env, topo, func(o *core.RunContextOptions) {
		o.Params = r.cfg.Params
		o.Trial = t
		o.Seed = r.cfg.BaseSeed + int64(t)
		o.FirstID = firstFreeID(r.cfg.Seed)
		o.Logger = r.logger
	})

	if err := r.bootstrap(rc, topo); err != nil {
		return TrialResult{}, fmt.Errorf("bootstrap trial %d: %w", t, err)
	}

	obs, err := observer.New(rc,
		observer.WithInterval(r.cfg.Interval),
		observer.WithStore(r.cfg.Store),
	)
	if err != nil {
		return TrialResult{}, fmt.Errorf("observer for trial %d: %w", t, err)
	}

	if err := r.execCallbacks(ctx, CallbackBeforeTrial, &CallbackContext{RunContext: rc}); err != nil {
		return TrialResult{}, fmt.Errorf("before trial callback for trial %d: %w", t, err)
	}

	start := time.Now()
	runErr := env.Run(r.cfg.MaxTime)
	env.Stop()
	if runErr != nil {
		r.logger.Error("trial run failed", "trial", t, "error", runErr)
		return TrialResult{}, fmt.Errorf("run trial %d: %w", t, runErr)
	}

	errs := env.Errs()
	if len(errs) > 0 {
		if err := r.execCallbacks(ctx, CallbackOnError, &CallbackContext{RunContext: rc, Errs: errs}); err != nil {
			return TrialResult{}, fmt.Errorf("on error callback for trial %d: %w", t, err)
		}
	}

	if err := r.execCallbacks(ctx, CallbackBeforeFlush, &CallbackContext{RunContext: rc, States: obs.States()}); err != nil {
		return TrialResult{}, fmt.Errorf("before flush callback for trial %d: %w", t, err)
	}

	key := fmt.Sprintf("trial-%d", t)
	if err := obs.LogTrial(ctx, key); err != nil {
		return TrialResult{}, fmt.Errorf("flush states for trial %d: %w", t, err)
	}
	if err := r.cfg.Store.SaveTopologies(ctx, key, obs.Topologies()); err != nil {
		return TrialResult{}, fmt.Errorf("flush topologies for trial %d: %w", t, err)
	}

	res := TrialResult{
		Trial:           t,
		RunID:           rc.RunID,
		Key:             key,
		FinalTime:       env.Now(),
		StateRecords:    len(obs.States()),
		TopologyRecords: len(obs.Topologies()),
		Nodes:           topo.NodeCount(),
		Errs:            errs,
	}

	if err := r.execCallbacks(ctx, CallbackAfterTrial, &CallbackContext{RunContext: rc, Result: &res}); err != nil {
		return TrialResult{}, fmt.Errorf("after trial callback for trial %d: %w", t, err)
	}

	r.logger.Info("trial completed",
		"trial", t,
		"run_id", res.RunID,
		"final_time", res.FinalTime,
		"nodes", res.Nodes,
		"state_records", res.StateRecords,
		"topology_records", res.TopologyRecords,
		"behavior_errors", len(res.Errs),
		"duration", time.Since(start),
	)

	return res, nil
}

// execCallbacks runs the registered callbacks for one lifecycle point.
func (r *Runner) execCallbacks(ctx context.Context, t CallbackType, cc *CallbackContext) error {
	if r.cfg.Callbacks == nil {
		return nil
	}

	cc.CallbackType = t

	return r.cfg.Callbacks.ExecuteCallbacks(ctx, t, cc)
}

// bootstrap constructs and activates one agent per seed node, in ascending
// node id order, then the optional environment agent. Registration order is
// activation order within an instant, so seed agents act before the
// environment agent and the observer on any given tick.
func (r *Runner) bootstrap(rc *core.RunContext, topo *topology.Store) error {
	nodes := slices.Clone(r.cfg.Seed.Nodes)
	slices.Sort(nodes)

	for i, id := range nodes {
		state := r.cfg.States[0]
		if len(r.cfg.States) > 1 {
			state = r.cfg.States[i]
		}

		a, err := r.cfg.Factory(rc, id, state)
		if err != nil {
			return fmt.Errorf("construct seed agent %d: %w", id, err)
		}
		if err := topo.SetAgent(id, a); err != nil {
			return fmt.Errorf("bind seed agent %d: %w", id, err)
		}

		agent.Activate(rc, a)
	}

	if r.cfg.Environment != nil {
		ea, err := r.cfg.Environment(rc)
		if err != nil {
			return fmt.Errorf("construct environment agent: %w", err)
		}

		agent.Activate(rc, ea)
	}

	return nil
}

// firstFreeID returns the lowest node id the spawn counter may hand out
// without colliding with a seed node.
func firstFreeID(seed *core.Snapshot) int64 {
	var next int64
	for _, id := range seed.Nodes {
		if id >= next {
			next = id + 1
		}
	}
	return next
}
