package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"wireup/internal/agent"
)

// Runner executes a scenario set against an agent and assembles the
// resulting evaluation run.
type Runner struct {
	agent       agent.Agent
	scenarios   []Scenario
	scorer      *Scorer
	now         func() time.Time
	newRunID    func() string
	revision    string
	fingerprint string
	parallel    int
	logger      *slog.Logger
}

// RunnerConfig configures a Runner. Agent and Scenarios are required.
type RunnerConfig struct {
	// Agent is the agent under evaluation.
	Agent agent.Agent

	// Scenarios is the scenario set to run, in order.
	Scenarios []Scenario

	// Now supplies timestamps and latency measurements.
	// Defaults to time.Now; override for deterministic tests.
	Now func() time.Time

	// NewRunID supplies run identifiers. Defaults to time-ordered UUIDs.
	NewRunID func() string

	// CodeRevision labels the run with a VCS revision.
	CodeRevision string

	// PromptFingerprint labels the run with the prompt template version.
	PromptFingerprint string

	// Parallel bounds concurrent scenario execution.
	// Values below 2 mean sequential execution.
	Parallel int

	// Logger receives per-scenario progress. Defaults to a no-op logger.
	Logger *slog.Logger
}

// NewRunner validates the config and returns a Runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if len(cfg.Scenarios) == 0 {
		return nil, fmt.Errorf("at least one scenario is required")
	}

	r := &Runner{
		agent:       cfg.Agent,
		scenarios:   cfg.Scenarios,
		scorer:      NewScorer(),
		now:         cfg.Now,
		newRunID:    cfg.NewRunID,
		revision:    cfg.CodeRevision,
		fingerprint: cfg.PromptFingerprint,
		parallel:    cfg.Parallel,
		logger:      cfg.Logger,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newRunID == nil {
		r.newRunID = defaultRunID
	}
	if r.revision == "" {
		r.revision = "unknown"
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r, nil
}

// Run executes every scenario and returns the assembled run.
//
// Scenario failures never abort the run: invocation errors and panics
// are captured into the outcome for that scenario. Outcomes are ordered
// by scenario index regardless of execution order.
func (r *Runner) Run(ctx context.Context) (*EvalRun, error) {
	run := &EvalRun{
		RunID:             r.newRunID(),
		Timestamp:         r.now().UTC(),
		CodeRevision:      r.revision,
		PromptFingerprint: r.fingerprint,
		TotalScenarios:    len(r.scenarios),
	}

	outcomes := make([]Outcome, len(r.scenarios))

	if r.parallel > 1 {
		g := new(errgroup.Group)
		g.SetLimit(r.parallel)
		for i, scenario := range r.scenarios {
			i, scenario := i, scenario
			g.Go(func() error {
				outcomes[i] = r.runScenario(ctx, i, scenario)
				return nil
			})
		}
		// Workers never return errors; failures land in outcomes.
		_ = g.Wait()
	} else {
		for i, scenario := range r.scenarios {
			outcomes[i] = r.runScenario(ctx, i, scenario)
		}
	}

	run.Outcomes = outcomes
	run.Metrics = Aggregate(outcomes)
	return run, nil
}

func (r *Runner) runScenario(ctx context.Context, id int, scenario Scenario) Outcome {
	r.logger.Info("running scenario",
		"scenario", id+1,
		"total", len(r.scenarios),
		"request", scenario.Request)

	result, latency, err := r.invoke(ctx, scenario)
	outcome := r.scorer.Score(id, scenario, result, err, latency)

	if outcome.Error != "" {
		r.logger.Warn("scenario errored", "scenario", id+1, "error", outcome.Error)
	} else {
		r.logger.Info("scenario scored",
			"scenario", id+1,
			"expected", outcome.ExpectedAction,
			"actual", outcome.ActualAction,
			"correct", outcome.ActionCorrect)
	}
	return outcome
}

// invoke calls the agent with panic capture. A panicking agent is
// recorded as an errored outcome, same as a returned error.
func (r *Runner) invoke(ctx context.Context, scenario Scenario) (result *agent.Result, latency time.Duration, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = nil
			latency = 0
			err = fmt.Errorf("agent panicked: %v", p)
		}
	}()

	start := r.now()
	result, err = r.agent.Invoke(ctx, scenario.Request, agent.Context{
		UserInput: scenario.Request,
		Variables: scenario.Variables,
	})
	latency = r.now().Sub(start)
	if err != nil {
		return nil, 0, err
	}
	return result, latency, nil
}

func defaultRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
