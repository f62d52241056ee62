package harness

import "time"

// Metric names as they appear in persisted snapshots.
const (
	MetricActionAccuracy = "action_accuracy"
	MetricLiquidValid    = "liquid_valid"
	MetricRendersToJSON  = "renders_to_json"
	MetricAvgLatencyMS   = "avg_latency_ms"
	MetricErrorRate      = "error_rate"
)

// metricOrder fixes the reporting order for metrics.
var metricOrder = []string{
	MetricActionAccuracy,
	MetricLiquidValid,
	MetricRendersToJSON,
	MetricAvgLatencyMS,
	MetricErrorRate,
}

// Metrics maps metric names to their aggregate values.
// Rates are percentages in [0, 100]; avg_latency_ms is milliseconds.
type Metrics map[string]float64

// Outcome is the scored result of running a single scenario.
type Outcome struct {
	// ScenarioID is the zero-based index of the scenario in its run.
	ScenarioID int `json:"scenario_id"`

	// Request and ExpectedAction are copied from the scenario so a
	// snapshot is self-describing without the original scenario file.
	Request        string `json:"request"`
	ExpectedAction string `json:"expected_action"`

	// ActualAction is the action the agent selected, empty when the
	// invocation failed before producing a result.
	ActualAction string `json:"actual_action,omitempty"`

	// ActionCorrect is true when ActualAction exactly equals ExpectedAction.
	ActionCorrect bool `json:"action_correct"`

	// LiquidValid is true when the proposed config parsed as a template.
	LiquidValid bool `json:"liquid_valid"`

	// RendersToJSON is true when the rendered config is valid JSON.
	RendersToJSON bool `json:"renders_to_json"`

	Reasoning      string `json:"reasoning,omitempty"`
	ProposedConfig string `json:"proposed_config,omitempty"`

	// RenderedConfig is the template output, recorded even when it is
	// not valid JSON so failures can be inspected from the snapshot.
	RenderedConfig string `json:"rendered_config,omitempty"`

	// LatencyMS is the wall-clock duration of the agent call.
	// Zero when the invocation errored.
	LatencyMS float64 `json:"latency_ms"`

	// Error holds the invocation error text, empty on success.
	// An errored outcome contributes only to error_rate.
	Error string `json:"error,omitempty"`
}

// EvalRun is a complete evaluation run: one outcome per scenario plus
// aggregate metrics and the provenance needed to compare runs over time.
// Runs are persisted as write-once snapshots and never mutated.
type EvalRun struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`

	// Timestamp records when the run started.
	Timestamp time.Time `json:"timestamp"`

	// CodeRevision is the short VCS revision the run was produced from,
	// or "unknown" outside a repository.
	CodeRevision string `json:"code_revision"`

	// PromptFingerprint identifies the prompt template version.
	PromptFingerprint string `json:"prompt_fingerprint"`

	// TotalScenarios is the number of scenarios executed.
	TotalScenarios int `json:"total_scenarios"`

	Metrics  Metrics   `json:"metrics"`
	Outcomes []Outcome `json:"outcomes"`
}
