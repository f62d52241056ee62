package harness

import (
	"time"

	"wireup/internal/agent"
	"wireup/internal/template"
)

// Scorer converts an agent result into a scored outcome.
// Scoring is pure: the same scenario and result always produce the
// same outcome, and scoring itself never fails.
type Scorer struct {
	validator *template.Validator
}

// NewScorer returns a scorer with a fresh template validator.
func NewScorer() *Scorer {
	return &Scorer{validator: template.New()}
}

// Score derives an outcome from a scenario and the agent's result.
//
// When invokeErr is non-nil the invocation failed before producing a
// usable result: all score booleans are false, latency is zeroed, and
// the error text is recorded. The error is data, not a failure of the
// scoring operation.
func (s *Scorer) Score(id int, scenario Scenario, result *agent.Result, invokeErr error, latency time.Duration) Outcome {
	outcome := Outcome{
		ScenarioID:     id,
		Request:        scenario.Request,
		ExpectedAction: scenario.ExpectedAction,
	}

	if invokeErr != nil {
		outcome.Error = invokeErr.Error()
		return outcome
	}

	// An agent returning neither result nor error counts as an
	// invocation failure, not a crash.
	if result == nil {
		outcome.Error = "agent returned no result"
		return outcome
	}

	outcome.ActualAction = result.SelectedAction
	outcome.Reasoning = result.Reasoning
	outcome.ProposedConfig = result.ProposedConfig
	outcome.LatencyMS = float64(latency) / float64(time.Millisecond)

	// Exact, case-sensitive match. "Slack_Post_Message" is wrong.
	outcome.ActionCorrect = result.SelectedAction == scenario.ExpectedAction

	validation := s.validator.Validate(result.ProposedConfig, scenario.Variables)
	outcome.LiquidValid = validation.SyntaxValid
	outcome.RendersToJSON = validation.RendersToJSON
	outcome.RenderedConfig = validation.Rendered

	return outcome
}
