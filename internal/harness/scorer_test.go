package harness

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wireup/internal/agent"
)

func slackScenario() Scenario {
	return Scenario{
		Request:        "Post the summary to Slack",
		ExpectedAction: "slack_post_message",
		Variables: map[string]any{
			"summary":       "Found 3 products",
			"slack_channel": "#alerts",
		},
	}
}

func TestScorer_CorrectActionAndValidTemplate(t *testing.T) {
	scorer := NewScorer()
	result := &agent.Result{
		SelectedAction: "slack_post_message",
		ProposedConfig: `{ "channel": "{{ slack_channel }}", "text": "{{ summary }}" }`,
	}

	outcome := scorer.Score(0, slackScenario(), result, nil, 120*time.Millisecond)

	assert.True(t, outcome.ActionCorrect)
	assert.True(t, outcome.LiquidValid)
	assert.True(t, outcome.RendersToJSON)
	assert.Equal(t, `{ "channel": "#alerts", "text": "Found 3 products" }`, outcome.RenderedConfig)
	assert.InDelta(t, 120.0, outcome.LatencyMS, 0.001)
	assert.Empty(t, outcome.Error)
}

func TestScorer_TruncatedTemplateFailsJSONOnly(t *testing.T) {
	scorer := NewScorer()
	result := &agent.Result{
		SelectedAction: "slack_post_message",
		ProposedConfig: `{ "channel": "{{ slack_channel }}", "text": "`,
	}

	outcome := scorer.Score(0, slackScenario(), result, nil, time.Millisecond)

	// The truncated config is still parseable Liquid, but its output
	// is not valid JSON.
	assert.True(t, outcome.ActionCorrect)
	assert.True(t, outcome.LiquidValid)
	assert.False(t, outcome.RendersToJSON)
}

func TestScorer_WrongActionStillValidatesTemplate(t *testing.T) {
	scorer := NewScorer()
	result := &agent.Result{
		SelectedAction: "sendgrid_send_email",
		ProposedConfig: `{ "to": "{{ slack_channel }}" }`,
	}

	outcome := scorer.Score(3, slackScenario(), result, nil, time.Millisecond)

	assert.False(t, outcome.ActionCorrect)
	assert.Equal(t, "sendgrid_send_email", outcome.ActualAction)
	assert.True(t, outcome.LiquidValid)
	assert.True(t, outcome.RendersToJSON)
}

func TestScorer_ActionMatchIsCaseSensitive(t *testing.T) {
	scorer := NewScorer()
	result := &agent.Result{
		SelectedAction: "Slack_Post_Message",
		ProposedConfig: "{}",
	}

	outcome := scorer.Score(0, slackScenario(), result, nil, time.Millisecond)
	assert.False(t, outcome.ActionCorrect)
}

func TestScorer_InvocationError(t *testing.T) {
	scorer := NewScorer()

	outcome := scorer.Score(2, slackScenario(), nil, errors.New("connection refused"), 0)

	assert.Equal(t, "connection refused", outcome.Error)
	assert.False(t, outcome.ActionCorrect)
	assert.False(t, outcome.LiquidValid)
	assert.False(t, outcome.RendersToJSON)
	assert.Empty(t, outcome.ActualAction)
	assert.Zero(t, outcome.LatencyMS)
	// Scenario identity is preserved for the report.
	assert.Equal(t, 2, outcome.ScenarioID)
	assert.Equal(t, "Post the summary to Slack", outcome.Request)
	assert.Equal(t, "slack_post_message", outcome.ExpectedAction)
}

func TestScorer_NilResultWithoutError(t *testing.T) {
	scorer := NewScorer()

	outcome := scorer.Score(1, slackScenario(), nil, nil, 80*time.Millisecond)

	assert.Equal(t, "agent returned no result", outcome.Error)
	assert.False(t, outcome.ActionCorrect)
	assert.False(t, outcome.LiquidValid)
	assert.False(t, outcome.RendersToJSON)
	assert.Zero(t, outcome.LatencyMS)
	assert.Equal(t, 1, outcome.ScenarioID)
}

func TestScorer_Deterministic(t *testing.T) {
	scorer := NewScorer()
	result := &agent.Result{
		SelectedAction: "slack_post_message",
		ProposedConfig: `{ "channel": "{{ slack_channel }}" }`,
	}

	first := scorer.Score(0, slackScenario(), result, nil, 50*time.Millisecond)
	second := scorer.Score(0, slackScenario(), result, nil, 50*time.Millisecond)
	assert.Equal(t, first, second)
}
