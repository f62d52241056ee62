// Package agent defines the integration agent capability and its two
// implementations: a deterministic keyword-matching mock and an adapter
// over an external chat model.
//
// The evaluation harness depends only on the Agent interface; it is
// agnostic to how an action is selected or documentation retrieved.
package agent

import "context"

// Context carries the workflow state an agent may consult.
type Context struct {
	// UserInput is the raw request text, also available to prompts.
	UserInput string `json:"user_input"`

	// Variables are the workflow variables available for templating.
	Variables map[string]any `json:"variables"`
}

// Result is an agent's answer for one request.
type Result struct {
	// SelectedAction is the chosen integration action id.
	SelectedAction string `json:"selected_action"`

	// Reasoning explains the selection and config construction.
	Reasoning string `json:"reasoning"`

	// ProposedConfig is a Liquid template string expected to render to
	// valid JSON for the selected action's API.
	ProposedConfig string `json:"proposed_config"`

	// Partial marks a result recovered from truncated or malformed
	// model output by the fallback decoder. Downstream consumers get a
	// typed signal instead of raw text.
	Partial bool `json:"partial,omitempty"`
}

// Agent selects an integration action and proposes its configuration.
// Implementations may return an error; callers at the scenario boundary
// convert errors into recorded outcomes rather than propagating them.
type Agent interface {
	Invoke(ctx context.Context, request string, wc Context) (*Result, error)
}
