package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wireup/internal/catalog"
)

func TestDefaultScenarios(t *testing.T) {
	scenarios := DefaultScenarios()
	require.Len(t, scenarios, 12)

	cat, err := catalog.Default()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i, s := range scenarios {
		assert.NotEmpty(t, s.Request, "scenario %d has no request", i)
		assert.NotEmpty(t, s.Variables, "scenario %d has no variables", i)
		assert.True(t, cat.IsValid(s.ExpectedAction),
			"scenario %d expects unknown action %q", i, s.ExpectedAction)
		assert.False(t, seen[s.ExpectedAction],
			"scenario %d repeats action %q", i, s.ExpectedAction)
		seen[s.ExpectedAction] = true
	}
}

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenarios_Valid(t *testing.T) {
	path := writeScenarioFile(t, `
scenarios:
  - request: "Post the summary to Slack"
    expected_action: slack_post_message
    description: "Simple interpolation"
    variables:
      summary: "Found 3 products"
      slack_channel: "#alerts"
  - request: "Create a Jira ticket for this bug"
    expected_action: jira_create_issue
    variables:
      project_key: PROJ
`)

	scenarios, err := LoadScenarios(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	assert.Equal(t, "Post the summary to Slack", scenarios[0].Request)
	assert.Equal(t, "slack_post_message", scenarios[0].ExpectedAction)
	assert.Equal(t, "#alerts", scenarios[0].Variables["slack_channel"])
	assert.Equal(t, "jira_create_issue", scenarios[1].ExpectedAction)
}

func TestLoadScenarios_MissingFile(t *testing.T) {
	_, err := LoadScenarios(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarios_RejectsUnknownFields(t *testing.T) {
	// "expected_actions" is a typo for "expected_action".
	path := writeScenarioFile(t, `
scenarios:
  - request: "Post to Slack"
    expected_actions: slack_post_message
    variables:
      summary: hi
`)

	_, err := LoadScenarios(path)
	require.Error(t, err)
}

func TestLoadScenarios_RejectsBadActionID(t *testing.T) {
	path := writeScenarioFile(t, `
scenarios:
  - request: "Post to Slack"
    expected_action: "Slack Post Message"
    variables:
      summary: hi
`)

	_, err := LoadScenarios(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestLoadScenarios_RejectsEmptyList(t *testing.T) {
	path := writeScenarioFile(t, `
scenarios: []
`)

	_, err := LoadScenarios(path)
	require.Error(t, err)
}

func TestLoadScenarios_RejectsMissingRequest(t *testing.T) {
	path := writeScenarioFile(t, `
scenarios:
  - expected_action: slack_post_message
    variables:
      summary: hi
`)

	_, err := LoadScenarios(path)
	require.Error(t, err)
}

func TestLoadScenarios_RejectsMalformedYAML(t *testing.T) {
	path := writeScenarioFile(t, "scenarios: [unterminated")

	_, err := LoadScenarios(path)
	require.Error(t, err)
}
