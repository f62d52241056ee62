package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *EvalRun {
	return &EvalRun{
		RunID:             "test-run-default",
		Timestamp:         time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC),
		CodeRevision:      "abc1234",
		PromptFingerprint: "5f3a9c01",
		TotalScenarios:    2,
		Metrics: Metrics{
			MetricActionAccuracy: 100,
			MetricLiquidValid:    100,
			MetricRendersToJSON:  50,
			MetricAvgLatencyMS:   120.5,
			MetricErrorRate:      0,
		},
		Outcomes: []Outcome{
			{
				ScenarioID:     0,
				Request:        "Post the summary to Slack",
				ExpectedAction: "slack_post_message",
				ActualAction:   "slack_post_message",
				ActionCorrect:  true,
				LiquidValid:    true,
				RendersToJSON:  true,
				Reasoning:      "request names slack",
				ProposedConfig: `{ "channel": "{{ slack_channel }}" }`,
				RenderedConfig: `{ "channel": "#alerts" }`,
				LatencyMS:      101,
			},
			{
				ScenarioID:     1,
				Request:        "Create a GitHub issue for the failed scrape",
				ExpectedAction: "github_create_issue",
				ActualAction:   "github_create_issue",
				ActionCorrect:  true,
				LiquidValid:    true,
				RendersToJSON:  false,
				Reasoning:      "request names github",
				ProposedConfig: `{ "title": "{{ summary }}`,
				RenderedConfig: `{ "title": "Scrape failed`,
				LatencyMS:      140,
			},
		},
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "eval_v1.json")
	run := sampleRun()

	require.NoError(t, SaveSnapshot(run, path))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, run, loaded)
}

func TestSnapshot_WriteOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eval_v1.json")
	run := sampleRun()

	require.NoError(t, SaveSnapshot(run, path))

	err := SaveSnapshot(run, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot already exists")

	// The first snapshot is untouched.
	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, run, loaded)
}

func TestLoadSnapshot_Missing(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read snapshot")
}

func TestLoadSnapshot_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadSnapshot(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse snapshot")
}

func TestDetectCodeRevision_NeverEmpty(t *testing.T) {
	assert.NotEmpty(t, DetectCodeRevision())
}
