package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 13, cat.Len())

	// Every action carries the full metadata set.
	for _, a := range cat.All() {
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.Description)
		assert.NotEmpty(t, a.APIReference)
		assert.NotEmpty(t, a.Integration)
	}
}

func TestByID(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	a, ok := cat.ByID("slack_post_message")
	require.True(t, ok)
	assert.Equal(t, "Send Slack Message", a.Name)
	assert.Equal(t, "slack", a.Integration)

	_, ok = cat.ByID("nonexistent_action")
	assert.False(t, ok)
}

func TestIsValid(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.True(t, cat.IsValid("github_create_issue"))
	assert.False(t, cat.IsValid("github_close_issue"))
}

func TestFilter(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{
			name:    "slack",
			query:   "slack",
			wantIDs: []string{"slack_post_message"},
		},
		{
			name:    "case folded",
			query:   "GitHub",
			wantIDs: []string{"github_create_issue"},
		},
		{
			name:    "spreadsheet matches both sheet actions",
			query:   "spreadsheet",
			wantIDs: []string{"google_sheets_create", "google_sheets_append"},
		},
		{
			name:    "no match",
			query:   "xyznonexistent",
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, a := range cat.Filter(tt.query) {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Len(t, cat.Filter(""), cat.Len())
	assert.Len(t, cat.Filter("   "), cat.Len())
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "actions.json")

	content := `[
  {
    "id": "slack_post_message",
    "name": "Send Slack Message",
    "description": "Post a message to a Slack channel",
    "api_reference": "https://api.slack.com/methods/chat.postMessage",
    "integration": "slack"
  }
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())
	assert.True(t, cat.IsValid("slack_post_message"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not json",
			content: `{{{`,
		},
		{
			name:    "empty list",
			content: `[]`,
		},
		{
			name: "bad id casing",
			content: `[{"id": "SlackPost", "name": "x", "description": "y",
				"api_reference": "https://example.com", "integration": "slack"}]`,
		},
		{
			name: "missing field",
			content: `[{"id": "slack_post_message", "name": "x",
				"api_reference": "https://example.com", "integration": "slack"}]`,
		},
		{
			name: "insecure api reference",
			content: `[{"id": "slack_post_message", "name": "x", "description": "y",
				"api_reference": "http://example.com", "integration": "slack"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "actions.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_DuplicateID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.json")
	content := `[
  {"id": "slack_post_message", "name": "a", "description": "b",
   "api_reference": "https://example.com", "integration": "slack"},
  {"id": "slack_post_message", "name": "c", "description": "d",
   "api_reference": "https://example.com", "integration": "slack"}
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate action id")
}

func TestMatchIntegration(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	tests := []struct {
		request string
		want    string
	}{
		{"Post the summary to Slack", "slack"},
		{"Create a GitHub issue for the failed scrape", "github"},
		{"Add these products to my Notion database", "notion"},
		{"Add this to google sheets", "google_sheets"},
		{"Do something unrelated", ""},
		{"Move it from Slack to Notion", ""}, // ambiguous
	}

	for _, tt := range tests {
		t.Run(tt.request, func(t *testing.T) {
			assert.Equal(t, tt.want, cat.MatchIntegration(tt.request))
		})
	}
}

func TestPromptListing(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	listing := cat.PromptListing()
	assert.Contains(t, listing, "**slack_post_message**")
	assert.Contains(t, listing, "Available Integration Actions:")
	for _, a := range cat.All() {
		assert.Contains(t, listing, a.ID)
	}
}
