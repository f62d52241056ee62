package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wireup/internal/catalog"
)

func TestMockAgent_KeywordSelection(t *testing.T) {
	tests := []struct {
		request string
		want    string
	}{
		{"Post the summary to Slack", "slack_post_message"},
		{"Add these products to my Notion database", "notion_create_page"},
		{"Update the Notion block with the new status message", "notion_update_block"},
		{"Create a GitHub issue for the failed scrape", "github_create_issue"},
		{"Add these results to the existing spreadsheet", "google_sheets_append"},
		{"Create a new spreadsheet with the products", "google_sheets_create"},
		{"Create a record in my Airtable base with the product data", "airtable_create_record"},
		{"Add this lead as a contact in HubSpot", "hubspot_create_contact"},
		{"Create a Trello card for this task", "trello_create_card"},
		{"Create a Jira ticket for this bug", "jira_create_issue"},
		{"Create a new customer in Stripe for this signup", "stripe_create_customer"},
		{"Send an email notification via SendGrid about the order", "sendgrid_send_email"},
		{"Send an SMS alert via Twilio about the system status", "twilio_send_sms"},
		{"Do something entirely unrelated", "unknown"},
	}

	m := NewMockAgent()
	for _, tt := range tests {
		t.Run(tt.request, func(t *testing.T) {
			result, err := m.Invoke(context.Background(), tt.request, Context{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.SelectedAction)
			assert.NotEmpty(t, result.ProposedConfig)
			assert.False(t, result.Partial)
		})
	}
}

func TestMockAgent_IsDeterministic(t *testing.T) {
	m := NewMockAgent()

	a, err := m.Invoke(context.Background(), "Post the summary to Slack", Context{})
	require.NoError(t, err)
	b, err := m.Invoke(context.Background(), "Post the summary to Slack", Context{})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestMockAgent_SelectsOnlyCatalogActions(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	m := NewMockAgent()
	requests := []string{
		"Post the summary to Slack",
		"Create a Jira ticket for this bug",
		"Add these results to the existing spreadsheet",
	}
	for _, request := range requests {
		result, err := m.Invoke(context.Background(), request, Context{})
		require.NoError(t, err)
		assert.True(t, cat.IsValid(result.SelectedAction),
			"mock selected %q which is not in the catalog", result.SelectedAction)
	}
}
