package agent

import (
	"context"
	"fmt"
	"strings"
)

// MockAgent selects actions by keyword matching. It is deterministic,
// makes no external calls and satisfies the same interface as the LLM
// adapter, so the harness runs identically in either mode.
type MockAgent struct{}

// NewMockAgent constructs the mock.
func NewMockAgent() *MockAgent {
	return &MockAgent{}
}

// mockRule maps request keywords to an action and a canned config.
// Rules are evaluated in order; the first match wins.
type mockRule struct {
	keywords []string
	action   string
	config   string
}

var mockRules = []mockRule{
	{
		keywords: []string{"slack"},
		action:   "slack_post_message",
		config:   `{ "channel": "{{ slack_channel }}", "text": "{{ summary }}" }`,
	},
	{
		keywords: []string{"notion block", "block"},
		action:   "notion_update_block",
		config:   `{ "block_id": "{{ block_id }}", "paragraph": { "rich_text": [{ "text": { "content": "{{ new_content }}" } }] } }`,
	},
	{
		keywords: []string{"notion"},
		action:   "notion_create_page",
		config:   `{ "parent": { "database_id": "{{ notion_database_id }}" } }`,
	},
	{
		keywords: []string{"airtable"},
		action:   "airtable_create_record",
		config:   `{ "records": [{ "fields": { "Name": "{{ product_data.name }}", "Price": {{ product_data.price }}, "Category": "{{ product_data.category }}" } }] }`,
	},
	{
		keywords: []string{"hubspot", "contact"},
		action:   "hubspot_create_contact",
		config:   `{ "properties": { "email": "{{ lead.email }}", "firstname": "{{ lead.first_name }}", "lastname": "{{ lead.last_name }}", "company": "{{ lead.company }}" } }`,
	},
	{
		keywords: []string{"trello", "card"},
		action:   "trello_create_card",
		config:   `{ "idList": "{{ list_id }}", "name": "{{ task.name }}", "desc": "{{ task.description }}", "due": "{{ task.due_date }}" }`,
	},
	{
		keywords: []string{"jira", "ticket"},
		action:   "jira_create_issue",
		config:   `{ "fields": { "project": { "key": "{{ project_key }}" }, "summary": "{{ bug.summary }}", "description": "{{ bug.description }}", "priority": { "name": "{{ bug.priority }}" } } }`,
	},
	{
		keywords: []string{"stripe", "customer"},
		action:   "stripe_create_customer",
		config:   `{ "email": "{{ customer.email }}", "name": "{{ customer.name }}", "metadata": { "plan": "{{ plan }}", "signup_source": "{{ signup_source }}" } }`,
	},
	{
		keywords: []string{"sendgrid", "email"},
		action:   "sendgrid_send_email",
		config:   `{ "personalizations": [{ "to": [{ "email": "{{ recipient.email }}" }] }], "from": { "email": "{{ from_email }}" }, "subject": "Order {{ order.id }} {{ order.status }}", "content": [{ "type": "text/plain", "value": "Your order {{ order.id }} is {{ order.status }}." }] }`,
	},
	{
		keywords: []string{"twilio", "sms"},
		action:   "twilio_send_sms",
		config:   `{ "To": "{{ alert_phone }}", "From": "{{ twilio_number }}", "Body": "{{ alert.message }}" }`,
	},
	{
		keywords: []string{"github", "issue"},
		action:   "github_create_issue",
		config:   `{ "title": "Issue", "body": "{{ summary }}" }`,
	},
}

// Invoke implements Agent via keyword matching on the request text.
func (m *MockAgent) Invoke(_ context.Context, request string, _ Context) (*Result, error) {
	lower := strings.ToLower(request)

	action := "unknown"
	config := "{}"

	if strings.Contains(lower, "spreadsheet") || strings.Contains(lower, "sheet") {
		if strings.Contains(lower, "existing") || strings.Contains(lower, "append") || strings.Contains(lower, "add") {
			action = "google_sheets_append"
			config = `{ "spreadsheetId": "{{ spreadsheet_id }}", "values": [{% for item in scraper_results %}["{{ item.name }}", {{ item.price }}, "{{ item.url }}"]{% unless forloop.last %},{% endunless %}{% endfor %}] }`
		} else {
			action = "google_sheets_create"
			config = `{ "properties": { "title": "New Sheet" } }`
		}
	} else {
		for _, rule := range mockRules {
			if containsAny(lower, rule.keywords) {
				action = rule.action
				config = rule.config
				break
			}
		}
	}

	return &Result{
		SelectedAction: action,
		Reasoning:      fmt.Sprintf("Mock agent selected %s based on keywords", action),
		ProposedConfig: config,
	}, nil
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
