package harness

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed scenario.cue
var scenarioSchema string

// Scenario defines a single evaluation scenario.
// Each scenario pairs a natural-language request with the action the agent
// is expected to select and the workflow variables available for rendering
// the proposed configuration template.
type Scenario struct {
	// Request is the natural-language instruction given to the agent.
	Request string `yaml:"request" json:"request"`

	// ExpectedAction is the catalog action ID the agent should select.
	// Correctness is judged by exact, case-sensitive equality.
	ExpectedAction string `yaml:"expected_action" json:"expected_action"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Variables are the workflow variables the proposed config template
	// is rendered against during scoring.
	Variables map[string]any `yaml:"variables" json:"variables"`
}

// scenarioFile is the on-disk YAML envelope for a scenario set.
type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios reads and parses a scenario YAML file.
// The file is validated against an embedded schema before decoding,
// and unknown fields (typos like "expected_actions:") are rejected.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	if err := validateScenarioSchema(path, data); err != nil {
		return nil, fmt.Errorf("invalid scenario file %s: %w", path, err)
	}

	var file scenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenarios(file.Scenarios); err != nil {
		return nil, fmt.Errorf("invalid scenario file %s: %w", path, err)
	}

	return file.Scenarios, nil
}

// validateScenarioSchema checks the raw YAML against the embedded
// CUE schema. This catches structural problems (wrong types, malformed
// action IDs) with field-level error positions.
func validateScenarioSchema(path string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(scenarioSchema, cue.Filename("scenario.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return fmt.Errorf("failed to build scenario data: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// validateScenarios checks that required fields are present.
func validateScenarios(scenarios []Scenario) error {
	if len(scenarios) == 0 {
		return fmt.Errorf("scenarios list is required and must be non-empty")
	}

	for i, s := range scenarios {
		if s.Request == "" {
			return fmt.Errorf("scenarios[%d]: request is required", i)
		}
		if s.ExpectedAction == "" {
			return fmt.Errorf("scenarios[%d]: expected_action is required", i)
		}
	}

	return nil
}

// DefaultScenarios returns the built-in evaluation set covering twelve of
// the catalog actions. These mirror the workflow contexts produced by the
// scraping pipeline the agent is attached to.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Request:        "Post the summary to Slack",
			ExpectedAction: "slack_post_message",
			Description:    "Simple variable interpolation for Slack message",
			Variables: map[string]any{
				"summary":       "Found 3 products. Average price: $91.66. Lowest: USB-C Hub ($45.00)",
				"slack_channel": "#product-alerts",
				"scraper_results": []any{
					map[string]any{"name": "Wireless Headphones", "price": 79.99, "url": "https://store.example.com/p/1001"},
				},
			},
		},
		{
			Request:        "Add these products to my Notion database",
			ExpectedAction: "notion_create_page",
			Description:    "Array loop for creating Notion pages",
			Variables: map[string]any{
				"scraper_results": []any{
					map[string]any{"name": "Wireless Headphones", "price": 79.99, "url": "https://store.example.com/p/1001"},
					map[string]any{"name": "USB-C Hub", "price": 45.0, "url": "https://store.example.com/p/1002"},
					map[string]any{"name": "Mechanical Keyboard", "price": 149.99, "url": "https://store.example.com/p/1003"},
				},
				"notion_database_id": "8a3b1c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6d",
			},
		},
		{
			Request:        "Create a GitHub issue for the failed scrape",
			ExpectedAction: "github_create_issue",
			Description:    "String interpolation for GitHub issue",
			Variables: map[string]any{
				"summary":       "Scrape failed: Connection timeout after 30s. URL: https://store.example.com",
				"error_details": "TimeoutError: Request exceeded 30000ms",
			},
		},
		{
			Request:        "Add these results to the existing spreadsheet",
			ExpectedAction: "google_sheets_append",
			Description:    "Array loop for appending to existing spreadsheet",
			Variables: map[string]any{
				"scraper_results": []any{
					map[string]any{"name": "Wireless Headphones", "price": 79.99, "url": "https://store.example.com/p/1001"},
					map[string]any{"name": "USB-C Hub", "price": 45.0, "url": "https://store.example.com/p/1002"},
				},
				"spreadsheet_id": "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
			},
		},
		{
			Request:        "Update the Notion block with the new status message",
			ExpectedAction: "notion_update_block",
			Description:    "Notion block update with text content",
			Variables: map[string]any{
				"block_id":    "b1c2d3e4-5f6a-7b8c-9d0e-1f2a3b4c5d6e",
				"new_content": "Status: Completed - All tasks finished successfully.",
				"status":      "completed",
			},
		},
		{
			Request:        "Create a record in my Airtable base with the product data",
			ExpectedAction: "airtable_create_record",
			Description:    "Airtable record creation with product fields",
			Variables: map[string]any{
				"base_id":    "appXYZ123456789",
				"table_name": "Products",
				"product_data": map[string]any{
					"name":     "New Product",
					"price":    99.99,
					"category": "Electronics",
					"in_stock": true,
				},
			},
		},
		{
			Request:        "Add this lead as a contact in HubSpot",
			ExpectedAction: "hubspot_create_contact",
			Description:    "HubSpot contact creation with lead data",
			Variables: map[string]any{
				"lead": map[string]any{
					"email":      "john.smith@acmecorp.com",
					"first_name": "John",
					"last_name":  "Smith",
					"company":    "Acme Corporation",
					"job_title":  "VP of Engineering",
					"phone":      "+1-555-123-4567",
				},
			},
		},
		{
			Request:        "Create a Trello card for this task",
			ExpectedAction: "trello_create_card",
			Description:    "Trello card creation with task details",
			Variables: map[string]any{
				"list_id": "5f1a2b3c4d5e6f7a8b9c0d1e",
				"task": map[string]any{
					"name":        "Review pull request #42",
					"description": "Code review needed for the authentication module updates",
					"due_date":    "2024-01-15T17:00:00Z",
				},
			},
		},
		{
			Request:        "Create a Jira ticket for this bug",
			ExpectedAction: "jira_create_issue",
			Description:    "Jira issue creation for bug tracking",
			Variables: map[string]any{
				"project_key": "PROJ",
				"bug": map[string]any{
					"summary":     "Login page returns 500 error on mobile",
					"description": "Users on iOS Safari cannot log in. Error occurs after entering credentials.",
					"priority":    "High",
				},
				"labels": []any{"mobile", "urgent", "login"},
			},
		},
		{
			Request:        "Create a new customer in Stripe for this signup",
			ExpectedAction: "stripe_create_customer",
			Description:    "Stripe customer creation with metadata",
			Variables: map[string]any{
				"customer": map[string]any{
					"email": "newuser@example.com",
					"name":  "Jane Doe",
					"phone": "+1-555-987-6543",
				},
				"plan":          "premium",
				"signup_source": "landing_page",
			},
		},
		{
			Request:        "Send an email notification via SendGrid about the order",
			ExpectedAction: "sendgrid_send_email",
			Description:    "SendGrid email for order notification",
			Variables: map[string]any{
				"recipient": map[string]any{
					"email": "customer@example.com",
					"name":  "John Customer",
				},
				"order": map[string]any{
					"id":     "ORD-12345",
					"total":  "$149.99",
					"status": "shipped",
				},
				"from_email": "orders@store.com",
				"from_name":  "Store Notifications",
			},
		},
		{
			Request:        "Send an SMS alert via Twilio about the system status",
			ExpectedAction: "twilio_send_sms",
			Description:    "Twilio SMS for system alerts",
			Variables: map[string]any{
				"alert_phone":   "+14155551234",
				"twilio_number": "+14155559876",
				"alert": map[string]any{
					"type":      "warning",
					"message":   "CPU usage exceeded 90% on production server",
					"timestamp": "2024-01-08T14:30:00Z",
				},
			},
		},
	}
}
