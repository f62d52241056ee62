// Package catalog provides the static registry of integration actions.
//
// The catalog is loaded once at startup (from the embedded default or an
// explicit JSON file) and passed by value into the components that need
// it. There is no ambient global lookup.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/cases"
)

//go:embed actions.json
var defaultActionsJSON []byte

//go:embed schema.cue
var schemaCUE string

// Action describes one supported third-party API operation.
type Action struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	APIReference string `json:"api_reference"`
	Integration  string `json:"integration"`
}

// Catalog holds the ordered list of integration actions.
type Catalog struct {
	actions []Action
	byID    map[string]Action
}

// Default returns the catalog built from the embedded action list.
// The embedded list is validated at build time by TestDefaultCatalog,
// so a failure here indicates a corrupted binary.
func Default() (*Catalog, error) {
	return parse(defaultActionsJSON)
}

// Load reads and validates a catalog from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	cat, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// parse validates raw JSON against the embedded CUE schema and builds
// the catalog. JSON is a subset of CUE, so the data compiles directly.
func parse(data []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("invalid catalog schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename("actions.json"))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("catalog is not valid JSON: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return nil, fmt.Errorf("catalog failed schema validation: %w", err)
	}

	var actions []Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("catalog contains no actions")
	}

	byID := make(map[string]Action, len(actions))
	for _, a := range actions {
		if _, dup := byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate action id %q", a.ID)
		}
		byID[a.ID] = a
	}

	return &Catalog{actions: actions, byID: byID}, nil
}

// All returns the actions in catalog order.
func (c *Catalog) All() []Action {
	out := make([]Action, len(c.actions))
	copy(out, c.actions)
	return out
}

// Len returns the number of actions in the catalog.
func (c *Catalog) Len() int {
	return len(c.actions)
}

// ByID returns the action with the given id.
func (c *Catalog) ByID(id string) (Action, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// IsValid reports whether the given action id exists in the catalog.
func (c *Catalog) IsValid(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Filter returns the actions whose id, name or description contains the
// query as a caseless substring. Matching uses Unicode case folding so
// queries like "GitHub" and "github" behave identically. An empty query
// returns all actions.
func (c *Catalog) Filter(query string) []Action {
	if strings.TrimSpace(query) == "" {
		return c.All()
	}

	folder := cases.Fold()
	needle := folder.String(query)

	var matched []Action
	for _, a := range c.actions {
		haystack := folder.String(a.ID + " " + a.Name + " " + a.Description)
		if strings.Contains(haystack, needle) {
			matched = append(matched, a)
		}
	}
	return matched
}

// MatchIntegration returns the integration whose name appears in the
// given request text (caseless, underscores treated as spaces). Returns
// "" when no integration or more than one distinct integration matches.
func (c *Catalog) MatchIntegration(request string) string {
	folder := cases.Fold()
	folded := folder.String(request)

	matched := ""
	for _, a := range c.actions {
		name := strings.ReplaceAll(a.Integration, "_", " ")
		if !strings.Contains(folded, folder.String(name)) {
			continue
		}
		if matched != "" && matched != a.Integration {
			return "" // ambiguous
		}
		matched = a.Integration
	}
	return matched
}

// PromptListing renders the catalog as a readable block for inclusion
// in a system prompt.
func (c *Catalog) PromptListing() string {
	var b strings.Builder
	b.WriteString("Available Integration Actions:\n")
	for _, a := range c.actions {
		fmt.Fprintf(&b, "\n- **%s**: %s\n", a.ID, a.Name)
		fmt.Fprintf(&b, "  Description: %s\n", a.Description)
		fmt.Fprintf(&b, "  API Reference: %s\n", a.APIReference)
	}
	return b.String()
}
