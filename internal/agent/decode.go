package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// rawResponse is the JSON object the model is instructed to produce.
type rawResponse struct {
	SelectedAction string `json:"selected_action"`
	Reasoning      string `json:"reasoning"`
	ProposedConfig string `json:"proposed_config"`
}

var jsonObjectStart = regexp.MustCompile(`(?m)^\s*\{`)

// decodeOutput turns raw model output into a Result.
//
// The happy path is a fenced ```json block or a bare JSON object.
// Truncated output (a known failure mode of upstream models) falls back
// to regex field extraction and yields a Result marked Partial, so the
// caller gets a typed signal instead of leaked raw text. Output with no
// recoverable fields is an error.
func decodeOutput(output string) (*Result, error) {
	candidate := extractJSONCandidate(output)

	var raw rawResponse
	if err := json.Unmarshal([]byte(candidate), &raw); err == nil && raw.SelectedAction != "" {
		return &Result{
			SelectedAction: raw.SelectedAction,
			Reasoning:      raw.Reasoning,
			ProposedConfig: defaultConfig(raw.ProposedConfig),
		}, nil
	}

	// Fallback for truncated responses: pull fields out individually.
	action := extractField(output, "selected_action")
	if action == "" {
		return nil, fmt.Errorf("unable to decode agent output: no selected_action found in %d bytes", len(output))
	}

	reasoning := extractField(output, "reasoning")
	if reasoning == "" {
		reasoning = "recovered from truncated output"
	}

	return &Result{
		SelectedAction: action,
		Reasoning:      reasoning,
		ProposedConfig: defaultConfig(extractField(output, "proposed_config")),
		Partial:        true,
	}, nil
}

// extractJSONCandidate locates the JSON payload inside model output:
// a fenced code block (possibly unclosed), else the first object start.
func extractJSONCandidate(output string) string {
	for _, fence := range []string{"```json", "```"} {
		if start := strings.Index(output, fence); start >= 0 {
			rest := output[start+len(fence):]
			if end := strings.Index(rest, "```"); end >= 0 {
				return strings.TrimSpace(rest[:end])
			}
			// Unclosed fence: take the remainder.
			return strings.TrimSpace(rest)
		}
	}

	if loc := jsonObjectStart.FindStringIndex(output); loc != nil {
		return strings.TrimSpace(output[loc[0]:])
	}
	return strings.TrimSpace(output)
}

// extractField pulls a single "field": "value" pair out of possibly
// truncated JSON text.
func extractField(text, field string) string {
	pattern := regexp.MustCompile(`"` + regexp.QuoteMeta(field) + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	value := match[1]
	value = strings.ReplaceAll(value, `\"`, `"`)
	value = strings.ReplaceAll(value, `\n`, "\n")
	return value
}

func defaultConfig(config string) string {
	if strings.TrimSpace(config) == "" {
		return "{}"
	}
	return config
}
