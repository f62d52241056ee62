// Package prompt loads and renders the agent's prompt templates.
//
// Templates are embedded in the binary so the agent needs no external
// prompt directory. The fingerprint of the template sources is stamped
// into every evaluation snapshot, which makes prompt changes visible
// when comparing runs.
package prompt

import (
	"crypto/sha256"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Library holds the parsed prompt templates.
type Library struct {
	templates   *template.Template
	fingerprint string
}

// Load parses the embedded prompt templates and computes their
// fingerprint.
func Load() (*Library, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}

	fingerprint, err := fingerprintFS(templateFS)
	if err != nil {
		return nil, err
	}

	return &Library{templates: templates, fingerprint: fingerprint}, nil
}

// Fingerprint returns a short hash of all prompt template sources.
// Two builds with identical prompts produce identical fingerprints.
func (l *Library) Fingerprint() string {
	return l.fingerprint
}

// SystemPrompt renders the system prompt with the action listing, the
// workflow variables and any retrieved API documentation.
func (l *Library) SystemPrompt(actions string, variables map[string]any, documentation string) (string, error) {
	if documentation == "" {
		documentation = "(none retrieved)"
	}
	return l.render("system_prompt.tmpl", map[string]any{
		"Actions":       actions,
		"Variables":     variables,
		"Documentation": documentation,
	})
}

// UserRequest renders the user request prompt.
func (l *Library) UserRequest(request string, variables map[string]any) (string, error) {
	return l.render("user_request.tmpl", map[string]any{
		"Request":   request,
		"Variables": variables,
	})
}

func (l *Library) render(name string, data map[string]any) (string, error) {
	var b strings.Builder
	if err := l.templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return b.String(), nil
}

// fingerprintFS hashes all template sources in a stable order.
func fingerprintFS(fsys fs.FS) (string, error) {
	paths, err := fs.Glob(fsys, "templates/*.tmpl")
	if err != nil {
		return "", fmt.Errorf("failed to list templates: %w", err)
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, path := range paths {
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		h.Write([]byte(path))
		h.Write([]byte{0})
		h.Write(content)
	}

	return fmt.Sprintf("%x", h.Sum(nil))[:8], nil
}
